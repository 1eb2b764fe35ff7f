// Package nowplaying is the terminal now-playing screen: stream title,
// artwork link, player state and transport keys.
package nowplaying

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/airwaves/internal/metadata"
	"github.com/llehouerou/airwaves/internal/playback"
)

const (
	maxRecent  = 5
	volumeStep = 0.05
)

// Controller is the part of playback.Engine the screen drives.
type Controller interface {
	Snapshot() playback.Snapshot
	Play()
	Pause()
	Stop()
	TogglePlaying()
	SetVolume(level float64)
}

// Verify playback.Engine implements Controller at compile time.
var _ Controller = (*playback.Engine)(nil)

// Recent is a title heard earlier, newest first in Model.recent.
type Recent struct {
	Metadata metadata.Metadata
	At       time.Time
}

// Options configures a Model.
type Options struct {
	// OnVolume is called with the new level after a volume key.
	OnVolume func(level float64)
	// Recent seeds the title history, newest first.
	Recent []Recent
	// Now is the clock used for relative times.
	Now func() time.Time
}

type Model struct {
	ctl      Controller
	sub      *playback.Subscription
	onVolume func(float64)
	now      func() time.Time

	snap      playback.Snapshot
	// title is the last title seen in a MetadataChange; the snapshot can
	// run ahead of it.
	title     *metadata.Metadata
	recent    []Recent
	titleAt   time.Time
	lastError *playback.ErrorEvent
	closed    bool

	width  int
	height int
}

// New creates the screen. sub delivers engine events; the caller owns it.
func New(ctl Controller, sub *playback.Subscription, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	recent := opts.Recent
	if len(recent) > maxRecent {
		recent = recent[:maxRecent]
	}
	snap := ctl.Snapshot()
	return Model{
		ctl:      ctl,
		sub:      sub,
		onVolume: opts.OnVolume,
		now:      opts.Now,
		snap:     snap,
		title:    snap.Metadata,
		recent:   recent,
	}
}

// eventMsg carries one engine event into Update.
type eventMsg struct{ ev playback.Event }

// closedMsg is sent once the engine shuts down.
type closedMsg struct{}

type tickMsg time.Time

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.sub), tickCmd())
}

// waitForEvent blocks until the subscription delivers something.
func waitForEvent(sub *playback.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-sub.Done:
			return closedMsg{}
		case ev := <-sub.PlayerStateChanged:
			return eventMsg{ev}
		case ev := <-sub.PlaybackStateChanged:
			return eventMsg{ev}
		case ev := <-sub.ItemChanged:
			return eventMsg{ev}
		case ev := <-sub.MetadataChanged:
			return eventMsg{ev}
		case ev := <-sub.ArtworkChanged:
			return eventMsg{ev}
		case ev := <-sub.TimeChanged:
			return eventMsg{ev}
		case ev := <-sub.Error:
			return eventMsg{ev}
		}
	}
}

// tickCmd refreshes relative times once a second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
