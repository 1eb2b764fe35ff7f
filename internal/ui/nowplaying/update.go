package nowplaying

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/airwaves/internal/metadata"
	"github.com/llehouerou/airwaves/internal/playback"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case eventMsg:
		m.applyEvent(msg.ev)
		return m, waitForEvent(m.sub)

	case closedMsg:
		m.closed = true
		return m, tea.Quit

	case tickMsg:
		return m, tickCmd()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "p":
		m.ctl.TogglePlaying()
	case "s":
		m.ctl.Stop()
	case "+", "=", "up":
		m.changeVolume(volumeStep)
	case "-", "down":
		m.changeVolume(-volumeStep)
	}
	return m, nil
}

func (m *Model) changeVolume(delta float64) {
	level := max(0, min(m.snap.Volume+delta, 1))
	m.ctl.SetVolume(level)
	m.snap.Volume = level
	if m.onVolume != nil {
		m.onVolume(level)
	}
}

func (m *Model) applyEvent(ev playback.Event) {
	m.snap = m.ctl.Snapshot()

	switch e := ev.(type) {
	case playback.ItemChange:
		m.lastError = nil
	case playback.PlayerStateChange:
		if e.Current != playback.StateError {
			m.lastError = nil
		}
	case playback.ErrorEvent:
		m.lastError = &e
	case playback.MetadataChange:
		if metadata.Equal(m.title, e.Metadata) {
			return
		}
		if m.title != nil && !m.title.IsEmpty() {
			m.pushRecent(*m.title)
		}
		m.title = e.Metadata
		m.titleAt = m.now()
	}
}

func (m *Model) pushRecent(md metadata.Metadata) {
	m.recent = append([]Recent{{Metadata: md, At: m.now()}}, m.recent...)
	if len(m.recent) > maxRecent {
		m.recent = m.recent[:maxRecent]
	}
}
