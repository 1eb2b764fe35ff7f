package nowplaying

import (
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/airwaves/internal/errmsg"
	"github.com/llehouerou/airwaves/internal/playback"
)

const (
	defaultWidth = 60
	minWidth     = 24
)

func (m Model) View() string {
	if m.closed {
		return ""
	}

	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	width = max(width, minWidth)
	inner := width - 6 // border and padding

	lines := []string{
		m.renderHeader(inner),
		"",
	}
	lines = append(lines, m.renderTitle(inner)...)
	lines = append(lines,
		"",
		row(m.renderStatus(), renderVolume(m.snap.Volume), inner),
		renderProgress(m.symbol(), m.snap.CurrentTime, m.snap.Duration, inner),
	)

	if m.lastError != nil {
		msg := errmsg.FormatWith(errmsg.ForEngineOp(m.lastError.Operation), m.lastError.URL, m.lastError.Err)
		lines = append(lines, "", errorStyle.Render(truncate(msg, inner)))
	}

	if len(m.recent) > 0 {
		lines = append(lines, "", subtleStyle.Render("Earlier"))
		for _, r := range m.recent {
			when := humanize.RelTime(r.At, m.now(), "ago", "from now")
			lines = append(lines, row(
				mutedStyle.Render(truncate(r.Metadata.String(), inner-16)),
				subtleStyle.Render(when),
				inner,
			))
		}
	}

	lines = append(lines, "", subtleStyle.Render(truncate("space play/pause · s stop · +/- volume · q quit", inner)))

	return panelStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderHeader(width int) string {
	if m.snap.Source == nil {
		return mutedStyle.Render("No stream")
	}
	return gradient(truncate(m.snap.Source.URL, width), colorPrimary, colorSecondary)
}

func (m Model) renderTitle(width int) []string {
	md := m.snap.Metadata
	if md == nil || md.IsEmpty() {
		return []string{mutedStyle.Render("…"), ""}
	}

	track := trackStyle.Render(truncate(md.Track, width))
	artist := ""
	if md.Artist != md.Track {
		artist = artistStyle.Render(truncate(md.Artist, width))
	}

	var meta []string
	if !m.titleAt.IsZero() {
		meta = append(meta, "since "+humanize.RelTime(m.titleAt, m.now(), "ago", "from now"))
	}
	if m.snap.Artwork != nil && m.snap.Artwork.URL != nil {
		meta = append(meta, "art "+m.snap.Artwork.URL.String())
	}
	lines := []string{track, artist}
	if len(meta) > 0 {
		lines = append(lines, subtleStyle.Render(truncate(strings.Join(meta, " · "), width)))
	}
	return lines
}

func (m Model) renderStatus() string {
	var parts []string

	switch m.snap.PlayerState {
	case playback.StateError:
		parts = append(parts, errorStyle.Render("error"))
	case playback.StateLoading:
		parts = append(parts, warningStyle.Render("buffering"))
	case playback.StateURLNotSet:
		parts = append(parts, mutedStyle.Render("idle"))
	default:
		parts = append(parts, okStyle.Render("ready"))
	}

	if !m.snap.Connected {
		parts = append(parts, warningStyle.Render("offline"))
	}

	return strings.Join(parts, mutedStyle.Render(" · "))
}

func (m Model) symbol() string {
	switch m.snap.PlaybackState {
	case playback.Playing:
		return playingStyle.Render(playSymbol)
	case playback.Paused:
		return mutedStyle.Render(pauseSymbol)
	default:
		return mutedStyle.Render(stopSymbol)
	}
}
