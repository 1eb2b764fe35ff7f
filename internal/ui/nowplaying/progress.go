package nowplaying

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "▓"
	emptyBlock  = "░"
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	stopSymbol  = "■"
)

// renderProgress renders "▶  1:23  ▓▓▓░░░  4:56" for finite items and
// "▶  LIVE" for streams without a duration.
func renderProgress(symbol string, position, duration time.Duration, width int) string {
	if duration <= 0 {
		return symbol + "  " + playingStyle.Render("LIVE")
	}

	posStr := formatDuration(position)
	durStr := formatDuration(duration)

	fixedWidth := lipgloss.Width(symbol) + 2 + lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixedWidth
	if barWidth < 3 {
		// Too narrow for bar, just show times
		return symbol + "  " + posStr + " / " + durStr
	}

	ratio := float64(position) / float64(duration)
	filled := max(min(int(float64(barWidth)*ratio), barWidth), 0)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, barWidth-filled)

	return symbol + "  " + posStr + "  " + bar + "  " + durStr
}

// renderVolume renders "vol ▓▓▓▓░░░░░░  40%".
func renderVolume(volume float64) string {
	const cells = 10
	filled := max(min(int(volume*cells+0.5), cells), 0)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, cells-filled)
	return mutedStyle.Render(fmt.Sprintf("vol %s %3d%%", bar, int(volume*100+0.5)))
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
