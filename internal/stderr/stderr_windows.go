//go:build windows

package stderr

import (
	"os"

	"github.com/charmbracelet/log"
)

// Capture does nothing on Windows, where the audio output does not
// write to the console.
type Capture struct{}

func Start(*log.Logger) (*Capture, error) {
	return &Capture{}, nil
}

func (c *Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

func (c *Capture) Stop() {}
