package stderr

import (
	"bufio"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// forward logs each non-blank line read from r until it is exhausted.
func forward(r io.Reader, logger *log.Logger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			logger.Warn("stderr", "line", line)
		}
	}
}
