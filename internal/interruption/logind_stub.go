//go:build !linux

package interruption

import "errors"

// Logind is unavailable outside Linux.
type Logind struct{}

// NewLogind always fails on this platform.
func NewLogind() (*Logind, error) {
	return nil, errors.New("logind is only available on Linux")
}

// Events implements Source.
func (*Logind) Events() <-chan Event { return nil }

// Close implements Source.
func (*Logind) Close() error { return nil }
