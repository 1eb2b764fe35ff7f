// Package network tracks internet reachability and reports the moment a
// lost connection comes back.
package network

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Reachability is a source of connectivity readings.
type Reachability interface {
	// Connected returns the current reading.
	Connected() bool
	// Changes delivers new readings. The channel is closed when the source
	// stops.
	Changes() <-chan bool
}

// Handler receives connectivity updates from a Monitor.
type Handler interface {
	// ConnectivityChanged is called with every distinct reading, starting
	// with the initial one.
	ConnectivityChanged(connected bool)
	// NetworkRestored is called on every transition from disconnected to
	// connected, after ConnectivityChanged(true).
	NetworkRestored()
}

// Monitor follows a Reachability source and forwards transitions to a
// Handler.
type Monitor struct {
	reach   Reachability
	handler Handler
	logger  *log.Logger

	mu        sync.Mutex
	connected bool
}

// NewMonitor creates a Monitor. A nil logger discards messages.
func NewMonitor(reach Reachability, handler Handler, logger *log.Logger) *Monitor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Monitor{reach: reach, handler: handler, logger: logger}
}

// Run reports the initial reading and then every transition until ctx is
// done or the source closes its channel.
func (m *Monitor) Run(ctx context.Context) error {
	initial := m.reach.Connected()
	m.mu.Lock()
	m.connected = initial
	m.mu.Unlock()
	m.logger.Debug("network reachability", "connected", initial)
	m.handler.ConnectivityChanged(initial)

	changes := m.reach.Changes()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c, ok := <-changes:
			if !ok {
				return nil
			}
			m.update(c)
		}
	}
}

// Connected returns the last reading.
func (m *Monitor) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *Monitor) update(connected bool) {
	m.mu.Lock()
	prev := m.connected
	m.connected = connected
	m.mu.Unlock()

	if prev == connected {
		return
	}
	m.logger.Info("network reachability changed", "connected", connected)
	m.handler.ConnectivityChanged(connected)
	if !prev && connected {
		m.handler.NetworkRestored()
	}
}
