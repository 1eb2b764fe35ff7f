package network

import "sync"

// Manual is a Reachability driven by explicit Set calls. It serves as the
// source when automatic detection is turned off, and in tests.
type Manual struct {
	mu        sync.Mutex
	connected bool
	ch        chan bool
	closed    bool
}

// NewManual creates a Manual source with an initial reading.
func NewManual(connected bool) *Manual {
	return &Manual{connected: connected, ch: make(chan bool, 16)}
}

// Connected implements Reachability.
func (m *Manual) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// Changes implements Reachability.
func (m *Manual) Changes() <-chan bool { return m.ch }

// Set records a new reading and publishes it. Set blocks while the change
// buffer is full.
func (m *Manual) Set(connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.connected = connected
	m.ch <- connected
}

// Close closes the change channel.
func (m *Manual) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.ch)
	}
}
