package playback

import (
	"sync"
	"time"
)

// MockBackend is a test double for Backend. Tests drive item signals
// through MockItem.Observer.
type MockBackend struct {
	mu       sync.Mutex
	items    []*MockItem
	current  *MockItem
	loadErr  error
	calls    []string
	seeks    []time.Duration
	volume   float64
	seekOK   bool
	holdSeek bool
	pending  []func()
}

// NewMock creates a mock backend whose seeks complete immediately.
func NewMock() *MockBackend {
	return &MockBackend{seekOK: true, volume: 1}
}

// Load records the request and returns a new MockItem, or the configured
// load error.
func (m *MockBackend) Load(src Source, obs ItemObserver) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "load")
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	it := &MockItem{source: *src.Clone(), obs: obs}
	m.items = append(m.items, it)
	return it, nil
}

func (m *MockBackend) Replace(item Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "replace")
	it, _ := item.(*MockItem)
	m.current = it
}

func (m *MockBackend) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "play")
}

func (m *MockBackend) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "pause")
}

// Seek records the position and completes with the configured result,
// unless HoldSeeks is on.
func (m *MockBackend) Seek(to time.Duration, done func(ok bool)) {
	m.mu.Lock()
	m.calls = append(m.calls, "seek")
	m.seeks = append(m.seeks, to)
	ok := m.seekOK
	if m.holdSeek {
		if done != nil {
			m.pending = append(m.pending, func() { done(ok) })
		}
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()
	if done != nil {
		done(ok)
	}
}

func (m *MockBackend) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "volume")
	m.volume = level
}

// SetLoadError makes subsequent Load calls fail with err.
func (m *MockBackend) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// SetSeekResult sets the ok value reported to seek callbacks.
func (m *MockBackend) SetSeekResult(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekOK = ok
}

// HoldSeeks defers seek completion until ReleaseSeeks.
func (m *MockBackend) HoldSeeks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holdSeek = true
}

// ReleaseSeeks completes held seeks.
func (m *MockBackend) ReleaseSeeks() {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.holdSeek = false
	m.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

// Items returns every item loaded so far.
func (m *MockBackend) Items() []*MockItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockItem(nil), m.items...)
}

// LastItem returns the most recently loaded item, or nil.
func (m *MockBackend) LastItem() *MockItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.items) == 0 {
		return nil
	}
	return m.items[len(m.items)-1]
}

// Current returns the attached item, or nil.
func (m *MockBackend) Current() *MockItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Calls returns the recorded method names in order.
func (m *MockBackend) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// LastCall returns the most recent call other than volume, or "".
func (m *MockBackend) LastCall() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.calls) - 1; i >= 0; i-- {
		if m.calls[i] != "volume" {
			return m.calls[i]
		}
	}
	return ""
}

// Seeks returns the requested seek positions.
func (m *MockBackend) Seeks() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seeks...)
}

// Volume returns the last level set.
func (m *MockBackend) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// MockItem is the Item created by MockBackend.
type MockItem struct {
	mu     sync.Mutex
	source Source
	obs    ItemObserver
	likely bool
	closed bool
}

// Source returns the source the item was loaded from.
func (i *MockItem) Source() Source { return i.source }

// Observer returns the observer handed to Load. Signals sent through it
// after Close simulate late callbacks from a released item.
func (i *MockItem) Observer() ItemObserver { return i.obs }

func (i *MockItem) LikelyToKeepUp() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.likely
}

// SetLikelyToKeepUp changes the buffer health without emitting a signal.
func (i *MockItem) SetLikelyToKeepUp(v bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.likely = v
}

func (i *MockItem) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.closed = true
	return nil
}

// Closed reports whether Close was called.
func (i *MockItem) Closed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.closed
}

// Ready simulates a healthy item becoming ready.
func (i *MockItem) Ready() {
	i.SetLikelyToKeepUp(true)
	i.obs.StatusChanged(StatusReady)
	i.obs.LikelyToKeepUp(true)
}

// Stall simulates the buffer running dry.
func (i *MockItem) Stall() {
	i.SetLikelyToKeepUp(false)
	i.obs.LikelyToKeepUp(false)
	i.obs.BufferEmpty(true)
}
