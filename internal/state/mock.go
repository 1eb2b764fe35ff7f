package state

import (
	"context"
	"database/sql"
	"slices"
	"sync"

	"github.com/llehouerou/airwaves/internal/playback"
)

// Mock is a test double for Manager.
type Mock struct {
	mu      sync.Mutex
	volume  float64
	last    *playback.Source
	history []HistoryEntry
	artwork map[string]string
	closed  bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{volume: 1.0, artwork: make(map[string]string)}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) GetVolume() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume, nil
}

func (m *Mock) SaveVolume(volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = volume
}

func (m *Mock) GetLastSource() (*playback.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return nil, nil
	}
	return m.last.Clone(), nil
}

func (m *Mock) SaveLastSource(src *playback.Source) error {
	if src == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = src.Clone()
	return nil
}

func (m *Mock) AddHistory(_ context.Context, e HistoryEntry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = int64(len(m.history) + 1)
	m.history = append(m.history, e)
	return e.ID, nil
}

func (m *Mock) SetHistoryArtwork(_ context.Context, id int64, artworkURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.history {
		if m.history[i].ID == id {
			m.history[i].ArtworkURL = artworkURL
		}
	}
	return nil
}

func (m *Mock) RecentHistory(_ context.Context, limit int) ([]HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := slices.Clone(m.history)
	slices.Reverse(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Mock) GetArtwork(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.artwork[key]
	return u, ok, nil
}

func (m *Mock) PutArtwork(key, rawURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artwork[key] = rawURL
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetLastSource(src *playback.Source) { _ = m.SaveLastSource(src) }

func (m *Mock) History() []HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.history)
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
