package state

import (
	"database/sql"
	"errors"
	"time"

	"github.com/llehouerou/airwaves/internal/artwork"
)

// Cache TTLs. Misses expire sooner so new releases get picked up.
const (
	defaultArtworkTTLDays = 30
	artworkMissTTLDays    = 1
)

// Verify Manager implements artwork.Store at compile time.
var _ artwork.Store = (*Manager)(nil)

// GetArtwork returns a cached lookup result. found is false when the key
// is unknown or expired.
func (m *Manager) GetArtwork(key string) (string, bool, error) {
	var rawURL string
	var fetchedAt int64

	row := m.db.QueryRow(`SELECT url, fetched_at FROM artwork_cache WHERE key = ?`, key)
	err := row.Scan(&rawURL, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if isExpired(fetchedAt, rawURL == "", m.artworkTTL()) {
		return "", false, nil
	}
	return rawURL, true, nil
}

// PutArtwork stores a lookup result. An empty rawURL records a miss.
func (m *Manager) PutArtwork(key, rawURL string) error {
	_, err := m.db.Exec(`
		INSERT INTO artwork_cache (key, url, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			url = excluded.url,
			fetched_at = excluded.fetched_at
	`, key, rawURL, time.Now().Unix())
	return err
}

// PruneArtwork deletes expired cache entries.
func (m *Manager) PruneArtwork() (int64, error) {
	res, err := m.db.Exec(`
		DELETE FROM artwork_cache
		WHERE (url != '' AND fetched_at < ?) OR (url = '' AND fetched_at < ?)
	`, cutoff(m.artworkTTL()), cutoff(artworkMissTTLDays))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetArtworkTTL sets how many days found artwork stays cached.
func (m *Manager) SetArtworkTTL(days int) {
	m.ttlMu.Lock()
	defer m.ttlMu.Unlock()
	m.ttlDays = days
}

func (m *Manager) artworkTTL() int {
	m.ttlMu.Lock()
	defer m.ttlMu.Unlock()
	if m.ttlDays <= 0 {
		return defaultArtworkTTLDays
	}
	return m.ttlDays
}

func isExpired(fetchedAt int64, miss bool, ttlDays int) bool {
	days := ttlDays
	if miss {
		days = artworkMissTTLDays
	}
	return fetchedAt < cutoff(days)
}

func cutoff(ttlDays int) int64 {
	return time.Now().AddDate(0, 0, -ttlDays).Unix()
}
