package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/llehouerou/airwaves/internal/db"
	"github.com/llehouerou/airwaves/internal/playback"
)

// GetLastSource returns the last stream that was played, or nil.
func (m *Manager) GetLastSource() (*playback.Source, error) {
	var rawURL, rawHeaders sql.NullString

	row := m.db.QueryRow(`SELECT last_url, last_headers FROM player_state WHERE id = 1`)
	err := row.Scan(&rawURL, &rawHeaders)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !rawURL.Valid) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var headers map[string]string
	if h := db.NullStringValue(rawHeaders); h != "" {
		if err := json.Unmarshal([]byte(h), &headers); err != nil {
			return nil, fmt.Errorf("decode headers: %w", err)
		}
	}

	return playback.NewSource(rawURL.String, headers), nil
}

// SaveLastSource remembers src for the next start. A nil src is ignored.
func (m *Manager) SaveLastSource(src *playback.Source) error {
	if src == nil {
		return nil
	}

	var headers sql.NullString
	if len(src.Headers) > 0 {
		b, err := json.Marshal(src.Headers)
		if err != nil {
			return fmt.Errorf("encode headers: %w", err)
		}
		headers = db.NullString(string(b))
	}

	_, err := m.db.Exec(`
		INSERT INTO player_state (id, last_url, last_headers)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			last_url = excluded.last_url,
			last_headers = excluded.last_headers
	`, src.URL, headers)
	return err
}
