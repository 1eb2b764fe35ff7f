package state

import (
	"context"
	"database/sql"
	"time"

	"github.com/llehouerou/airwaves/internal/db"
	"github.com/llehouerou/airwaves/internal/metadata"
)

// maxHistory bounds the title history; older rows are dropped on insert.
const maxHistory = 500

// HistoryEntry is one title heard on a stream.
type HistoryEntry struct {
	ID         int64
	SessionID  string
	URL        string
	Metadata   metadata.Metadata
	ArtworkURL string
	PlayedAt   time.Time
}

// AddHistory records a title and returns its row id.
func (m *Manager) AddHistory(ctx context.Context, e HistoryEntry) (int64, error) {
	if e.PlayedAt.IsZero() {
		e.PlayedAt = time.Now()
	}

	var id int64
	err := db.WithTx(ctx, m.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO title_history (session_id, url, artist, track, raw, artwork_url, played_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, e.SessionID, e.URL, e.Metadata.Artist, e.Metadata.Track, e.Metadata.Raw,
			db.NullString(e.ArtworkURL), e.PlayedAt.UnixMilli())
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM title_history WHERE id NOT IN (
				SELECT id FROM title_history ORDER BY id DESC LIMIT ?
			)
		`, maxHistory)
		return err
	})
	return id, err
}

// SetHistoryArtwork attaches a resolved artwork URL to an entry.
func (m *Manager) SetHistoryArtwork(ctx context.Context, id int64, artworkURL string) error {
	_, err := m.db.ExecContext(ctx,
		`UPDATE title_history SET artwork_url = ? WHERE id = ?`,
		db.NullString(artworkURL), id)
	return err
}

// RecentHistory returns up to limit entries, newest first.
func (m *Manager) RecentHistory(ctx context.Context, limit int) ([]HistoryEntry, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, session_id, url, artist, track, raw, artwork_url, played_at
		FROM title_history
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var artworkURL sql.NullString
		var playedAt int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.URL,
			&e.Metadata.Artist, &e.Metadata.Track, &e.Metadata.Raw,
			&artworkURL, &playedAt); err != nil {
			return nil, err
		}
		e.ArtworkURL = db.NullStringValue(artworkURL)
		e.PlayedAt = time.UnixMilli(playedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
