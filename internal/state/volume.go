package state

import (
	"database/sql"
	"errors"
)

// GetVolume returns the saved volume level, 1.0 when none was saved.
func (m *Manager) GetVolume() (float64, error) {
	var volume float64

	row := m.db.QueryRow(`SELECT volume FROM player_state WHERE id = 1`)
	err := row.Scan(&volume)
	if errors.Is(err, sql.ErrNoRows) {
		return 1.0, nil
	}
	if err != nil {
		return 0, err
	}

	return volume, nil
}

func saveVolume(db *sql.DB, volume float64) error {
	_, err := db.Exec(`
		INSERT INTO player_state (id, volume)
		VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET
			volume = excluded.volume
	`, volume)
	return err
}
