package state

import (
	"context"
	"database/sql"

	"github.com/llehouerou/airwaves/internal/artwork"
	"github.com/llehouerou/airwaves/internal/playback"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	artwork.Store
	Store
	DB() *sql.DB
	GetVolume() (float64, error)
	SaveVolume(volume float64)
	GetLastSource() (*playback.Source, error)
	RecentHistory(ctx context.Context, limit int) ([]HistoryEntry, error)
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
