package playback

import (
	"time"

	"github.com/llehouerou/airwaves/internal/interruption"
	"github.com/llehouerou/airwaves/internal/metadata"
	"github.com/llehouerou/airwaves/internal/observer"
)

// Service defines the playback service contract.
type Service interface {
	// Source control
	SetSource(src *Source)

	// Playback control
	Play()
	Pause()
	Stop()
	TogglePlaying()
	Seek(to time.Duration, done func())
	SetVolume(level float64)

	// State queries
	Snapshot() Snapshot
	PlayerState() PlayerState
	PlaybackState() PlaybackState
	IsPlaying() bool
	Source() *Source
	Metadata() *metadata.Metadata
	Artwork() *Artwork
	Duration() time.Duration
	CurrentTime() time.Duration
	Volume() float64

	// External signals
	ConnectivityChanged(connected bool)
	NetworkRestored()
	HandleInterruption(ev interruption.Event)

	// Event subscription
	Observers() *observer.Registry[Event]
	Subscribe() *Subscription
	Unsubscribe(sub *Subscription)

	// Lifecycle
	Sync()
	Close() error
}
