package playback

import (
	"net/url"
	"time"

	"github.com/llehouerou/airwaves/internal/metadata"
)

// Event is implemented by every notification the engine emits.
type Event interface {
	isEvent()
}

// PlayerStateChange is emitted when the player state changes.
type PlayerStateChange struct {
	Previous PlayerState
	Current  PlayerState
}

// PlaybackStateChange is emitted when the playback state changes.
type PlaybackStateChange struct {
	Previous PlaybackState
	Current  PlaybackState
}

// ItemChange is emitted when a source is assigned or cleared.
//
// Emitted by:
//   - SetSource: right after PlayerStateChange to Loading, or to URLNotSet
//     when the source is cleared
//
// NOT emitted by:
//   - stall recovery and Play after a live Stop, which reload an item for
//     the same source
type ItemChange struct {
	Source    *Source // nil when cleared
	SessionID string
}

// MetadataChange is emitted when the stream title changes. Metadata is nil
// when cleared.
type MetadataChange struct {
	Metadata *metadata.Metadata
}

// Artwork is a resolved cover image and the metadata it was resolved for.
type Artwork struct {
	URL *url.URL
	For metadata.Metadata
}

// ArtworkChange is emitted when the artwork changes. Artwork is nil when
// cleared.
type ArtworkChange struct {
	Artwork *Artwork
}

// DurationChange is emitted when the item duration changes. Live streams
// report zero.
type DurationChange struct {
	Duration time.Duration
}

// TimeChange is emitted when the playback position changes.
type TimeChange struct {
	Current  time.Duration
	Duration time.Duration
}

// ErrorEvent is emitted alongside the transition to StateError.
type ErrorEvent struct {
	Operation string // e.g., "load", "recover"
	URL       string
	Err       error
}

// Closed is the last event delivered, when the engine shuts down.
type Closed struct{}

func (PlayerStateChange) isEvent()   {}
func (PlaybackStateChange) isEvent() {}
func (ItemChange) isEvent()          {}
func (MetadataChange) isEvent()      {}
func (ArtworkChange) isEvent()       {}
func (DurationChange) isEvent()      {}
func (TimeChange) isEvent()          {}
func (ErrorEvent) isEvent()          {}
func (Closed) isEvent()              {}
