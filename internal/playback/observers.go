package playback

import "github.com/llehouerou/airwaves/internal/observer"

// Observer receives engine events. Register with observer.Subscribe on
// Engine.Observers(); the registry holds observers weakly, so keep a
// reference for as long as events are wanted.
type Observer = observer.Observer[Event]

// Funcs is an Observer built from optional per-event callbacks.
type Funcs struct {
	PlayerState   func(PlayerStateChange)
	PlaybackState func(PlaybackStateChange)
	ItemChanged   func(ItemChange)
	Metadata      func(MetadataChange)
	Artwork       func(ArtworkChange)
	Duration      func(DurationChange)
	Time          func(TimeChange)
	Error         func(ErrorEvent)
}

// Notify dispatches ev to the matching callback.
func (f *Funcs) Notify(ev Event) {
	switch e := ev.(type) {
	case PlayerStateChange:
		if f.PlayerState != nil {
			f.PlayerState(e)
		}
	case PlaybackStateChange:
		if f.PlaybackState != nil {
			f.PlaybackState(e)
		}
	case ItemChange:
		if f.ItemChanged != nil {
			f.ItemChanged(e)
		}
	case MetadataChange:
		if f.Metadata != nil {
			f.Metadata(e)
		}
	case ArtworkChange:
		if f.Artwork != nil {
			f.Artwork(e)
		}
	case DurationChange:
		if f.Duration != nil {
			f.Duration(e)
		}
	case TimeChange:
		if f.Time != nil {
			f.Time(e)
		}
	case ErrorEvent:
		if f.Error != nil {
			f.Error(e)
		}
	}
}
