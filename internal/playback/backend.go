package playback

import "time"

// ItemStatus is the load status a backend reports for an item.
type ItemStatus int

const (
	StatusUnknown ItemStatus = iota
	StatusReady
	StatusFailed
)

// String returns the status name.
func (s ItemStatus) String() string {
	switch s {
	case StatusUnknown:
		return "Unknown"
	case StatusReady:
		return "Ready"
	case StatusFailed:
		return "Failed"
	default:
		return "Invalid"
	}
}

// Backend decodes and outputs audio. The engine calls it from its loop
// goroutine only.
type Backend interface {
	// Load creates an item for src. The item reports through obs from any
	// goroutine until it is closed.
	Load(src Source, obs ItemObserver) (Item, error)
	// Replace makes item the one Play and Pause act on. nil detaches the
	// current item.
	Replace(item Item)
	Play()
	Pause()
	// Seek moves the current item to the given position and then calls done
	// from any goroutine. done may be nil.
	Seek(to time.Duration, done func(ok bool))
	// SetVolume sets the output level in [0, 1].
	SetVolume(level float64)
}

// Item is a playable unit created for one Source.
type Item interface {
	// LikelyToKeepUp reports whether enough data is buffered to keep
	// playing.
	LikelyToKeepUp() bool
	// Close releases the item. No ItemObserver call may start after Close
	// returns.
	Close() error
}

// ItemObserver receives an item's signals.
type ItemObserver interface {
	StatusChanged(status ItemStatus)
	BufferEmpty(empty bool)
	LikelyToKeepUp(likely bool)
	DurationChanged(d time.Duration)
	TimedMetadata(groups []string)
	TimeChanged(t time.Duration)
	PlayedToEnd()
}
