package playback

import "errors"

var (
	// ErrInvalidSource is reported when a source cannot be turned into a
	// backend item.
	ErrInvalidSource = errors.New("invalid source")
	// ErrLoadFailure is reported when the backend fails an item.
	ErrLoadFailure = errors.New("stream failed to load")
	// ErrPlaybackStall is reported when a stalled stream could not be
	// reloaded.
	ErrPlaybackStall = errors.New("playback stalled")
)
