package playback

// PlayerState tracks readiness of the current source.
type PlayerState int

const (
	StateURLNotSet PlayerState = iota
	StateLoading
	StateReadyToPlay
	StateLoadingFinished
	StateError
)

// String returns the state name.
func (s PlayerState) String() string {
	switch s {
	case StateURLNotSet:
		return "URLNotSet"
	case StateLoading:
		return "Loading"
	case StateReadyToPlay:
		return "ReadyToPlay"
	case StateLoadingFinished:
		return "LoadingFinished"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// PlaybackState tracks playback intent, independently of readiness.
type PlaybackState int

const (
	Stopped PlaybackState = iota
	Playing
	Paused
)

// String returns the state name.
func (s PlaybackState) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (playing or paused).
func (s PlaybackState) IsActive() bool {
	return s == Playing || s == Paused
}
