// Package interruption decides how playback reacts to system audio
// interruptions and output route changes.
package interruption

import "context"

// Kind identifies what happened to the audio session.
type Kind int

const (
	// Began means another activity took the audio session.
	Began Kind = iota
	// Ended means the interrupting activity is over.
	Ended
	// RouteAdded means a new output device became available.
	RouteAdded
	// RouteRemoved means the current output device went away.
	RouteRemoved
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Began:
		return "Began"
	case Ended:
		return "Ended"
	case RouteAdded:
		return "RouteAdded"
	case RouteRemoved:
		return "RouteRemoved"
	default:
		return "Unknown"
	}
}

// Event is a single interruption or route change notification.
type Event struct {
	Kind Kind
	// ShouldResume is the system's hint on Ended that playback may resume.
	ShouldResume bool
	// ReplacementAvailable reports, on RouteRemoved, that audio moved to
	// another device rather than being cut off.
	ReplacementAvailable bool
}

// Action is what the player should do in response to an Event.
type Action int

const (
	None Action = iota
	Pause
	Play
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case None:
		return "None"
	case Pause:
		return "Pause"
	case Play:
		return "Play"
	default:
		return "Unknown"
	}
}

// Decide maps an event to an action:
//   - Began pauses.
//   - Ended resumes when the system allows it, otherwise pauses.
//   - RouteRemoved pauses unless a replacement device took over.
//   - RouteAdded changes nothing.
func Decide(ev Event) Action {
	switch ev.Kind {
	case Began:
		return Pause
	case Ended:
		if ev.ShouldResume {
			return Play
		}
		return Pause
	case RouteRemoved:
		if ev.ReplacementAvailable {
			return None
		}
		return Pause
	default:
		return None
	}
}

// Controller is the part of a player an Action drives.
type Controller interface {
	Play()
	Pause()
}

// Apply decides on ev and performs the action on c.
func Apply(c Controller, ev Event) Action {
	a := Decide(ev)
	switch a {
	case Play:
		c.Play()
	case Pause:
		c.Pause()
	case None:
	}
	return a
}

// Source emits interruption events from the host system.
type Source interface {
	// Events delivers events until the source is closed.
	Events() <-chan Event
	Close() error
}

// Forward calls handle for every event from src until ctx is done or the
// source's channel closes.
func Forward(ctx context.Context, src Source, handle func(Event)) {
	events := src.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			handle(ev)
		}
	}
}
