package playback

import "sync"

const eventBufferSize = 16

// Subscription provides event channels for a subscriber. It is an Observer
// whose Notify never blocks: events are dropped when a buffer is full.
type Subscription struct {
	PlayerStateChanged   <-chan PlayerStateChange
	PlaybackStateChanged <-chan PlaybackStateChange
	ItemChanged          <-chan ItemChange
	MetadataChanged      <-chan MetadataChange
	ArtworkChanged       <-chan ArtworkChange
	TimeChanged          <-chan TimeChange
	Error                <-chan ErrorEvent
	Done                 <-chan struct{}

	// Internal write channels
	playerCh   chan PlayerStateChange
	playbackCh chan PlaybackStateChange
	itemCh     chan ItemChange
	metadataCh chan MetadataChange
	artworkCh  chan ArtworkChange
	timeCh     chan TimeChange
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
	closeOnce  sync.Once
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		playerCh:   make(chan PlayerStateChange, eventBufferSize),
		playbackCh: make(chan PlaybackStateChange, eventBufferSize),
		itemCh:     make(chan ItemChange, eventBufferSize),
		metadataCh: make(chan MetadataChange, eventBufferSize),
		artworkCh:  make(chan ArtworkChange, eventBufferSize),
		timeCh:     make(chan TimeChange, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.PlayerStateChanged = s.playerCh
	s.PlaybackStateChanged = s.playbackCh
	s.ItemChanged = s.itemCh
	s.MetadataChanged = s.metadataCh
	s.ArtworkChanged = s.artworkCh
	s.TimeChanged = s.timeCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

// Notify routes ev to its channel. Duration changes are folded into
// TimeChanged.
func (s *Subscription) Notify(ev Event) {
	switch e := ev.(type) {
	case PlayerStateChange:
		send(s.playerCh, e)
	case PlaybackStateChange:
		send(s.playbackCh, e)
	case ItemChange:
		send(s.itemCh, e)
	case MetadataChange:
		send(s.metadataCh, e)
	case ArtworkChange:
		send(s.artworkCh, e)
	case DurationChange:
		send(s.timeCh, TimeChange{Duration: e.Duration})
	case TimeChange:
		send(s.timeCh, e)
	case ErrorEvent:
		send(s.errorCh, e)
	case Closed:
		s.close()
	}
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	s.closeOnce.Do(func() { close(s.doneCh) })
}

// send sends an event (non-blocking), dropping it if the buffer is full.
func send[T any](ch chan T, e T) {
	select {
	case ch <- e:
	default:
	}
}
