package playback

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/airwaves/internal/artwork"
	"github.com/llehouerou/airwaves/internal/metadata"
	"github.com/llehouerou/airwaves/internal/observer"
)

// Verify Engine implements Service at compile time.
var _ Service = (*Engine)(nil)

// DefaultRecoveryGrace is how long a stalled stream gets to recover on its
// own after the network comes back before it is reloaded.
const DefaultRecoveryGrace = time.Second

// Options configures an Engine. Start from DefaultOptions.
type Options struct {
	// AutoPlay starts playback as soon as a new source is ready.
	AutoPlay bool
	// ArtworkEnabled turns artwork lookups on metadata changes on or off.
	ArtworkEnabled bool
	Resolver       artwork.Resolver
	Extractor      metadata.Extractor
	RecoveryGrace  time.Duration
	// Volume is the initial output level in [0, 1].
	Volume float64
	Logger *log.Logger
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		AutoPlay:       true,
		ArtworkEnabled: true,
		Resolver:       artwork.Null{},
		Extractor:      metadata.DefaultExtractor{},
		RecoveryGrace:  DefaultRecoveryGrace,
		Volume:         1,
	}
}

// Snapshot is a consistent copy of the engine's observable state.
type Snapshot struct {
	PlayerState   PlayerState
	PlaybackState PlaybackState
	Source        *Source
	SessionID     string
	Metadata      *metadata.Metadata
	Artwork       *Artwork
	Duration      time.Duration
	CurrentTime   time.Duration
	Volume        float64
	Connected     bool
}

func (s Snapshot) clone() Snapshot {
	if s.Source != nil {
		s.Source = s.Source.Clone()
	}
	if s.Metadata != nil {
		md := *s.Metadata
		s.Metadata = &md
	}
	if s.Artwork != nil {
		a := *s.Artwork
		s.Artwork = &a
	}
	return s
}

// session is the state tied to the current source. Owned by the loop.
type session struct {
	// gen identifies the attached item; 0 when there is none.
	gen    uint64
	id     string
	source *Source
	item   Item
	// prev is the item being replaced while a new one is attached.
	prev        Item
	playedToEnd bool
	autoPlay    bool
}

// Engine plays one network audio source at a time. All state changes and
// notifications happen on its loop goroutine; public methods post work to
// it and return immediately.
type Engine struct {
	backend   Backend
	opts      Options
	logger    *log.Logger
	loop      *Loop
	observers observer.Registry[Event]

	subsMu sync.Mutex
	subs   map[*Subscription]struct{}

	mu   sync.RWMutex
	snap Snapshot // written only by the loop

	// Loop-owned.
	sess          session
	lastGen       uint64
	connected     bool
	artworkSeq    uint64
	artworkCancel context.CancelFunc
	recoveryGen   uint64
	afterFunc     func(d time.Duration, f func())

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// New creates an Engine driving backend.
func New(backend Backend, opts Options) *Engine {
	if opts.Resolver == nil {
		opts.Resolver = artwork.Null{}
	}
	if opts.Extractor == nil {
		opts.Extractor = metadata.DefaultExtractor{}
	}
	if opts.RecoveryGrace <= 0 {
		opts.RecoveryGrace = DefaultRecoveryGrace
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	opts.Volume = clampVolume(opts.Volume)

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		backend:   backend,
		opts:      opts,
		logger:    opts.Logger,
		subs:      make(map[*Subscription]struct{}),
		connected: true,
		afterFunc: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		ctx:       ctx,
		cancel:    cancel,
		snap: Snapshot{
			PlayerState:   StateURLNotSet,
			PlaybackState: Stopped,
			Volume:        opts.Volume,
			Connected:     true,
		},
	}
	e.loop = NewLoop()
	e.loop.Post(func() { backend.SetVolume(opts.Volume) })
	return e
}

// Observers returns the registry engine events are published on.
func (e *Engine) Observers() *observer.Registry[Event] {
	return &e.observers
}

// Subscribe creates a channel-based subscription. The engine keeps it
// alive until Unsubscribe or Close.
func (e *Engine) Subscribe() *Subscription {
	sub := newSubscription()
	e.subsMu.Lock()
	e.subs[sub] = struct{}{}
	e.subsMu.Unlock()
	observer.Subscribe(&e.observers, sub)
	if e.loop.Closed() {
		sub.close()
	}
	return sub
}

// Unsubscribe stops delivery to sub and closes its Done channel.
func (e *Engine) Unsubscribe(sub *Subscription) {
	observer.Unsubscribe(&e.observers, sub)
	e.subsMu.Lock()
	delete(e.subs, sub)
	e.subsMu.Unlock()
	sub.close()
}

// Sync waits until all previously posted work has run. Do not call it from
// an observer.
func (e *Engine) Sync() {
	e.loop.Sync()
}

// Close releases the current item, delivers Closed to observers and stops
// the loop. Do not call it from an observer.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.loop.Post(func() {
			e.cancelArtwork()
			e.recoveryGen = 0
			if e.sess.item != nil {
				e.backend.Pause()
			}
			e.releaseItem()
			e.notify(Closed{})
		})
		e.loop.Close()
		e.cancel()

		e.subsMu.Lock()
		e.subs = make(map[*Subscription]struct{})
		e.subsMu.Unlock()
	})
	return nil
}

// Snapshot returns a copy of the observable state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.clone()
}

// PlayerState returns the readiness of the current source.
func (e *Engine) PlayerState() PlayerState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.PlayerState
}

// PlaybackState returns the playback intent.
func (e *Engine) PlaybackState() PlaybackState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.PlaybackState
}

// IsPlaying returns true if the playback state is Playing.
func (e *Engine) IsPlaying() bool {
	return e.PlaybackState() == Playing
}

// Source returns the current source, or nil.
func (e *Engine) Source() *Source {
	return e.Snapshot().Source
}

// Metadata returns the current stream metadata, or nil.
func (e *Engine) Metadata() *metadata.Metadata {
	return e.Snapshot().Metadata
}

// Artwork returns the artwork for the current metadata, or nil.
func (e *Engine) Artwork() *Artwork {
	return e.Snapshot().Artwork
}

// Duration returns the item duration; zero for live streams.
func (e *Engine) Duration() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.Duration
}

// CurrentTime returns the playback position.
func (e *Engine) CurrentTime() time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.CurrentTime
}

// Volume returns the output level.
func (e *Engine) Volume() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snap.Volume
}

// notify publishes ev. Loop only.
func (e *Engine) notify(ev Event) {
	e.observers.Notify(ev)
}

// update mutates the snapshot under the write lock. Loop only.
func (e *Engine) update(fn func(s *Snapshot)) {
	e.mu.Lock()
	fn(&e.snap)
	e.mu.Unlock()
}

func (e *Engine) setPlayerState(s PlayerState) {
	prev := e.snap.PlayerState
	if prev == s {
		return
	}
	e.update(func(snap *Snapshot) { snap.PlayerState = s })
	e.logger.Debug("player state", "from", prev, "to", s, "session", e.sess.id)
	e.notify(PlayerStateChange{Previous: prev, Current: s})
}

func (e *Engine) setPlaybackState(s PlaybackState) {
	prev := e.snap.PlaybackState
	if prev == s {
		return
	}
	e.update(func(snap *Snapshot) { snap.PlaybackState = s })
	e.logger.Debug("playback state", "from", prev, "to", s, "session", e.sess.id)
	e.notify(PlaybackStateChange{Previous: prev, Current: s})
}

func (e *Engine) setDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	if e.snap.Duration == d {
		return
	}
	e.update(func(snap *Snapshot) { snap.Duration = d })
	e.notify(DurationChange{Duration: d})
}

func (e *Engine) setCurrentTime(t time.Duration) {
	if t < 0 {
		t = 0
	}
	if e.snap.CurrentTime == t {
		return
	}
	e.update(func(snap *Snapshot) { snap.CurrentTime = t })
	e.notify(TimeChange{Current: t, Duration: e.snap.Duration})
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
