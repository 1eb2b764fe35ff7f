// Package stream is the network audio backend: it fetches HTTP/ICY
// streams, decodes MP3 with go-mp3 and plays through beep.
package stream

import (
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"

	"github.com/llehouerou/airwaves/internal/playback"
)

// Verify Backend implements playback.Backend at compile time.
var _ playback.Backend = (*Backend)(nil)

const (
	DefaultSampleRate = beep.SampleRate(44100)
	DefaultBuffer     = 10 * time.Second
	DefaultReadyAfter = 2 * time.Second
)

// Options configures a Backend. Zero values pick the defaults.
type Options struct {
	// UserAgent is sent unless the source sets its own.
	UserAgent string
	// Buffer is how much decoded audio is kept ahead of playback.
	Buffer time.Duration
	// ReadyAfter is how much audio must be buffered before the item is
	// ready, and again after a stall before it can keep up.
	ReadyAfter time.Duration
	SampleRate beep.SampleRate
	Output     Output
	Client     *http.Client
	Logger     *log.Logger
}

// Backend plays one item at a time through an Output. Its methods are
// called from the playback engine loop.
type Backend struct {
	client     *http.Client
	userAgent  string
	bufferSize time.Duration
	readyAfter time.Duration
	rate       beep.SampleRate
	out        Output
	decode     decodeFunc
	logger     *log.Logger

	mu      sync.Mutex
	started bool
	slot    *slot
	ctrl    *beep.Ctrl
	volume  *effects.Volume
	level   float64
}

// New creates a Backend. Output starts lazily on the first Replace.
func New(opts Options) *Backend {
	if opts.Buffer <= 0 {
		opts.Buffer = DefaultBuffer
	}
	if opts.ReadyAfter <= 0 {
		opts.ReadyAfter = DefaultReadyAfter
	}
	opts.ReadyAfter = min(opts.ReadyAfter, opts.Buffer)
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.Output == nil {
		opts.Output = Speaker()
	}
	if opts.Client == nil {
		opts.Client = newHTTPClient()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	s := &slot{}
	ctrl := &beep.Ctrl{Streamer: s, Paused: true}
	return &Backend{
		client:     opts.Client,
		userAgent:  opts.UserAgent,
		bufferSize: opts.Buffer,
		readyAfter: opts.ReadyAfter,
		rate:       opts.SampleRate,
		out:        opts.Output,
		decode:     decodeMP3,
		logger:     opts.Logger,
		slot:       s,
		ctrl:       ctrl,
		volume:     &effects.Volume{Streamer: ctrl, Base: 2, Volume: 0, Silent: false},
		level:      1,
	}
}

// newHTTPClient has no overall timeout since streams never end; only
// connection setup and response headers are bounded.
func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
		},
	}
}

// Load starts fetching src. Readiness and failures are reported through
// obs.
func (b *Backend) Load(src playback.Source, obs playback.ItemObserver) (playback.Item, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	it := newItem(b, *src.Clone(), obs)
	go it.run()
	return it, nil
}

// Replace makes next the one being played. A nil next plays silence.
func (b *Backend) Replace(next playback.Item) {
	var s beep.Streamer
	if it, ok := next.(*item); ok && it != nil {
		s = it
	}
	if s != nil {
		if err := b.start(); err != nil {
			b.logger.Error("audio output", "err", err)
		}
	}
	b.withOutput(func() { b.slot.current = s })
}

func (b *Backend) Play() {
	if err := b.start(); err != nil {
		b.logger.Error("audio output", "err", err)
		return
	}
	b.withOutput(func() { b.ctrl.Paused = false })
}

func (b *Backend) Pause() {
	b.withOutput(func() { b.ctrl.Paused = true })
}

// Seek always fails: network streams are not seekable.
func (b *Backend) Seek(_ time.Duration, done func(ok bool)) {
	if done != nil {
		done(false)
	}
}

// SetVolume sets the output level (0.0 to 1.0).
func (b *Backend) SetVolume(level float64) {
	level = max(0, min(level, 1))
	b.withOutput(func() {
		b.level = level
		b.volume.Volume = levelToVolume(level)
		b.volume.Silent = level <= 0
	})
}

// Volume returns the current output level.
func (b *Backend) Volume() float64 {
	var v float64
	b.withOutput(func() { v = b.level })
	return v
}

// start initializes the output and begins playing the chain once.
func (b *Backend) start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return nil
	}
	if err := b.out.Init(b.rate); err != nil {
		return err
	}
	b.out.Play(b.volume)
	b.started = true
	return nil
}

// withOutput runs fn while the audio callback is held off. Before the
// output starts nothing else touches the chain.
func (b *Backend) withOutput(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		b.out.Lock()
		defer b.out.Unlock()
	}
	fn()
}
