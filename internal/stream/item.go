package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/gopxl/beep/v2"

	"github.com/llehouerou/airwaves/internal/playback"
)

// Verify item implements playback.Item at compile time.
var _ playback.Item = (*item)(nil)

// item is one connection to a stream: a goroutine fetches and decodes into
// a sample buffer, and the audio callback drains it through Stream.
type item struct {
	src    playback.Source
	obs    playback.ItemObserver
	cfg    *Backend
	logger *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	buf      *sampleBuffer
	streamer beep.Streamer // buffered samples at the output rate
	readyAt  int
	ready    bool
	stalled  bool
	ended    bool
	closed   bool
}

func newItem(b *Backend, src playback.Source, obs playback.ItemObserver) *item {
	ctx, cancel := context.WithCancel(context.Background())
	return &item{
		src:    src,
		obs:    obs,
		cfg:    b,
		logger: b.logger.With("url", src.URL),
		ctx:    ctx,
		cancel: cancel,
	}
}

// LikelyToKeepUp reports whether playback can continue without a stall.
func (it *item) LikelyToKeepUp() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.ready && !it.stalled && !it.ended
}

// Close stops fetching. Signals are no longer emitted afterwards.
func (it *item) Close() error {
	it.mu.Lock()
	if it.closed {
		it.mu.Unlock()
		return nil
	}
	it.closed = true
	buf := it.buf
	it.mu.Unlock()

	it.cancel()
	if buf != nil {
		buf.Close()
	}
	return nil
}

// Stream implements beep.Streamer. Gaps are filled with silence so the
// output keeps running while the network catches up.
func (it *item) Stream(samples [][2]float64) (int, bool) {
	it.mu.Lock()
	s := it.streamer
	it.mu.Unlock()
	if s == nil {
		clear(samples)
		return len(samples), true
	}
	n, _ := s.Stream(samples)
	if n < len(samples) {
		clear(samples[n:])
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (it *item) Err() error { return nil }

// bufferStreamer drains the sample buffer at the source rate.
type bufferStreamer struct{ it *item }

func (b bufferStreamer) Stream(samples [][2]float64) (int, bool) {
	n := b.it.buf.Read(samples)
	if n < len(samples) {
		clear(samples[n:])
		b.it.underrun()
	}
	return len(samples), true
}

func (b bufferStreamer) Err() error { return nil }

// underrun runs on the audio callback when the buffer runs dry.
func (it *item) underrun() {
	it.mu.Lock()
	if !it.ready || it.stalled || it.closed {
		it.mu.Unlock()
		return
	}
	it.stalled = true
	it.mu.Unlock()

	it.logger.Debug("buffer underrun")
	it.obs.LikelyToKeepUp(false)
	it.obs.BufferEmpty(true)
}

// refilled runs on the fetch goroutine after each write.
func (it *item) refilled() {
	it.mu.Lock()
	if it.closed {
		it.mu.Unlock()
		return
	}
	buffered := it.buf.Len()
	becameReady := !it.ready && buffered >= it.readyAt
	recovered := it.ready && it.stalled && buffered >= it.readyAt
	if becameReady {
		it.ready = true
	}
	if recovered {
		it.stalled = false
	}
	it.mu.Unlock()

	switch {
	case becameReady:
		it.logger.Debug("stream ready", "buffered", buffered)
		it.obs.StatusChanged(playback.StatusReady)
		it.obs.LikelyToKeepUp(true)
	case recovered:
		it.logger.Debug("stream caught up", "buffered", buffered)
		it.obs.LikelyToKeepUp(true)
	}
}

// run fetches and decodes until the stream ends, fails or the item is
// closed.
func (it *item) run() {
	err := it.fetch()
	if it.ctx.Err() != nil {
		return
	}

	it.mu.Lock()
	it.ended = true
	wasReady := it.ready
	it.mu.Unlock()

	if !wasReady {
		it.logger.Warn("stream failed before playback", "err", err)
		it.obs.StatusChanged(playback.StatusFailed)
		return
	}
	// The buffered tail keeps playing; the underrun that follows reports
	// the stall.
	it.logger.Info("stream ended", "err", err)
}

func (it *item) fetch() error {
	req, err := http.NewRequestWithContext(it.ctx, http.MethodGet, it.src.URL, nil)
	if err != nil {
		return err
	}
	for k, v := range it.src.Headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("User-Agent") == "" && it.cfg.userAgent != "" {
		req.Header.Set("User-Agent", it.cfg.userAgent)
	}
	req.Header.Set(icyRequestHeader, "1")

	resp, err := it.cfg.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	metaint := parseMetaint(resp.Header.Get(icyMetaintHeader))
	it.logger.Info("stream connected",
		"name", resp.Header.Get("Icy-Name"),
		"bitrate", resp.Header.Get("Icy-Br"),
		"type", resp.Header.Get("Content-Type"),
		"metaint", metaint)

	body := newICYReader(resp.Body, metaint, func(title string) {
		it.logger.Debug("stream title", "title", title)
		it.obs.TimedMetadata([]string{title})
	})

	src, err := it.cfg.decode(body)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	it.setup(beep.SampleRate(src.SampleRate()))

	read, err := it.pump(src)
	it.logger.Debug("stream closed", "decoded", humanize.Bytes(read))
	return err
}

// setup sizes the buffer for the source rate and builds the streamer that
// resamples it to the output rate.
func (it *item) setup(rate beep.SampleRate) {
	buf := newSampleBuffer(rate.N(it.cfg.bufferSize))
	readyAt := min(rate.N(it.cfg.readyAfter), buf.Cap())

	var s beep.Streamer = bufferStreamer{it: it}
	if rate != it.cfg.rate {
		s = beep.Resample(4, rate, it.cfg.rate, s)
	}

	it.mu.Lock()
	it.buf = buf
	it.readyAt = max(readyAt, 1)
	it.streamer = s
	closed := it.closed
	it.mu.Unlock()
	if closed {
		buf.Close()
	}
}

// pump copies decoded PCM into the buffer and returns the number of PCM
// bytes read.
func (it *item) pump(src pcmSource) (uint64, error) {
	raw := make([]byte, 16*1024)
	frames := make([][2]float64, len(raw)/4)
	var total uint64
	off := 0
	for {
		n, err := src.Read(raw[off:])
		off += n
		total += uint64(n) //nolint:gosec // n is never negative
		if whole := off / 4 * 4; whole > 0 {
			c := pcmToSamples(raw[:whole], frames)
			if werr := it.buf.Write(frames[:c]); werr != nil {
				return total, werr
			}
			off = copy(raw, raw[whole:off])
			it.refilled()
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return total, nil
			}
			return total, err
		}
		if n == 0 {
			// Guard against readers that return 0, nil.
			time.Sleep(time.Millisecond)
		}
	}
}
