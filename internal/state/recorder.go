package state

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/airwaves/internal/metadata"
	"github.com/llehouerou/airwaves/internal/playback"
)

const recorderBufferSize = 64

// Store is the part of the state manager the Recorder writes to.
type Store interface {
	SaveLastSource(src *playback.Source) error
	AddHistory(ctx context.Context, e HistoryEntry) (int64, error)
	SetHistoryArtwork(ctx context.Context, id int64, artworkURL string) error
}

// Recorder persists what the engine plays: the last source and every
// stream title with its artwork. Register it as an engine observer and
// run it; Notify only queues, so database writes stay off the engine loop.
type Recorder struct {
	store   Store
	logger  *log.Logger
	events  chan playback.Event
	dropped atomic.Int64

	sessionID string
	url       string
	entryID   int64
	current   *metadata.Metadata
}

// NewRecorder creates a Recorder writing to store.
func NewRecorder(store Store, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Recorder{
		store:  store,
		logger: logger,
		events: make(chan playback.Event, recorderBufferSize),
	}
}

// Notify queues ev, dropping it when the queue is full.
func (r *Recorder) Notify(ev playback.Event) {
	select {
	case r.events <- ev:
	default:
		r.dropped.Add(1)
	}
}

// Dropped returns how many events were lost to a full queue.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Run writes queued events until ctx is done or the engine closes.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-r.events:
			if _, ok := ev.(playback.Closed); ok {
				return nil
			}
			r.handle(ctx, ev)
		}
	}
}

func (r *Recorder) handle(ctx context.Context, ev playback.Event) {
	switch e := ev.(type) {
	case playback.ItemChange:
		r.entryID = 0
		r.current = nil
		if e.Source == nil {
			r.sessionID, r.url = "", ""
			return
		}
		r.sessionID, r.url = e.SessionID, e.Source.URL
		if err := r.store.SaveLastSource(e.Source); err != nil {
			r.logger.Warn("save last source", "url", e.Source.URL, "err", err)
		}

	case playback.MetadataChange:
		r.entryID = 0
		r.current = e.Metadata
		if e.Metadata == nil || r.url == "" {
			return
		}
		id, err := r.store.AddHistory(ctx, HistoryEntry{
			SessionID: r.sessionID,
			URL:       r.url,
			Metadata:  *e.Metadata,
		})
		if err != nil {
			r.logger.Warn("add history", "title", e.Metadata.String(), "err", err)
			return
		}
		r.entryID = id

	case playback.ArtworkChange:
		if e.Artwork == nil || e.Artwork.URL == nil || r.entryID == 0 {
			return
		}
		if r.current == nil || !metadata.Equal(r.current, &e.Artwork.For) {
			return
		}
		if err := r.store.SetHistoryArtwork(ctx, r.entryID, e.Artwork.URL.String()); err != nil {
			r.logger.Warn("save history artwork", "err", err)
		}
	}
}
