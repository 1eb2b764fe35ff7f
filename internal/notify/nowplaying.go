package notify

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/airwaves/internal/metadata"
	"github.com/llehouerou/airwaves/internal/playback"
)

const (
	nowPlayingBufferSize = 32
	defaultIcon          = "audio-x-generic"
	nowPlayingTimeout    = 5 * time.Second
)

// IconSource turns an artwork URL into a local icon path.
type IconSource interface {
	Path(ctx context.Context, rawURL string) (string, error)
}

// NowPlaying shows a desktop notification whenever the stream title
// changes, and updates it in place once artwork is resolved. Register it
// as an engine observer and run it.
type NowPlaying struct {
	notifier Notifier
	icons    IconSource
	logger   *log.Logger
	events   chan playback.Event

	id      uint32
	current *metadata.Metadata
}

// NewNowPlaying creates a NowPlaying. icons may be nil to skip artwork.
func NewNowPlaying(notifier Notifier, icons IconSource, logger *log.Logger) *NowPlaying {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &NowPlaying{
		notifier: notifier,
		icons:    icons,
		logger:   logger,
		events:   make(chan playback.Event, nowPlayingBufferSize),
	}
}

// Notify queues ev, dropping it when the queue is full.
func (n *NowPlaying) Notify(ev playback.Event) {
	select {
	case n.events <- ev:
	default:
	}
}

// Run shows notifications until ctx is done or the engine closes.
func (n *NowPlaying) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-n.events:
			switch e := ev.(type) {
			case playback.Closed:
				n.dismiss()
				return nil
			case playback.ItemChange:
				if e.Source == nil {
					n.current = nil
					n.dismiss()
				}
			case playback.MetadataChange:
				n.current = e.Metadata
				if e.Metadata != nil {
					n.show(*e.Metadata, defaultIcon)
				}
			case playback.ArtworkChange:
				n.showArtwork(ctx, e.Artwork)
			}
		}
	}
}

func (n *NowPlaying) showArtwork(ctx context.Context, art *playback.Artwork) {
	if art == nil || art.URL == nil || n.icons == nil {
		return
	}
	if n.current == nil || !metadata.Equal(n.current, &art.For) {
		return
	}
	path, err := n.icons.Path(ctx, art.URL.String())
	if err != nil {
		n.logger.Debug("notification icon", "url", art.URL, "err", err)
		return
	}
	n.show(*n.current, path)
}

func (n *NowPlaying) show(md metadata.Metadata, icon string) {
	title := md.Track
	if title == "" {
		title = md.String()
	}
	body := md.Artist
	if body == title {
		body = ""
	}

	id, err := n.notifier.Notify(Notification{
		Title:      title,
		Body:       body,
		Icon:       icon,
		Timeout:    nowPlayingTimeout,
		ReplacesID: n.id,
		Transient:  true,
	})
	if err != nil {
		n.logger.Debug("notification", "err", err)
		return
	}
	n.id = id
}

func (n *NowPlaying) dismiss() {
	if n.id == 0 {
		return
	}
	if err := n.notifier.Close(n.id); err != nil {
		n.logger.Debug("close notification", "err", err)
	}
	n.id = 0
}
