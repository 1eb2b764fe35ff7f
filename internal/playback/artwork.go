package playback

import (
	"context"
	"net/url"

	"github.com/llehouerou/airwaves/internal/metadata"
)

// applyMetadata records md and starts an artwork lookup for it. Empty
// metadata is stored as nil.
func (e *Engine) applyMetadata(md *metadata.Metadata) {
	if md != nil && md.IsEmpty() {
		md = nil
	}
	if metadata.Equal(e.snap.Metadata, md) {
		return
	}

	var stored *metadata.Metadata
	if md != nil {
		cp := *md
		stored = &cp
		e.logger.Info("now playing", "title", cp.String(), "session", e.sess.id)
	}
	e.update(func(s *Snapshot) { s.Metadata = stored })

	var published *metadata.Metadata
	if stored != nil {
		cp := *stored
		published = &cp
	}
	e.notify(MetadataChange{Metadata: published})

	e.requestArtwork(stored)
}

// requestArtwork cancels any pending lookup, clears the current artwork and
// looks up artwork for md. The result is applied only if md is still the
// current metadata of the same session when it arrives.
func (e *Engine) requestArtwork(md *metadata.Metadata) {
	e.cancelArtwork()
	e.setArtwork(nil)
	if md == nil || !e.opts.ArtworkEnabled {
		return
	}

	want := *md
	sessionID := e.sess.id
	ctx, cancel := context.WithCancel(e.ctx)
	e.artworkSeq++
	seq := e.artworkSeq
	e.artworkCancel = cancel

	go func() {
		u, err := e.opts.Resolver.Resolve(ctx, want)
		if err != nil {
			if ctx.Err() == nil {
				e.logger.Debug("artwork lookup failed", "query", want.String(), "err", err)
			}
			u = nil
		}
		e.loop.Post(func() { e.deliverArtwork(ctx, seq, sessionID, want, u) })
	}()
}

func (e *Engine) deliverArtwork(ctx context.Context, seq uint64, sessionID string, want metadata.Metadata, u *url.URL) {
	stale := ctx.Err() != nil ||
		sessionID != e.sess.id ||
		!metadata.Equal(e.snap.Metadata, &want)
	if stale {
		e.logger.Debug("dropping stale artwork", "query", want.String())
		return
	}
	if seq == e.artworkSeq {
		e.cancelArtwork()
	}
	if u == nil {
		e.setArtwork(nil)
		return
	}
	e.setArtwork(&Artwork{URL: u, For: want})
}

func (e *Engine) cancelArtwork() {
	if e.artworkCancel != nil {
		e.artworkCancel()
		e.artworkCancel = nil
	}
}

func (e *Engine) setArtwork(a *Artwork) {
	cur := e.snap.Artwork
	if sameArtwork(cur, a) {
		return
	}
	var stored *Artwork
	if a != nil {
		cp := *a
		stored = &cp
	}
	e.update(func(s *Snapshot) { s.Artwork = stored })

	var published *Artwork
	if stored != nil {
		cp := *stored
		published = &cp
	}
	e.notify(ArtworkChange{Artwork: published})
}

func sameArtwork(a, b *Artwork) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.For == b.For && a.URL.String() == b.URL.String()
}
