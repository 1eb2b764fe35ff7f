package playback

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SetSource replaces the current source. The previous item is released
// and its pending work cancelled before anything about the new source is
// published. A nil source clears the session.
func (e *Engine) SetSource(src *Source) {
	var cp *Source
	if src != nil {
		cp = src.Clone()
	}
	e.loop.Post(func() { e.setSource(cp) })
}

// Play starts or resumes playback. It does nothing without a source or
// after a load error.
func (e *Engine) Play() {
	e.loop.Post(e.play)
}

// Pause pauses playback.
func (e *Engine) Pause() {
	e.loop.Post(e.pause)
}

// Stop stops playback. Seekable items rewind to the start; live streams
// release their item and reload it on the next Play. Metadata and artwork
// are cleared either way; the source is kept.
// PlayerState is left as it was: after a live stop it still reports the
// released item's readiness until Play reloads, which moves it to Loading.
func (e *Engine) Stop() {
	e.loop.Post(e.stop)
}

// TogglePlaying pauses when playing and plays otherwise.
func (e *Engine) TogglePlaying() {
	e.loop.Post(func() {
		if e.snap.PlaybackState == Playing {
			e.pause()
		} else {
			e.play()
		}
	})
}

// Seek moves to the given position, resumes playback and then calls done
// on the engine loop. It does nothing, and done is not called, for live
// streams.
func (e *Engine) Seek(to time.Duration, done func()) {
	e.loop.Post(func() { e.seek(to, done) })
}

// SetVolume sets the output level. Values outside [0, 1] are ignored.
func (e *Engine) SetVolume(level float64) {
	if level < 0 || level > 1 {
		return
	}
	e.loop.Post(func() {
		if e.snap.Volume == level {
			return
		}
		e.update(func(s *Snapshot) { s.Volume = level })
		e.backend.SetVolume(level)
	})
}

func (e *Engine) setSource(src *Source) {
	s := &e.sess
	if s.source == nil && src == nil {
		return
	}

	e.teardown()

	if src == nil {
		s.source = nil
		s.id = ""
		e.update(func(snap *Snapshot) {
			snap.Source = nil
			snap.SessionID = ""
		})
		e.logger.Info("source cleared")
		e.setPlayerState(StateURLNotSet)
		e.notify(ItemChange{})
		return
	}

	s.source = src
	s.id = uuid.NewString()
	s.autoPlay = e.opts.AutoPlay
	e.update(func(snap *Snapshot) {
		snap.Source = src.Clone()
		snap.SessionID = s.id
	})
	e.logger.Info("source set", "url", src.URL, "session", s.id)

	e.setPlayerState(StateLoading)
	e.notify(ItemChange{Source: src.Clone(), SessionID: s.id})

	if err := e.loadItem(); err != nil {
		e.fail("load", fmt.Errorf("%w: %w", ErrInvalidSource, err))
	}
}

// teardown drops everything tied to the current item: pending artwork and
// recovery, the item itself, metadata, artwork, duration and time.
func (e *Engine) teardown() {
	e.cancelArtwork()
	e.recoveryGen = 0
	e.sess.autoPlay = false
	if e.sess.item != nil {
		e.backend.Pause()
	}
	e.setPlaybackState(Stopped)
	e.releaseItem()
	e.applyMetadata(nil)
	e.setCurrentTime(0)
	e.setDuration(0)
}

// loadItem creates and attaches a new item for the current source.
func (e *Engine) loadItem() error {
	s := &e.sess
	if err := s.source.Validate(); err != nil {
		return err
	}

	e.setPlayerState(StateLoading)
	e.lastGen++
	gen := e.lastGen
	// Fence the outgoing item before the new one can emit anything.
	s.gen = gen

	item, err := e.backend.Load(*s.source, itemSink{e: e, gen: gen})
	if err != nil {
		e.releaseItem()
		return err
	}
	e.attachItem(item, gen)
	e.logger.Debug("item loaded", "gen", gen, "url", s.source.URL, "session", s.id)
	return nil
}

// attachItem makes item current and closes the one it replaces.
func (e *Engine) attachItem(item Item, gen uint64) {
	s := &e.sess
	s.gen = gen
	if item == s.item {
		return
	}
	s.prev = s.item
	s.item = item
	s.playedToEnd = false
	e.backend.Replace(item)
	if s.prev != nil {
		if err := s.prev.Close(); err != nil {
			e.logger.Warn("closing replaced item", "err", err)
		}
		s.prev = nil
	}
}

// releaseItem detaches and closes the current item.
func (e *Engine) releaseItem() {
	s := &e.sess
	s.gen = 0
	if s.item == nil {
		return
	}
	old := s.item
	s.item = nil
	s.playedToEnd = false
	e.backend.Replace(nil)
	if err := old.Close(); err != nil {
		e.logger.Warn("closing item", "err", err)
	}
}

func (e *Engine) play() {
	s := &e.sess
	if s.source == nil || e.snap.PlayerState == StateError {
		return
	}
	s.autoPlay = false
	if s.item == nil {
		if err := e.loadItem(); err != nil {
			e.fail("load", fmt.Errorf("%w: %w", ErrInvalidSource, err))
			return
		}
	}
	e.backend.Play()
	e.setPlaybackState(Playing)
}

func (e *Engine) pause() {
	s := &e.sess
	if s.source == nil {
		return
	}
	s.autoPlay = false
	if s.item != nil {
		e.backend.Pause()
	}
	if e.snap.PlaybackState != Stopped {
		e.setPlaybackState(Paused)
	}
}

func (e *Engine) stop() {
	s := &e.sess
	if s.source == nil {
		return
	}
	s.autoPlay = false
	e.cancelArtwork()
	e.recoveryGen = 0
	if s.item != nil {
		e.backend.Pause()
		if e.snap.Duration > 0 {
			e.backend.Seek(0, nil)
			e.setCurrentTime(0)
		} else {
			e.releaseItem()
		}
	}
	e.applyMetadata(nil)
	e.setPlaybackState(Stopped)
}

func (e *Engine) seek(to time.Duration, done func()) {
	s := &e.sess
	d := e.snap.Duration
	if s.item == nil || d == 0 {
		return
	}
	to = max(0, min(to, d))
	gen := s.gen
	e.backend.Seek(to, func(ok bool) {
		e.loop.Post(func() {
			if gen == e.sess.gen {
				if ok {
					e.setCurrentTime(to)
				}
				e.play()
			}
			if done != nil {
				done()
			}
		})
	})
}

// fail moves to StateError, stops playback and reports err.
func (e *Engine) fail(op string, err error) {
	s := &e.sess
	s.autoPlay = false
	e.recoveryGen = 0
	url := ""
	if s.source != nil {
		url = s.source.URL
	}
	e.logger.Error("playback failed", "op", op, "url", url, "session", s.id, "err", err)
	e.setPlayerState(StateError)
	if s.item != nil {
		e.backend.Pause()
	}
	e.setPlaybackState(Stopped)
	e.notify(ErrorEvent{Operation: op, URL: url, Err: err})
}
