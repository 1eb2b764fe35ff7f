package playback

import "time"

// itemSink forwards an item's signals to the engine loop, tagged with the
// generation the item was loaded under. Signals from any other generation
// are dropped there.
type itemSink struct {
	e   *Engine
	gen uint64
}

func (k itemSink) StatusChanged(status ItemStatus) {
	k.e.dispatch(k.gen, "status", func() { k.e.handleStatus(status) })
}

func (k itemSink) BufferEmpty(empty bool) {
	k.e.dispatch(k.gen, "buffer-empty", func() { k.e.handleBufferEmpty(empty) })
}

func (k itemSink) LikelyToKeepUp(likely bool) {
	k.e.dispatch(k.gen, "keep-up", func() { k.e.handleLikelyToKeepUp(likely) })
}

func (k itemSink) DurationChanged(d time.Duration) {
	k.e.dispatch(k.gen, "duration", func() { k.e.setDuration(d) })
}

func (k itemSink) TimedMetadata(groups []string) {
	groups = append([]string(nil), groups...)
	k.e.dispatch(k.gen, "metadata", func() { k.e.applyMetadata(k.e.opts.Extractor.Extract(groups)) })
}

func (k itemSink) TimeChanged(t time.Duration) {
	k.e.dispatch(k.gen, "time", func() { k.e.handleTime(t) })
}

func (k itemSink) PlayedToEnd() {
	k.e.dispatch(k.gen, "end", k.e.handlePlayedToEnd)
}

func (e *Engine) dispatch(gen uint64, signal string, fn func()) {
	e.loop.Post(func() {
		if gen != e.sess.gen || e.sess.item == nil {
			e.logger.Debug("dropping stale signal", "signal", signal, "gen", gen, "current", e.sess.gen)
			return
		}
		fn()
	})
}

func (e *Engine) handleStatus(status ItemStatus) {
	switch status {
	case StatusReady:
		if e.snap.PlayerState == StateError {
			return
		}
		e.setPlayerState(StateReadyToPlay)
		if e.sess.autoPlay {
			e.play()
		}
	case StatusFailed:
		e.fail("load", ErrLoadFailure)
	case StatusUnknown:
	}
}

func (e *Engine) handleBufferEmpty(empty bool) {
	if !empty || e.snap.PlayerState == StateError {
		return
	}
	e.setPlayerState(StateLoading)
	e.checkNetworkInterruption()
}

func (e *Engine) handleLikelyToKeepUp(likely bool) {
	if e.snap.PlayerState == StateError {
		return
	}
	if likely {
		e.setPlayerState(StateLoadingFinished)
	} else {
		e.setPlayerState(StateLoading)
	}
}

func (e *Engine) handleTime(t time.Duration) {
	if e.snap.Duration == 0 || e.sess.playedToEnd {
		return
	}
	e.setCurrentTime(t)
}

// handlePlayedToEnd parks a finished item at its start, paused.
func (e *Engine) handlePlayedToEnd() {
	s := &e.sess
	e.pause()
	s.playedToEnd = true
	gen := s.gen
	e.backend.Seek(0, func(bool) {
		e.loop.Post(func() {
			if gen != e.sess.gen {
				return
			}
			e.sess.playedToEnd = false
			e.setCurrentTime(0)
		})
	})
}
