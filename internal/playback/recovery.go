package playback

import "fmt"

// ConnectivityChanged records the latest reachability reading.
func (e *Engine) ConnectivityChanged(connected bool) {
	e.loop.Post(func() {
		e.connected = connected
		e.update(func(s *Snapshot) { s.Connected = connected })
	})
}

// NetworkRestored checks whether the current item stalled while the
// network was down and starts recovery if so.
func (e *Engine) NetworkRestored() {
	e.loop.Post(func() {
		e.logger.Info("network restored", "session", e.sess.id)
		e.checkNetworkInterruption()
	})
}

// checkNetworkInterruption pauses a stalled item and schedules a re-check
// after the grace interval. Only one recovery runs per item.
func (e *Engine) checkNetworkInterruption() {
	s := &e.sess
	if s.item == nil || !e.connected || e.recoveryGen == s.gen {
		return
	}
	// A failed item stays failed until a new source is set.
	if e.snap.PlayerState == StateError {
		return
	}
	if s.item.LikelyToKeepUp() {
		return
	}

	e.logger.Info("stream stalled, waiting before reload",
		"grace", e.opts.RecoveryGrace, "session", s.id, "gen", s.gen)
	e.backend.Pause()
	gen := s.gen
	e.recoveryGen = gen
	e.afterFunc(e.opts.RecoveryGrace, func() {
		e.loop.Post(func() { e.finishRecovery(gen) })
	})
}

// finishRecovery reloads the item if it is still stalled and restores the
// playback intent.
func (e *Engine) finishRecovery(gen uint64) {
	s := &e.sess
	if e.recoveryGen != gen || s.gen != gen || s.item == nil {
		return
	}
	e.recoveryGen = 0
	if e.snap.PlayerState == StateError {
		return
	}

	if !s.item.LikelyToKeepUp() {
		e.logger.Info("stream still stalled, reloading", "url", s.source.URL, "session", s.id)
		if err := e.loadItem(); err != nil {
			e.fail("recover", fmt.Errorf("%w: %w", ErrPlaybackStall, err))
			return
		}
	}

	if e.snap.PlaybackState == Playing {
		e.backend.Play()
	} else {
		e.backend.Pause()
	}
}
