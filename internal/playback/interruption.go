package playback

import "github.com/llehouerou/airwaves/internal/interruption"

// HandleInterruption applies the interruption policy to ev.
func (e *Engine) HandleInterruption(ev interruption.Event) {
	e.loop.Post(func() {
		a := interruption.Apply(loopController{e}, ev)
		e.logger.Debug("audio interruption", "kind", ev.Kind, "action", a)
	})
}

// loopController runs policy actions directly, already on the loop.
type loopController struct{ e *Engine }

func (c loopController) Play()  { c.e.play() }
func (c loopController) Pause() { c.e.pause() }
