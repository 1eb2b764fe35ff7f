package stream

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Output is the audio device the backend plays through.
type Output interface {
	Init(rate beep.SampleRate) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
}

// speakerOutput plays through beep's speaker package, which can only be
// initialized once per process.
type speakerOutput struct{}

var (
	speakerOnce sync.Once
	speakerErr  error
)

// Speaker returns the system audio output.
func Speaker() Output { return speakerOutput{} }

func (speakerOutput) Init(rate beep.SampleRate) error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(rate, rate.N(time.Second/10))
	})
	return speakerErr
}

func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerOutput) Lock()                { speaker.Lock() }
func (speakerOutput) Unlock()              { speaker.Unlock() }

// slot plays whichever streamer is current, or silence.
type slot struct {
	current beep.Streamer
}

func (s *slot) Stream(samples [][2]float64) (int, bool) {
	if s.current == nil {
		clear(samples)
		return len(samples), true
	}
	n, ok := s.current.Stream(samples)
	if !ok || n < len(samples) {
		clear(samples[n:])
	}
	return len(samples), true
}

func (s *slot) Err() error { return nil }
