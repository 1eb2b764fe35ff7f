package interruption

import (
	"context"
	"testing"
	"time"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want Action
	}{
		{"began", Event{Kind: Began}, Pause},
		{"began ignores resume hint", Event{Kind: Began, ShouldResume: true}, Pause},
		{"ended with resume", Event{Kind: Ended, ShouldResume: true}, Play},
		{"ended without resume", Event{Kind: Ended}, Pause},
		{"route removed", Event{Kind: RouteRemoved}, Pause},
		{"route removed with replacement", Event{Kind: RouteRemoved, ReplacementAvailable: true}, None},
		{"route added", Event{Kind: RouteAdded}, None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.ev); got != tt.want {
				t.Errorf("Decide(%+v) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}

type countingController struct {
	plays, pauses int
}

func (c *countingController) Play()  { c.plays++ }
func (c *countingController) Pause() { c.pauses++ }

func TestApply(t *testing.T) {
	c := &countingController{}

	Apply(c, Event{Kind: Began})
	Apply(c, Event{Kind: Ended, ShouldResume: true})
	Apply(c, Event{Kind: RouteAdded})

	if c.plays != 1 || c.pauses != 1 {
		t.Errorf("plays=%d pauses=%d, want 1 and 1", c.plays, c.pauses)
	}
}

type chanSource struct{ ch chan Event }

func (s chanSource) Events() <-chan Event { return s.ch }
func (s chanSource) Close() error        { close(s.ch); return nil }

func TestForward(t *testing.T) {
	src := chanSource{ch: make(chan Event, 3)}
	src.ch <- Event{Kind: Began}
	src.ch <- Event{Kind: Ended}
	_ = src.Close()

	var got []Kind
	done := make(chan struct{})
	go func() {
		Forward(context.Background(), src, func(ev Event) { got = append(got, ev.Kind) })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Forward did not return after source closed")
	}
	if len(got) != 2 || got[0] != Began || got[1] != Ended {
		t.Errorf("forwarded %v", got)
	}
}
