package stream

import (
	"errors"
	"sync"
)

var errBufferClosed = errors.New("stream: buffer closed")

// sampleBuffer is a bounded FIFO of stereo samples between the network
// reader and the audio callback. Writes block while it is full; reads
// never block.
type sampleBuffer struct {
	mu     sync.Mutex
	space  *sync.Cond
	data   [][2]float64
	head   int
	n      int
	closed bool
}

func newSampleBuffer(capacity int) *sampleBuffer {
	b := &sampleBuffer{data: make([][2]float64, max(capacity, 1))}
	b.space = sync.NewCond(&b.mu)
	return b
}

// Write appends samples, waiting for room as needed. It returns
// errBufferClosed once the buffer is closed.
func (b *sampleBuffer) Write(samples [][2]float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for len(samples) > 0 {
		for b.n == len(b.data) && !b.closed {
			b.space.Wait()
		}
		if b.closed {
			return errBufferClosed
		}
		tail := (b.head + b.n) % len(b.data)
		room := min(len(b.data)-b.n, len(b.data)-tail)
		c := copy(b.data[tail:tail+room], samples)
		b.n += c
		samples = samples[c:]
	}
	return nil
}

// Read moves up to len(out) samples into out and returns how many.
func (b *sampleBuffer) Read(out [][2]float64) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for total < len(out) && b.n > 0 {
		chunk := min(b.n, len(b.data)-b.head)
		c := copy(out[total:], b.data[b.head:b.head+chunk])
		b.head = (b.head + c) % len(b.data)
		b.n -= c
		total += c
	}
	if total > 0 {
		b.space.Broadcast()
	}
	return total
}

// Len returns the number of buffered samples.
func (b *sampleBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.n
}

// Cap returns the capacity in samples.
func (b *sampleBuffer) Cap() int {
	return len(b.data)
}

// Close wakes blocked writers and rejects further writes.
func (b *sampleBuffer) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.space.Broadcast()
}
