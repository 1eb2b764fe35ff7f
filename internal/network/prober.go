package network

import (
	"context"
	"net"
	"sync"
	"time"
)

// DefaultProbeAddr is dialed by a Prober when no address is configured.
const DefaultProbeAddr = "1.1.1.1:53"

// Prober derives reachability from periodic TCP dials to a well-known
// address. It works anywhere but notices changes only once per interval.
type Prober struct {
	addr     string
	interval time.Duration
	timeout  time.Duration
	dial     func(ctx context.Context, network, addr string) (net.Conn, error)

	mu        sync.Mutex
	connected bool
	ch        chan bool
}

// NewProber creates a Prober. Call Start to begin probing.
func NewProber(addr string, interval time.Duration) *Prober {
	if addr == "" {
		addr = DefaultProbeAddr
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	d := &net.Dialer{}
	return &Prober{
		addr:      addr,
		interval:  interval,
		timeout:   2 * time.Second,
		dial:      d.DialContext,
		connected: true,
		ch:        make(chan bool, 1),
	}
}

// Start probes once synchronously, then keeps probing in the background
// until ctx is done.
func (p *Prober) Start(ctx context.Context) {
	p.set(p.probe(ctx), false)
	go func() {
		defer close(p.ch)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.set(p.probe(ctx), true)
			}
		}
	}()
}

// Connected implements Reachability.
func (p *Prober) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// Changes implements Reachability.
func (p *Prober) Changes() <-chan bool { return p.ch }

func (p *Prober) probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	conn, err := p.dial(ctx, "tcp", p.addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func (p *Prober) set(connected, publish bool) {
	p.mu.Lock()
	changed := p.connected != connected
	p.connected = connected
	p.mu.Unlock()
	if !changed || !publish {
		return
	}
	// Keep only the latest reading when the consumer lags.
	select {
	case <-p.ch:
	default:
	}
	p.ch <- connected
}
