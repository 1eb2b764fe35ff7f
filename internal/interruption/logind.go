//go:build linux

package interruption

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	logindPath      = "/org/freedesktop/login1"
	logindInterface = "org.freedesktop.login1.Manager"
)

// Logind turns systemd-logind sleep notifications into interruptions:
// going to sleep begins one, waking up ends it without a resume hint.
type Logind struct {
	conn    *dbus.Conn
	signals chan *dbus.Signal
	events  chan Event

	closeOnce sync.Once
	done      chan struct{}
}

// NewLogind subscribes to PrepareForSleep on the system bus.
func NewLogind() (*Logind, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}
	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(logindPath),
		dbus.WithMatchInterface(logindInterface),
		dbus.WithMatchMember("PrepareForSleep"),
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribe to logind: %w", err)
	}

	l := &Logind{
		conn:    conn,
		signals: make(chan *dbus.Signal, 4),
		events:  make(chan Event, 4),
		done:    make(chan struct{}),
	}
	conn.Signal(l.signals)
	go l.run()
	return l, nil
}

func (l *Logind) run() {
	defer close(l.events)
	for {
		select {
		case <-l.done:
			return
		case sig, ok := <-l.signals:
			if !ok {
				return
			}
			if sig.Name != logindInterface+".PrepareForSleep" || len(sig.Body) == 0 {
				continue
			}
			sleeping, ok := sig.Body[0].(bool)
			if !ok {
				continue
			}
			ev := Event{Kind: Ended}
			if sleeping {
				ev = Event{Kind: Began}
			}
			select {
			case l.events <- ev:
			case <-l.done:
				return
			}
		}
	}
}

// Events implements Source.
func (l *Logind) Events() <-chan Event { return l.events }

// Close unsubscribes and closes the bus connection.
func (l *Logind) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.done)
		l.conn.RemoveSignal(l.signals)
		err = l.conn.Close()
	})
	return err
}
