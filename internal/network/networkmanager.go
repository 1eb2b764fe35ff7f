//go:build linux

package network

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	nmDest      = "org.freedesktop.NetworkManager"
	nmPath      = "/org/freedesktop/NetworkManager"
	nmInterface = "org.freedesktop.NetworkManager"

	// nmStateConnectedGlobal is NM_STATE_CONNECTED_GLOBAL: full internet
	// access.
	nmStateConnectedGlobal = 70
)

// NetworkManager reads reachability from NetworkManager over the system
// D-Bus.
type NetworkManager struct {
	conn    *dbus.Conn
	signals chan *dbus.Signal

	mu        sync.Mutex
	connected bool
	ch        chan bool
}

// NewNetworkManager connects to the system bus and reads the current
// NetworkManager state. It fails when the bus or the service is missing.
func NewNetworkManager() (*NetworkManager, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}

	v, err := conn.Object(nmDest, nmPath).GetProperty(nmInterface + ".State")
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read NetworkManager state: %w", err)
	}
	state, ok := v.Value().(uint32)
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("unexpected NetworkManager state type %T", v.Value())
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(nmPath),
		dbus.WithMatchInterface(nmInterface),
		dbus.WithMatchMember("StateChanged"),
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribe to NetworkManager: %w", err)
	}

	nm := &NetworkManager{
		conn:      conn,
		signals:   make(chan *dbus.Signal, 10),
		connected: state >= nmStateConnectedGlobal,
		ch:        make(chan bool, 1),
	}
	conn.Signal(nm.signals)
	return nm, nil
}

// Start forwards StateChanged signals until ctx is done, then closes the
// bus connection.
func (nm *NetworkManager) Start(ctx context.Context) {
	go func() {
		defer close(nm.ch)
		defer nm.conn.Close()
		defer nm.conn.RemoveSignal(nm.signals)
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-nm.signals:
				if !ok {
					return
				}
				if sig.Name != nmInterface+".StateChanged" || len(sig.Body) == 0 {
					continue
				}
				state, ok := sig.Body[0].(uint32)
				if !ok {
					continue
				}
				nm.set(state >= nmStateConnectedGlobal)
			}
		}
	}()
}

// Connected implements Reachability.
func (nm *NetworkManager) Connected() bool {
	nm.mu.Lock()
	defer nm.mu.Unlock()
	return nm.connected
}

// Changes implements Reachability.
func (nm *NetworkManager) Changes() <-chan bool { return nm.ch }

func (nm *NetworkManager) set(connected bool) {
	nm.mu.Lock()
	changed := nm.connected != connected
	nm.connected = connected
	nm.mu.Unlock()
	if !changed {
		return
	}
	select {
	case <-nm.ch:
	default:
	}
	nm.ch <- connected
}
