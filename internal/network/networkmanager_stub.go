//go:build !linux

package network

import (
	"context"
	"errors"
)

// NetworkManager is unavailable outside Linux.
type NetworkManager struct{}

// NewNetworkManager always fails on this platform.
func NewNetworkManager() (*NetworkManager, error) {
	return nil, errors.New("NetworkManager is only available on Linux")
}

// Start does nothing.
func (*NetworkManager) Start(context.Context) {}

// Connected implements Reachability.
func (*NetworkManager) Connected() bool { return true }

// Changes implements Reachability.
func (*NetworkManager) Changes() <-chan bool { return nil }
