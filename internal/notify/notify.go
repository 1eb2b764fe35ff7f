// Package notify shows the playing title as a desktop notification.
package notify

import (
	"errors"
	"math"
	"time"
)

// ErrUnavailable is returned by New when no notification service can be
// reached.
var ErrUnavailable = errors.New("notification service unavailable")

// Notification is a single freedesktop notification.
type Notification struct {
	Title string
	Body  string
	// Icon is a file path or a themed icon name.
	Icon string
	// Timeout of 0 leaves expiry to the server.
	Timeout time.Duration
	// ReplacesID updates an earlier notification in place when non-zero.
	ReplacesID uint32
	// Transient notifications are kept out of the server's history.
	Transient bool
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns its ID.
	Notify(n Notification) (uint32, error)
	// Close removes the notification with the given ID.
	Close(id uint32) error
}

// expireTimeout converts d to the protocol's expire_timeout, where -1
// means the server default.
func expireTimeout(d time.Duration) int32 {
	if d <= 0 {
		return -1
	}
	return int32(min(d.Milliseconds(), math.MaxInt32))
}
