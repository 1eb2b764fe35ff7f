//go:build !linux

package notify

// New fails on platforms without a freedesktop notification service.
func New() (Notifier, error) {
	return nil, ErrUnavailable
}
