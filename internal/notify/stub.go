//go:build !linux

package notify

// New always fails on platforms without a session bus.
func New() (Notifier, error) {
	return nil, ErrUnavailable
}
