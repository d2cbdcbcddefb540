//go:build windows

// Package stderr provides a no-op implementation for Windows, where fd 2
// cannot be redirected the same way.
package stderr

// Capture does nothing on Windows.
type Capture struct{}

// Start returns a Capture that leaves stderr alone.
func Start() (*Capture, error) {
	return &Capture{}, nil
}

// Lines never delivers anything on Windows.
func (c *Capture) Lines() <-chan string {
	return nil
}

// Stop is a no-op on Windows.
func (c *Capture) Stop() {}
