//go:build !windows

// Package stderr captures everything written to file descriptor 2 while
// the terminal UI owns the screen: log lines, panics in other goroutines,
// messages from the Go runtime. Captured lines are shown by the UI instead
// of corrupting its layout.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"sync"
	"syscall"
)

const bufferedLines = 100

// Capture is an active redirection of fd 2.
type Capture struct {
	orig  int
	read  *os.File
	write *os.File
	lines chan string
	stop  sync.Once
}

// Start redirects fd 2 into a pipe. If it fails, the program can continue
// without capture; output just goes to the original stderr.
func Start() (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	// Save original stderr file descriptor
	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	// Redirect stderr (fd 2) to the pipe's write end
	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{
		orig:  orig,
		read:  r,
		write: w,
		lines: make(chan string, bufferedLines),
	}
	go c.pump()
	return c, nil
}

func (c *Capture) pump() {
	defer close(c.lines)
	scanner := bufio.NewScanner(c.read)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case c.lines <- line:
		default:
			// Nobody is keeping up; drop rather than block writers.
		}
	}
}

// Lines delivers captured lines. It is closed after Stop.
func (c *Capture) Lines() <-chan string {
	return c.lines
}

// Stop restores the original stderr. It is safe to call more than once.
func (c *Capture) Stop() {
	c.stop.Do(func() {
		_ = syscall.Dup2(c.orig, int(os.Stderr.Fd()))
		_ = syscall.Close(c.orig)

		// fd 2 no longer refers to the pipe; closing our end lets pump
		// see EOF.
		c.write.Close()
	})
}
