//go:build !windows

package stderr

import (
	"os"
	"testing"
	"time"
)

func TestCapture(t *testing.T) {
	c, err := Start()
	if err != nil {
		t.Skipf("cannot redirect stderr: %v", err)
	}
	defer c.Stop()

	if _, err := os.Stderr.WriteString("  captured line  \n\n"); err != nil {
		t.Fatalf("write to stderr: %v", err)
	}

	select {
	case line := <-c.Lines():
		if line != "captured line" {
			t.Errorf("captured %q, want %q", line, "captured line")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no line captured")
	}
}

func TestCapture_StopClosesLines(t *testing.T) {
	c, err := Start()
	if err != nil {
		t.Skipf("cannot redirect stderr: %v", err)
	}
	c.Stop()
	c.Stop()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-c.Lines():
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("Lines() not closed after Stop")
		}
	}
}
