// Package notify is a client of org.freedesktop.Notifications. The CLI
// uses it to talk to a running daemon, or to any other notification server.
package notify

import (
	"context"
	"errors"
)

// Urgency is a notification priority level.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// ErrUnavailable is returned when no session bus can be reached.
var ErrUnavailable = errors.New("desktop notifications unavailable")

// Notification contains data for a desktop notification.
type Notification struct {
	AppName    string
	Title      string   // Summary text (required)
	Body       string   // Body text (optional, supports basic markup)
	Icon       string   // Path to image file or icon name (optional)
	Timeout    int32    // ms, -1 = server default, 0 = never expire
	ReplacesID uint32   // 0 = new notification, >0 = replace existing
	Urgency    Urgency  // Low, Normal, Critical
	Actions    []string // key, label, key, label, ...
	Hints      map[string]any
}

// ServerInfo is the answer to GetServerInformation.
type ServerInfo struct {
	Name        string
	Vendor      string
	Version     string
	SpecVersion string
}

// Event is a signal sent by the server about one notification. Exactly one
// of Reason (closed) and Action (invoked) is set.
type Event struct {
	ID     uint32
	Reason uint32
	Action string
}

// Closed reports whether e is a NotificationClosed signal.
func (e Event) Closed() bool { return e.Reason != 0 }

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
	Capabilities() ([]string, error)
	ServerInformation() (ServerInfo, error)
	// Events delivers the server's signals until ctx is done.
	Events(ctx context.Context) (<-chan Event, error)
	// Disconnect releases the bus connection.
	Disconnect() error
}
