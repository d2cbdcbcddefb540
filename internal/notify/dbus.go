//go:build linux

package notify

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	dbusNotifyDest      = "org.freedesktop.Notifications"
	dbusNotifyPath      = "/org/freedesktop/Notifications"
	dbusNotifyInterface = "org.freedesktop.Notifications"
)

// dbusNotifier sends notifications via D-Bus.
type dbusNotifier struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// New creates a Notifier talking to the session bus notification server.
func New() (Notifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	obj := conn.Object(dbusNotifyDest, dbusNotifyPath)
	return &dbusNotifier{conn: conn, obj: obj}, nil
}

func buildHints(notif Notification) map[string]dbus.Variant {
	hints := make(map[string]dbus.Variant, len(notif.Hints)+1)
	for k, v := range notif.Hints {
		hints[k] = dbus.MakeVariant(v)
	}
	hints["urgency"] = dbus.MakeVariant(byte(notif.Urgency))
	return hints
}

// Notify sends a notification via D-Bus.
func (n *dbusNotifier) Notify(notif Notification) (uint32, error) {
	actions := notif.Actions
	if actions == nil {
		actions = []string{}
	}

	// D-Bus Notify method signature:
	// Notify(app_name, replaces_id, icon, summary, body, actions, hints, timeout) -> id
	call := n.obj.Call(
		dbusNotifyInterface+".Notify",
		0,                 // flags
		notif.AppName,     // app_name
		notif.ReplacesID,  // replaces_id
		notif.Icon,        // app_icon (path or icon name)
		notif.Title,       // summary
		notif.Body,        // body
		actions,           // actions
		buildHints(notif), // hints
		notif.Timeout,     // expire_timeout
	)

	if call.Err != nil {
		return 0, call.Err
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}

	return id, nil
}

// Close closes a notification by ID.
func (n *dbusNotifier) Close(id uint32) error {
	call := n.obj.Call(dbusNotifyInterface+".CloseNotification", 0, id)
	return call.Err
}

func (n *dbusNotifier) Capabilities() ([]string, error) {
	var caps []string
	if err := n.obj.Call(dbusNotifyInterface+".GetCapabilities", 0).Store(&caps); err != nil {
		return nil, err
	}
	return caps, nil
}

func (n *dbusNotifier) ServerInformation() (ServerInfo, error) {
	var info ServerInfo
	err := n.obj.Call(dbusNotifyInterface+".GetServerInformation", 0).
		Store(&info.Name, &info.Vendor, &info.Version, &info.SpecVersion)
	return info, err
}

func (n *dbusNotifier) Events(ctx context.Context) (<-chan Event, error) {
	if err := n.conn.AddMatchSignalContext(ctx,
		dbus.WithMatchObjectPath(dbusNotifyPath),
		dbus.WithMatchInterface(dbusNotifyInterface),
	); err != nil {
		return nil, fmt.Errorf("subscribe to notification signals: %w", err)
	}

	raw := make(chan *dbus.Signal, 16)
	n.conn.Signal(raw)

	out := make(chan Event)
	go func() {
		defer close(out)
		defer n.conn.RemoveSignal(raw)
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-raw:
				if !ok {
					return
				}
				ev, ok := parseSignal(sig)
				if !ok {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func parseSignal(sig *dbus.Signal) (Event, bool) {
	if sig.Path != dbusNotifyPath || len(sig.Body) != 2 {
		return Event{}, false
	}
	id, ok := sig.Body[0].(uint32)
	if !ok {
		return Event{}, false
	}
	switch sig.Name {
	case dbusNotifyInterface + ".NotificationClosed":
		reason, ok := sig.Body[1].(uint32)
		return Event{ID: id, Reason: reason}, ok
	case dbusNotifyInterface + ".ActionInvoked":
		key, ok := sig.Body[1].(string)
		return Event{ID: id, Action: key}, ok
	}
	return Event{}, false
}

func (n *dbusNotifier) Disconnect() error {
	return n.conn.Close()
}
