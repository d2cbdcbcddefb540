// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Configuration
	OpConfigLoad   Op = "load configuration"
	OpConfigReload Op = "reload configuration"

	// Session bus
	OpBusConnect Op = "connect to session bus"
	OpBusServe   Op = "serve notifications"

	// Client requests
	OpNotifySend  Op = "send notification"
	OpNotifyClose Op = "close notification"
	OpNotifyWait  Op = "wait for notification"
	OpServerQuery Op = "query notification server"

	// Notifications shown by this daemon
	OpActionInvoke Op = "invoke action"

	// History
	OpHistoryOpen  Op = "open history"
	OpHistoryRead  Op = "read history"
	OpHistoryWrite Op = "write history"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Wrap annotates err with op for returning up the stack. It returns nil
// when err is nil.
func Wrap(op Op, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
