package dbusserver

import (
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/llehouerou/notifyd/internal/note"
)

// decodeTimeout maps expire_timeout to a note timeout: -1 (or any negative
// value) uses the server default, 0 never expires, otherwise milliseconds.
func decodeTimeout(ms int32) time.Duration {
	if ms < 0 {
		return note.TimeoutDefault
	}
	return time.Duration(ms) * time.Millisecond
}

// decodeHints converts the wire hints. Values of types the accessors do
// not know are kept as HintOther.
func decodeHints(raw map[string]dbus.Variant) note.Hints {
	if len(raw) == 0 {
		return nil
	}
	hints := make(note.Hints, len(raw))
	for k, v := range raw {
		switch x := v.Value().(type) {
		case int32:
			hints[k] = note.Int32Hint(x)
		case byte:
			hints[k] = note.ByteHint(x)
		case bool:
			hints[k] = note.BoolHint(x)
		case string:
			hints[k] = note.StringHint(x)
		default:
			hints[k] = note.OtherHint(x)
		}
	}
	return hints
}

// urgencyFromHints reads the urgency byte, clamping unknown levels to
// critical.
func urgencyFromHints(h note.Hints) note.Urgency {
	b, ok := h.Byte(note.HintUrgency)
	if !ok {
		return note.UrgencyNormal
	}
	if u := note.Urgency(b); u <= note.UrgencyCritical {
		return u
	}
	return note.UrgencyCritical
}

// notifyArgs are the arguments of a Notify call.
type notifyArgs struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string
	Hints         map[string]dbus.Variant
	ExpireTimeout int32
}

func (a notifyArgs) note(f Features) *note.Note {
	n := note.New(a.AppName, a.Summary, a.Body)
	n.ID = a.ReplacesID
	n.AppIcon = a.AppIcon
	n.Timeout = decodeTimeout(a.ExpireTimeout)
	n.Hints = decodeHints(a.Hints)
	n.Urgency = urgencyFromHints(n.Hints)
	if f.Actions {
		n.Actions = note.NewActions(a.Actions)
	}
	return n
}
