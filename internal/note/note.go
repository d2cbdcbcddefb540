// Package note defines a single notification's content and scheduling policy.
package note

import "time"

// Urgency represents notification priority levels on the wire.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// String returns the urgency name.
func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyNormal:
		return "normal"
	case UrgencyCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// TimeoutDefault marks a note that should use the server's default timeout.
const TimeoutDefault time.Duration = -1

// DefaultAction is the action key invoked when a note itself is activated.
const DefaultAction = "default"

// Note is one notification. Once submitted to the engine it must not be
// modified; the engine only ever assigns ID when it is zero.
type Note struct {
	ID      uint32 // 0 = assign on submit
	AppName string
	AppIcon string
	Summary string
	Body    string

	// Timeout: <0 = server default, 0 = never expire.
	Timeout time.Duration

	Actions *Actions
	Urgency Urgency
	Hints   Hints
}

// New returns a note using the server default timeout and normal urgency.
func New(appName, summary, body string) *Note {
	return &Note{
		AppName: appName,
		Summary: summary,
		Body:    body,
		Timeout: TimeoutDefault,
		Urgency: UrgencyNormal,
	}
}

// EffectiveTimeout returns how long n stays open. Zero means it never
// expires: either the client asked for that or the note is critical and
// did not ask for anything.
func EffectiveTimeout(n *Note, def time.Duration) time.Duration {
	if n.Timeout >= 0 {
		return n.Timeout
	}
	if n.Urgency == UrgencyCritical {
		return 0
	}
	return def
}

// Resident reports whether the note stays open after an action is invoked.
func (n *Note) Resident() bool {
	v, ok := n.Hints.Bool(HintResident)
	return ok && v
}

// Transient reports whether the note should bypass any persistence.
func (n *Note) Transient() bool {
	v, ok := n.Hints.Bool(HintTransient)
	return ok && v
}

// AllowsAction reports whether key can be invoked on n.
func (n *Note) AllowsAction(key string) bool {
	return key == DefaultAction || n.Actions.Has(key)
}
