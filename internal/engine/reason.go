package engine

// CloseReason tells clients why a notification stopped being open.
// The values are the ones carried by the NotificationClosed signal.
type CloseReason uint32

const (
	ReasonExpired         CloseReason = 1
	ReasonDismissed       CloseReason = 2
	ReasonClosedByRequest CloseReason = 3
	ReasonUndefined       CloseReason = 4
)

// Normalize maps any value outside the defined reasons to ReasonUndefined.
func (r CloseReason) Normalize() CloseReason {
	if r < ReasonExpired || r > ReasonUndefined {
		return ReasonUndefined
	}
	return r
}

// String returns the reason name.
func (r CloseReason) String() string {
	switch r {
	case ReasonExpired:
		return "expired"
	case ReasonDismissed:
		return "dismissed"
	case ReasonClosedByRequest:
		return "closed"
	case ReasonUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}
