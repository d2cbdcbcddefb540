package engine

import (
	"github.com/aretw0/introspection"

	"github.com/llehouerou/notifyd/internal/idrange"
)

// EngineState exposes internal state for observability.
type EngineState struct {
	Pending        int             `json:"pending"`
	Active         int             `json:"active"`
	ActiveIDs      []uint32        `json:"active_ids,omitempty"`
	DefaultTimeout string          `json:"default_timeout"`
	ClaimedIDs     []idrange.Range `json:"claimed_ids"`
}

// State implements introspection.Introspectable.
func (e *Engine) State() any {
	ids := e.active.ids()
	return EngineState{
		Pending:        e.pending.len(),
		Active:         len(ids),
		ActiveIDs:      ids,
		DefaultTimeout: e.DefaultTimeout().String(),
		ClaimedIDs:     e.ids.Ranges(),
	}
}

// ComponentType implements introspection.Component.
func (e *Engine) ComponentType() string {
	return "engine"
}

var _ introspection.Introspectable = (*Engine)(nil)
var _ introspection.Component = (*Engine)(nil)
