package engine

import (
	"fmt"

	"github.com/llehouerou/notifyd/internal/note"
)

// Callbacks is implemented by the embedder that actually shows notes.
// All methods are called from the engine's worker goroutine, one at a
// time, without any engine lock held; they may call back into the engine.
// The note must be treated as read-only.
type Callbacks interface {
	// Notify is called when a note becomes visible.
	Notify(n *note.Note)
	// Replace is called when a visible note's content is swapped for n.
	Replace(n *note.Note)
	// Close is called when a visible note goes away.
	Close(n *note.Note)
}

// CallbackFuncs adapts plain functions to Callbacks. Nil fields are no-ops.
type CallbackFuncs struct {
	OnNotify  func(n *note.Note)
	OnReplace func(n *note.Note)
	OnClose   func(n *note.Note)
}

func (c CallbackFuncs) Notify(n *note.Note) {
	if c.OnNotify != nil {
		c.OnNotify(n)
	}
}

func (c CallbackFuncs) Replace(n *note.Note) {
	if c.OnReplace != nil {
		c.OnReplace(n)
	}
}

func (c CallbackFuncs) Close(n *note.Note) {
	if c.OnClose != nil {
		c.OnClose(n)
	}
}

// MultiCallbacks calls each Callbacks in order.
type MultiCallbacks []Callbacks

func (m MultiCallbacks) Notify(n *note.Note) {
	for _, c := range m {
		c.Notify(n)
	}
}

func (m MultiCallbacks) Replace(n *note.Note) {
	for _, c := range m {
		c.Replace(n)
	}
}

func (m MultiCallbacks) Close(n *note.Note) {
	for _, c := range m {
		c.Close(n)
	}
}

// Emitter receives the events the transport turns into outbound signals.
// NotificationClosed is called from the worker goroutine with no engine
// lock held. ActionInvoked is called from whichever goroutine called
// Engine.InvokeAction while the queue locks are held: it must not call
// back into the engine (SubmitNotify, SubmitClose, InvokeAction, ActiveIDs,
// State) or it deadlocks. Hand the event to another goroutine instead.
type Emitter interface {
	NotificationClosed(id uint32, reason CloseReason)
	ActionInvoked(id uint32, key string)
}

// EmitterFuncs adapts plain functions to Emitter. Nil fields are no-ops.
type EmitterFuncs struct {
	OnClosed func(id uint32, reason CloseReason)
	OnAction func(id uint32, key string)
}

func (e EmitterFuncs) NotificationClosed(id uint32, reason CloseReason) {
	if e.OnClosed != nil {
		e.OnClosed(id, reason)
	}
}

func (e EmitterFuncs) ActionInvoked(id uint32, key string) {
	if e.OnAction != nil {
		e.OnAction(id, key)
	}
}

// dispatcher guards the worker against misbehaving embedders.
type dispatcher struct {
	callbacks Callbacks
	emitters  []Emitter
	log       *Logger
}

func (d *dispatcher) call(kind string, n *note.Note, fn func(*note.Note)) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Err().
				Str("callback", kind).
				Uint64("id", uint64(n.ID)).
				Err(fmt.Errorf("panic: %v", r)).
				Log("callback panicked")
		}
	}()
	fn(n)
}

func (d *dispatcher) notify(n *note.Note)  { d.call("notify", n, d.callbacks.Notify) }
func (d *dispatcher) replace(n *note.Note) { d.call("replace", n, d.callbacks.Replace) }
func (d *dispatcher) close(n *note.Note)   { d.call("close", n, d.callbacks.Close) }

func (d *dispatcher) closed(id uint32, reason CloseReason) {
	reason = reason.Normalize()
	for _, e := range d.emitters {
		e.NotificationClosed(id, reason)
	}
}

func (d *dispatcher) actionInvoked(id uint32, key string) {
	for _, e := range d.emitters {
		e.ActionInvoked(id, key)
	}
}
