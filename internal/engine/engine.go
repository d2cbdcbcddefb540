// Package engine tracks the lifecycle of desktop notifications.
//
// Requests enter a pending queue and are handled by a single worker
// goroutine, which moves shown notes into an active queue and calls the
// embedder's callbacks. Each active note with a timeout arms a one-shot
// timer; when it fires, every elapsed note is moved back into the pending
// queue as a close request, so that closing always happens in one place.
//
// Lock order: pending before active. No lock is held while Callbacks run.
package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeycumines/logiface"

	"github.com/llehouerou/notifyd/internal/idrange"
	"github.com/llehouerou/notifyd/internal/note"
)

// DefaultTimeout is used for notes that do not set their own timeout.
const DefaultTimeout = 5 * time.Second

// Logger is the engine's logger type.
type Logger = logiface.Logger[logiface.Event]

// Engine is the notification lifecycle engine. Create it with New and
// release it with Close.
type Engine struct {
	pending *pendingQueue
	active  *activeQueue
	ids     *idrange.Allocator

	dispatch       dispatcher
	defaultTimeout atomic.Int64
	log            *Logger

	closeOnce sync.Once
	done      chan struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithCallbacks sets the embedder callbacks.
func WithCallbacks(c Callbacks) Option {
	return func(e *Engine) {
		if c != nil {
			e.dispatch.callbacks = c
		}
	}
}

// WithEmitter adds a receiver of outbound events. It may be repeated.
func WithEmitter(em Emitter) Option {
	return func(e *Engine) {
		if em != nil {
			e.dispatch.emitters = append(e.dispatch.emitters, em)
		}
	}
}

// WithDefaultTimeout sets the timeout of notes that do not carry one.
func WithDefaultTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.defaultTimeout.Store(int64(d))
	}
}

// WithLogger sets the logger.
func WithLogger(l *Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// New creates an engine and starts its worker.
func New(opts ...Option) *Engine {
	e := &Engine{
		pending: newPendingQueue(),
		active:  newActiveQueue(),
		ids:     idrange.New(),
		done:    make(chan struct{}),
	}
	e.dispatch.callbacks = CallbackFuncs{}
	e.defaultTimeout.Store(int64(DefaultTimeout))
	for _, opt := range opts {
		opt(e)
	}
	e.dispatch.log = e.log

	go e.run()
	return e
}

// SubmitNotify queues n to be shown and returns its ID, allocating one when
// n.ID is zero. A client-chosen ID is claimed so it is never allocated to
// someone else. The engine takes ownership of n.
func (e *Engine) SubmitNotify(n *note.Note) uint32 {
	if n.ID == 0 {
		n.ID = e.ids.Allocate()
	} else {
		e.ids.Claim(n.ID)
	}

	ent := &entry{
		id:      n.ID,
		note:    n,
		tag:     tagNotify,
		timeout: note.EffectiveTimeout(n, e.DefaultTimeout()),
	}
	if !e.pending.push(ent) {
		e.log.Debug().Uint64("id", uint64(n.ID)).Log("engine closed, dropping notification")
	}
	return n.ID
}

// SubmitClose queues a request to close the note with the given ID.
// Closing an unknown or already closed ID does nothing.
func (e *Engine) SubmitClose(id uint32, reason CloseReason) {
	e.pending.push(&entry{id: id, tag: tagClose, reason: reason})
}

// SetDefaultTimeout changes the timeout of notes submitted from now on.
// Notes already submitted keep the timeout they were given.
func (e *Engine) SetDefaultTimeout(d time.Duration) {
	e.defaultTimeout.Store(int64(d))
}

// DefaultTimeout returns the current default timeout.
func (e *Engine) DefaultTimeout() time.Duration {
	return time.Duration(e.defaultTimeout.Load())
}

// ActiveIDs returns the IDs of the notes currently shown.
func (e *Engine) ActiveIDs() []uint32 {
	return e.active.ids()
}

// Close stops the worker and all expiry timers. Queued requests are
// dropped. It is safe to call more than once.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.pending.close()
		<-e.done
		e.active.close()
	})
	return nil
}
