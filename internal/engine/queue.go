package engine

import (
	"slices"
	"sync"
	"time"

	"github.com/llehouerou/notifyd/internal/note"
)

type tag int

const (
	tagNotify tag = iota
	tagClose
)

// entry is a queue slot. It lives in at most one queue at a time and owns
// its note until the note is closed.
type entry struct {
	id     uint32
	note   *note.Note // nil for a close request keyed by id
	tag    tag
	reason CloseReason
	// timeout is resolved when the note is submitted; 0 = never expires.
	timeout time.Duration
	expiry  time.Time // zero = never
}

// pendingQueue holds requests waiting for the worker, in arrival order.
type pendingQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	entries []*entry
	closed  bool
}

func newPendingQueue() *pendingQueue {
	q := &pendingQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends e and wakes the worker. It reports false once closed.
func (q *pendingQueue) push(e *entry) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pushLocked(e)
}

func (q *pendingQueue) pushLocked(e *entry) bool {
	if q.closed {
		return false
	}
	q.entries = append(q.entries, e)
	q.cond.Signal()
	return true
}

// pop blocks until an entry is available or the queue is closed.
func (q *pendingQueue) pop() (*entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.entries) == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.closed {
		return nil, false
	}
	e := q.entries[0]
	q.entries[0] = nil
	q.entries = q.entries[1:]
	return e, true
}

// findNotifyLocked returns the newest not-yet-shown note with the given id.
func (q *pendingQueue) findNotifyLocked(id uint32) *entry {
	for i := len(q.entries) - 1; i >= 0; i-- {
		e := q.entries[i]
		if e.id == id && e.tag == tagNotify {
			return e
		}
	}
	return nil
}

// takeCloseLocked removes and returns a queued close request that still
// carries its note, i.e. a note already detached from the active queue.
func (q *pendingQueue) takeCloseLocked(id uint32) *entry {
	i := slices.IndexFunc(q.entries, func(e *entry) bool {
		return e.id == id && e.tag == tagClose && e.note != nil
	})
	if i < 0 {
		return nil
	}
	e := q.entries[i]
	q.entries = slices.Delete(q.entries, i, i+1)
	return e
}

func (q *pendingQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

func (q *pendingQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.entries = nil
	q.cond.Broadcast()
}

// activeQueue holds the notes currently shown, each with its expiry.
type activeQueue struct {
	mu      sync.Mutex
	entries []*entry
	timers  map[*time.Timer]struct{}
	closed  bool
}

func newActiveQueue() *activeQueue {
	return &activeQueue{timers: make(map[*time.Timer]struct{})}
}

func (q *activeQueue) indexLocked(id uint32) int {
	return slices.IndexFunc(q.entries, func(e *entry) bool { return e.id == id })
}

func (q *activeQueue) removeLocked(i int) *entry {
	e := q.entries[i]
	q.entries = slices.Delete(q.entries, i, i+1)
	return e
}

// take removes and returns the entry with the given id, if any.
func (q *activeQueue) take(id uint32) *entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	i := q.indexLocked(id)
	if i < 0 {
		return nil
	}
	return q.removeLocked(i)
}

// insert adds e. When timeout is positive, e expires after it and fire is
// run once from a timer goroutine at that point.
func (q *activeQueue) insert(e *entry, timeout time.Duration, fire func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}

	e.expiry = time.Time{}
	if timeout > 0 {
		e.expiry = time.Now().Add(timeout)

		var t *time.Timer
		t = time.AfterFunc(timeout, func() {
			q.mu.Lock()
			delete(q.timers, t)
			q.mu.Unlock()
			fire()
		})
		q.timers[t] = struct{}{}
	}
	q.entries = append(q.entries, e)
	return true
}

// expired removes and returns every entry whose expiry has passed.
func (q *activeQueue) expired(now time.Time) []*entry {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []*entry
	q.entries = slices.DeleteFunc(q.entries, func(e *entry) bool {
		if !e.expiry.IsZero() && !now.Before(e.expiry) {
			out = append(out, e)
			return true
		}
		return false
	})
	return out
}

func (q *activeQueue) ids() []uint32 {
	q.mu.Lock()
	defer q.mu.Unlock()
	ids := make([]uint32, len(q.entries))
	for i, e := range q.entries {
		ids[i] = e.id
	}
	return ids
}

func (q *activeQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	for t := range q.timers {
		t.Stop()
	}
	clear(q.timers)
	q.entries = nil
}
