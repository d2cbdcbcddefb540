package engine

import "time"

// run is the worker loop. It is the only goroutine that calls Callbacks.
func (e *Engine) run() {
	defer close(e.done)
	for {
		ent, ok := e.pending.pop()
		if !ok {
			return
		}
		switch ent.tag {
		case tagNotify:
			e.show(ent)
		case tagClose:
			e.close(ent)
		}
	}
}

// show makes ent's note visible, replacing a visible note with the same ID.
// A note with that ID that has already left the active queue but not yet
// been closed is closed first, so the embedder never sees the ID twice.
func (e *Engine) show(ent *entry) {
	prev, closing := e.detach(ent.id)
	if closing != nil {
		e.close(closing)
	}
	if prev != nil {
		e.dispatch.replace(ent.note)
		prev.note = nil
	} else {
		e.dispatch.notify(ent.note)
	}

	if !e.active.insert(ent, ent.timeout, e.expire) {
		return
	}

	e.log.Debug().
		Uint64("id", uint64(ent.id)).
		Bool("replaced", prev != nil).
		Dur("timeout", ent.timeout).
		Log("notification shown")
}

// detach removes whatever currently holds id: the visible note, or a note
// queued to be closed. Both locks are held so that an expiry cannot move
// the note from one queue to the other in between.
func (e *Engine) detach(id uint32) (prev, closing *entry) {
	e.pending.mu.Lock()
	defer e.pending.mu.Unlock()
	if closing = e.pending.takeCloseLocked(id); closing != nil {
		return nil, closing
	}
	return e.active.take(id), nil
}

// close ends the life of a note. Expired and action-closed notes arrive
// here already detached from the active queue, carrying their note; plain
// close requests are looked up by ID.
func (e *Engine) close(ent *entry) {
	target := ent
	if ent.note == nil {
		target = e.active.take(ent.id)
		if target == nil {
			e.log.Debug().
				Uint64("id", uint64(ent.id)).
				Stringer("reason", ent.reason).
				Log("close of unknown notification ignored")
			return
		}
	}

	e.dispatch.close(target.note)
	e.dispatch.closed(ent.id, ent.reason)
	target.note = nil

	e.log.Debug().
		Uint64("id", uint64(ent.id)).
		Stringer("reason", ent.reason).
		Log("notification closed")
}

// expire runs on a timer goroutine. It hands every elapsed note back to
// the worker as a close request.
func (e *Engine) expire() {
	q := e.pending
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, ent := range e.active.expired(time.Now()) {
		ent.tag = tagClose
		ent.reason = ReasonExpired
		ent.expiry = time.Time{}
		q.pushLocked(ent)
	}
}
