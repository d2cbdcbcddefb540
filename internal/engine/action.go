package engine

// InvokeAction activates the action key of the open note id and reports
// whether it was accepted. key must be "default" or one of the note's
// declared actions. Unless the note is resident it is then closed with
// ReasonClosedByRequest.
//
// The pending queue is searched before the active one. The pending lock is
// held for the whole call, so the note cannot move between the queues or
// expire while it is being handled; Emitter.ActionInvoked runs under it.
func (e *Engine) InvokeAction(id uint32, key string) bool {
	e.pending.mu.Lock()
	defer e.pending.mu.Unlock()

	if ent := e.pending.findNotifyLocked(id); ent != nil {
		return e.invokePendingLocked(ent, key)
	}
	return e.invokeActiveLocked(id, key)
}

func (e *Engine) invokePendingLocked(ent *entry, key string) bool {
	if !ent.note.AllowsAction(key) {
		return false
	}

	e.dispatch.actionInvoked(ent.id, key)
	if !ent.note.Resident() {
		// Queued behind the note itself, so it is shown then closed.
		e.pending.pushLocked(&entry{id: ent.id, tag: tagClose, reason: ReasonClosedByRequest})
	}
	return true
}

func (e *Engine) invokeActiveLocked(id uint32, key string) bool {
	q := e.active
	q.mu.Lock()
	defer q.mu.Unlock()

	i := q.indexLocked(id)
	if i < 0 || !q.entries[i].note.AllowsAction(key) {
		e.log.Debug().Uint64("id", uint64(id)).Str("action", key).Log("action rejected")
		return false
	}

	ent := q.entries[i]
	e.dispatch.actionInvoked(id, key)
	if ent.note.Resident() {
		return true
	}

	// Detached here, so no timer or other close can reach it any more.
	q.removeLocked(i)
	ent.tag = tagClose
	ent.reason = ReasonClosedByRequest
	e.pending.pushLocked(ent)
	return true
}
