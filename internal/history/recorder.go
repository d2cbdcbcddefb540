package history

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/introspection"

	"github.com/llehouerou/notifyd/internal/engine"
	"github.com/llehouerou/notifyd/internal/errmsg"
	"github.com/llehouerou/notifyd/internal/logging"
	"github.com/llehouerou/notifyd/internal/note"
)

const (
	defaultBuffer = 256
	maxBatch      = 64
)

// Recorder turns engine events into history entries. It is both an
// engine.Callbacks (to learn the content of notes) and an engine.Emitter
// (to learn why they closed). Entries are written by Run so that the
// engine never waits on the disk; when the buffer is full they are
// dropped.
type Recorder struct {
	store *Store
	log   *logging.Logger
	now   func() time.Time

	mu   sync.Mutex
	open map[uint32]*Entry

	rows    chan Entry
	written atomic.Uint64
	dropped atomic.Uint64
	failed  atomic.Uint64
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithBuffer sets how many entries may wait for the writer.
func WithBuffer(n int) RecorderOption {
	return func(r *Recorder) {
		if n > 0 {
			r.rows = make(chan Entry, n)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) RecorderOption {
	return func(r *Recorder) {
		r.log = logging.Component(l, "history")
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		r.now = now
	}
}

// NewRecorder returns a Recorder writing to store.
func NewRecorder(store *Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store: store,
		now:   time.Now,
		open:  make(map[uint32]*Entry),
		rows:  make(chan Entry, defaultBuffer),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func snapshot(n *note.Note) Entry {
	category, _ := n.Hints.String(note.HintCategory)
	return Entry{
		NoteID:   n.ID,
		AppName:  n.AppName,
		Summary:  n.Summary,
		Body:     n.Body,
		Category: category,
		Urgency:  n.Urgency,
	}
}

// Notify implements engine.Callbacks. Transient notes are not recorded.
func (r *Recorder) Notify(n *note.Note) {
	if n.Transient() {
		return
	}
	e := snapshot(n)
	e.ShownAt = r.now()

	r.mu.Lock()
	r.open[n.ID] = &e
	r.mu.Unlock()
}

// Replace implements engine.Callbacks. The note keeps its first shown time.
func (r *Recorder) Replace(n *note.Note) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.Transient() {
		delete(r.open, n.ID)
		return
	}

	e := snapshot(n)
	if prev, ok := r.open[n.ID]; ok {
		e.ShownAt = prev.ShownAt
		e.Action = prev.Action
	} else {
		e.ShownAt = r.now()
	}
	r.open[n.ID] = &e
}

// Close implements engine.Callbacks. The entry is completed by
// NotificationClosed, which follows on the same goroutine.
func (r *Recorder) Close(*note.Note) {}

// ActionInvoked implements engine.Emitter.
func (r *Recorder) ActionInvoked(id uint32, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.open[id]; ok {
		e.Action = key
	}
}

// NotificationClosed implements engine.Emitter.
func (r *Recorder) NotificationClosed(id uint32, reason engine.CloseReason) {
	r.mu.Lock()
	open, ok := r.open[id]
	delete(r.open, id)
	r.mu.Unlock()
	if !ok {
		r.log.Debug().Uint64("id", uint64(id)).Log("close of unrecorded notification ignored")
		return
	}

	e := *open
	e.Reason = reason
	e.ClosedAt = r.now()

	select {
	case r.rows <- e:
	default:
		r.dropped.Add(1)
		r.log.Warning().Uint64("id", uint64(id)).Log("history buffer full, entry dropped")
	}
}

// Run writes buffered entries until ctx is done, then flushes what is
// left and returns.
func (r *Recorder) Run(ctx context.Context) error {
	batch := make([]Entry, 0, maxBatch)
	for {
		select {
		case <-ctx.Done():
			r.flush(r.drain(batch[:0]))
			return nil
		case e := <-r.rows:
			batch = append(batch[:0], e)
			r.flush(r.fill(batch))
		}
	}
}

// fill appends whatever is already buffered, up to maxBatch.
func (r *Recorder) fill(batch []Entry) []Entry {
	for len(batch) < maxBatch {
		select {
		case e := <-r.rows:
			batch = append(batch, e)
		default:
			return batch
		}
	}
	return batch
}

func (r *Recorder) drain(batch []Entry) []Entry {
	for {
		select {
		case e := <-r.rows:
			batch = append(batch, e)
		default:
			return batch
		}
	}
}

func (r *Recorder) flush(batch []Entry) {
	if len(batch) == 0 {
		return
	}
	if err := r.store.Record(batch...); err != nil {
		r.failed.Add(uint64(len(batch)))
		r.log.Err().Err(err).Int("entries", len(batch)).Log(errmsg.Format(errmsg.OpHistoryWrite, err))
		return
	}
	r.written.Add(uint64(len(batch)))
}

// RecorderState is the introspection snapshot of a Recorder.
type RecorderState struct {
	RunID    string `json:"run_id"`
	Open     int    `json:"open"`
	Buffered int    `json:"buffered"`
	Written  uint64 `json:"written"`
	Dropped  uint64 `json:"dropped"`
	Failed   uint64 `json:"failed"`
}

// State implements introspection.Introspectable.
func (r *Recorder) State() any {
	r.mu.Lock()
	open := len(r.open)
	r.mu.Unlock()
	return RecorderState{
		RunID:    r.store.RunID(),
		Open:     open,
		Buffered: len(r.rows),
		Written:  r.written.Load(),
		Dropped:  r.dropped.Load(),
		Failed:   r.failed.Load(),
	}
}

// ComponentType implements introspection.Component.
func (r *Recorder) ComponentType() string {
	return "history"
}

var (
	_ engine.Callbacks             = (*Recorder)(nil)
	_ engine.Emitter               = (*Recorder)(nil)
	_ introspection.Introspectable = (*Recorder)(nil)
	_ introspection.Component      = (*Recorder)(nil)
)
