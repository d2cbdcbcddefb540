package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/notifyd/internal/db"
	"github.com/llehouerou/notifyd/internal/engine"
	"github.com/llehouerou/notifyd/internal/note"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(db.Memory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// fakeClock advances one second per call.
func fakeClock() func() time.Time {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func TestStore_RecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := s.Record(
		Entry{NoteID: 1, AppName: "a", Summary: "first", Reason: engine.ReasonExpired, ShownAt: base, ClosedAt: base.Add(time.Second)},
		Entry{NoteID: 2, AppName: "b", Summary: "second", Reason: engine.ReasonDismissed, Action: "default", ShownAt: base, ClosedAt: base.Add(3 * time.Second)},
		Entry{NoteID: 3, AppName: "c", Summary: "third", Category: "im", Urgency: note.UrgencyCritical, Reason: engine.ReasonClosedByRequest, ShownAt: base, ClosedAt: base.Add(2 * time.Second)},
	)
	require.NoError(t, err)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := s.Recent(2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "second", got[0].Summary)
	assert.Equal(t, "default", got[0].Action)
	assert.Equal(t, engine.ReasonDismissed, got[0].Reason)
	assert.Equal(t, s.RunID(), got[0].RunID)
	assert.True(t, got[0].ClosedAt.Equal(base.Add(3*time.Second)))

	assert.Equal(t, "third", got[1].Summary)
	assert.Equal(t, "im", got[1].Category)
	assert.Equal(t, note.UrgencyCritical, got[1].Urgency)
	assert.Empty(t, got[1].Action)
}

func TestStore_RecordNothing(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Record())
}

func TestStore_RunIDIsUUID(t *testing.T) {
	s := openTestStore(t)
	_, err := uuid.Parse(s.RunID())
	assert.NoError(t, err)

	other := openTestStore(t)
	assert.NotEqual(t, s.RunID(), other.RunID())
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "history.db")

	s, err := Open(path)
	require.NoError(t, err)
	firstRun := s.RunID()
	require.NoError(t, s.Record(Entry{NoteID: 1, Summary: "kept", ClosedAt: time.Now()}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].Summary)
	assert.Equal(t, firstRun, got[0].RunID)
	assert.NotEqual(t, firstRun, s.RunID())

	var version int
	require.NoError(t, s.db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func runRecorder(t *testing.T, r *Recorder) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, r.Run(ctx))
}

func TestRecorder_Lifecycle(t *testing.T) {
	s := openTestStore(t)
	r := NewRecorder(s, WithClock(fakeClock()))

	n := note.New("mail", "New mail", "from alice")
	n.ID = 7
	n.Hints = note.Hints{note.HintCategory: note.StringHint("email.arrived")}

	r.Notify(n)
	r.ActionInvoked(7, "open")
	r.Close(n)
	r.NotificationClosed(7, engine.ReasonClosedByRequest)
	runRecorder(t, r)

	got, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	e := got[0]
	assert.Equal(t, uint32(7), e.NoteID)
	assert.Equal(t, "mail", e.AppName)
	assert.Equal(t, "from alice", e.Body)
	assert.Equal(t, "email.arrived", e.Category)
	assert.Equal(t, "open", e.Action)
	assert.Equal(t, engine.ReasonClosedByRequest, e.Reason)
	assert.True(t, e.ClosedAt.After(e.ShownAt))

	state := r.State().(RecorderState)
	assert.Equal(t, uint64(1), state.Written)
	assert.Zero(t, state.Open)
}

func TestRecorder_ReplaceKeepsShownAt(t *testing.T) {
	s := openTestStore(t)
	r := NewRecorder(s, WithClock(fakeClock()))

	n := note.New("app", "v1", "")
	n.ID = 1
	r.Notify(n)

	n2 := note.New("app", "v2", "")
	n2.ID = 1
	r.Replace(n2)
	r.NotificationClosed(1, engine.ReasonExpired)
	runRecorder(t, r)

	got, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "v2", got[0].Summary)
	// shown at tick 1, replace does not read the clock, closed at tick 2
	assert.Equal(t, time.Second, got[0].ClosedAt.Sub(got[0].ShownAt))
}

func TestRecorder_UnseenCloseIgnored(t *testing.T) {
	s := openTestStore(t)
	r := NewRecorder(s)

	r.NotificationClosed(99, engine.ReasonExpired)
	runRecorder(t, r)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecorder_SkipsTransient(t *testing.T) {
	s := openTestStore(t)
	r := NewRecorder(s)

	transient := note.Hints{note.HintTransient: note.BoolHint(true)}

	a := note.New("app", "volume 40%", "")
	a.ID = 1
	a.Hints = transient
	r.Notify(a)
	r.NotificationClosed(1, engine.ReasonExpired)

	// Replaced by a transient note: the earlier content is forgotten too.
	b := note.New("app", "kept?", "")
	b.ID = 2
	r.Notify(b)
	b2 := note.New("app", "volume 50%", "")
	b2.ID = 2
	b2.Hints = transient
	r.Replace(b2)
	r.NotificationClosed(2, engine.ReasonExpired)

	c := note.New("app", "persisted", "")
	c.ID = 3
	r.Notify(c)
	r.NotificationClosed(3, engine.ReasonDismissed)
	runRecorder(t, r)

	got, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "persisted", got[0].Summary)
}

func TestRecorder_DropsWhenBufferFull(t *testing.T) {
	s := openTestStore(t)
	r := NewRecorder(s, WithBuffer(1))

	for id := uint32(1); id <= 3; id++ {
		n := note.New("app", "x", "")
		n.ID = id
		r.Notify(n)
		r.NotificationClosed(id, engine.ReasonDismissed)
	}

	state := r.State().(RecorderState)
	assert.Equal(t, 1, state.Buffered)
	assert.Equal(t, uint64(2), state.Dropped)

	runRecorder(t, r)
	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecorder_RunWritesWhileRunning(t *testing.T) {
	s := openTestStore(t)
	r := NewRecorder(s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	n := note.New("app", "live", "")
	n.ID = 1
	r.Notify(n)
	r.NotificationClosed(1, engine.ReasonExpired)

	assert.Eventually(t, func() bool {
		return r.State().(RecorderState).Written == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestRecorder_WithEngine(t *testing.T) {
	s := openTestStore(t)
	r := NewRecorder(s)

	e := engine.New(engine.WithCallbacks(r), engine.WithEmitter(r))
	id := e.SubmitNotify(note.New("app", "through engine", ""))
	e.SubmitClose(id, engine.ReasonDismissed)

	assert.Eventually(t, func() bool {
		return r.State().(RecorderState).Buffered == 1
	}, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, e.Close())

	runRecorder(t, r)
	got, err := s.Recent(1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "through engine", got[0].Summary)
	assert.Equal(t, engine.ReasonDismissed, got[0].Reason)
}
