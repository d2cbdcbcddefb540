package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/notifyd/internal/engine"
	"github.com/llehouerou/notifyd/internal/note"
)

const feedBuffer = 64

// card is the part of a note the list shows. Notes belong to the engine,
// so the feed copies what it needs on the worker goroutine.
type card struct {
	ID       uint32
	App      string
	Summary  string
	Body     string
	Urgency  note.Urgency
	Actions  []note.Action
	Resident bool
	ShownAt  time.Time
}

func newCard(n *note.Note, now time.Time) card {
	return card{
		ID:       n.ID,
		App:      sanitize(source(n)),
		Summary:  sanitize(n.Summary),
		Body:     n.Body,
		Urgency:  n.Urgency,
		Actions:  n.Actions.Pairs(),
		Resident: n.Resident(),
		ShownAt:  now,
	}
}

// source names the sender: the app name, else its desktop entry.
func source(n *note.Note) string {
	if n.AppName != "" {
		return n.AppName
	}
	entry, _ := n.Hints.String(note.HintDesktopEntry)
	return entry
}

type (
	noteShownMsg    struct{ card card }
	noteReplacedMsg struct{ card card }
	noteClosedMsg   struct{ id uint32 }
	feedClosedMsg   struct{}
)

// Feed is the engine side of the TUI: it implements engine.Callbacks and
// turns each call into a message for the bubbletea loop. A callback waits
// while the buffer is full, until the UI catches up or the feed is stopped.
type Feed struct {
	events chan tea.Msg
	done   chan struct{}
	stop   sync.Once
	now    func() time.Time
}

// NewFeed returns a feed ready to be passed to engine.WithCallbacks.
func NewFeed() *Feed {
	return &Feed{
		events: make(chan tea.Msg, feedBuffer),
		done:   make(chan struct{}),
		now:    time.Now,
	}
}

func (f *Feed) Notify(n *note.Note)  { f.send(noteShownMsg{newCard(n, f.now())}) }
func (f *Feed) Replace(n *note.Note) { f.send(noteReplacedMsg{newCard(n, f.now())}) }
func (f *Feed) Close(n *note.Note)   { f.send(noteClosedMsg{id: n.ID}) }

func (f *Feed) send(msg tea.Msg) {
	select {
	case f.events <- msg:
	case <-f.done:
	}
}

// Stop releases callbacks blocked on a full buffer. Later callbacks are
// discarded. It is safe to call more than once.
func (f *Feed) Stop() {
	f.stop.Do(func() { close(f.done) })
}

// wait returns a command delivering the next engine event.
func (f *Feed) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-f.events:
			return msg
		case <-f.done:
			return feedClosedMsg{}
		}
	}
}

var _ engine.Callbacks = (*Feed)(nil)
