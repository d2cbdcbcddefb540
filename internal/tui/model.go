// Package tui is a terminal notification center: it shows the notes the
// engine considers open and lets the user activate or dismiss them.
package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/notifyd/internal/engine"
	"github.com/llehouerou/notifyd/internal/errmsg"
	"github.com/llehouerou/notifyd/internal/note"
)

const (
	defaultMaxBodyWidth = 60
	maxBodyLines        = 4
	logTailLines        = 3
)

var (
	errActionRejected = errors.New("notification is gone or does not offer it")
	errNoSuchAction   = errors.New("no such action")
)

// Controller is what the UI asks of the engine.
type Controller interface {
	SubmitClose(id uint32, reason engine.CloseReason)
	InvokeAction(id uint32, key string) bool
}

// Config configures the model.
type Config struct {
	MaxBodyWidth int
	// Logs, when set, are shown under the list (captured stderr).
	Logs <-chan string
}

type (
	logLineMsg    string
	logsClosedMsg struct{}
	tickMsg       time.Time
)

// Model is the bubbletea model of the notification center. Newest notes
// are at the top.
type Model struct {
	ctrl Controller
	feed *Feed
	logs <-chan string

	cards  []card
	cursor int

	width   int
	height  int
	maxBody int

	status    string
	statusErr bool
	logTail   []string

	th theme
	st styles
}

// New returns a model fed by feed that sends user requests to ctrl.
func New(ctrl Controller, feed *Feed, cfg Config) Model {
	if cfg.MaxBodyWidth <= 0 {
		cfg.MaxBodyWidth = defaultMaxBodyWidth
	}
	return Model{
		ctrl:    ctrl,
		feed:    feed,
		logs:    cfg.Logs,
		maxBody: cfg.MaxBodyWidth,
		th:      defaultTheme,
		st:      defaultTheme.styles(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.feed.wait(), m.waitLog(), tick())
}

// waitLog returns a command that waits for the next captured log line.
func (m Model) waitLog() tea.Cmd {
	if m.logs == nil {
		return nil
	}
	return func() tea.Msg {
		line, ok := <-m.logs
		if !ok {
			return logsClosedMsg{}
		}
		return logLineMsg(line)
	}
}

// tick refreshes the relative ages.
func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case noteShownMsg:
		m.insert(msg.card)
		return m, m.feed.wait()

	case noteReplacedMsg:
		if i := m.index(msg.card.ID); i >= 0 {
			msg.card.ShownAt = m.cards[i].ShownAt
			m.cards[i] = msg.card
		} else {
			m.insert(msg.card)
		}
		return m, m.feed.wait()

	case noteClosedMsg:
		m.remove(msg.id)
		return m, m.feed.wait()

	case feedClosedMsg:
		return m, nil

	case logLineMsg:
		m.logTail = append(m.logTail, sanitize(string(msg)))
		if len(m.logTail) > logTailLines {
			m.logTail = m.logTail[len(m.logTail)-logTailLines:]
		}
		return m, m.waitLog()

	case logsClosedMsg:
		return m, nil

	case tickMsg:
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) insert(c card) {
	m.cards = append([]card{c}, m.cards...)
	if len(m.cards) > 1 {
		// keep the selection on the same note
		m.cursor++
	}
}

func (m *Model) remove(id uint32) {
	i := m.index(id)
	if i < 0 {
		return
	}
	m.cards = append(m.cards[:i], m.cards[i+1:]...)
	if i < m.cursor {
		m.cursor--
	}
	m.cursor = max(0, min(m.cursor, len(m.cards)-1))
}

func (m Model) index(id uint32) int {
	for i, c := range m.cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (m Model) selected() (card, bool) {
	if len(m.cards) == 0 {
		return card{}, false
	}
	return m.cards[m.cursor], true
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.cursor = max(0, m.cursor-1)
		return m, nil
	case "down", "j":
		m.cursor = max(0, min(m.cursor+1, len(m.cards)-1))
		return m, nil
	case "d", "delete":
		if c, ok := m.selected(); ok {
			m.ctrl.SubmitClose(c.ID, engine.ReasonDismissed)
			m.setStatus(fmt.Sprintf("Dismissed #%d", c.ID))
		}
		return m, nil
	case "D":
		for _, c := range m.cards {
			m.ctrl.SubmitClose(c.ID, engine.ReasonDismissed)
		}
		if len(m.cards) > 0 {
			m.setStatus(fmt.Sprintf("Dismissed %d notifications", len(m.cards)))
		}
		return m, nil
	case "enter":
		if c, ok := m.selected(); ok {
			m.invoke(c, note.DefaultAction, note.DefaultAction)
		}
		return m, nil
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		c, ok := m.selected()
		if !ok {
			return m, nil
		}
		n := int(key[0] - '0')
		if n > len(c.Actions) {
			m.setError(errmsg.FormatWith(errmsg.OpActionInvoke, key, errNoSuchAction))
			return m, nil
		}
		a := c.Actions[n-1]
		m.invoke(c, a.Key, a.Label)
	}
	return m, nil
}

func (m *Model) invoke(c card, key, label string) {
	if !m.ctrl.InvokeAction(c.ID, key) {
		m.setError(errmsg.FormatWith(errmsg.OpActionInvoke, label, errActionRejected))
		return
	}
	m.setStatus(fmt.Sprintf("%s on #%d", label, c.ID))
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}
