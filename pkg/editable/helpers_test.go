package editable

import (
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// settle runs cmd the way the Bubble Tea loop would, feeding the engine's
// own messages back into the session until nothing is left. It returns
// the messages meant for the caller (SaveDoneMsg and friends).
func settle(t *testing.T, s *Session, cmd tea.Cmd) []tea.Msg {
	t.Helper()

	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}

		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case saveResultMsg, helperMsg, restoreFocusMsg:
			queue = append(queue, s.Update(msg))
		default:
			out = append(out, msg)
		}
	}
	return out
}

// run executes cmd without feeding anything back.
func run(cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			out = append(out, msg)
		}
	}
	return out
}

func saveDone(t *testing.T, msgs []tea.Msg) SaveDoneMsg {
	t.Helper()
	for _, m := range msgs {
		if done, ok := m.(SaveDoneMsg); ok {
			return done
		}
	}
	t.Fatalf("no SaveDoneMsg in %v", msgs)
	return SaveDoneMsg{}
}

// recordingSender stands in for *tea.Program.
type recordingSender struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recordingSender) take() []tea.Msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.msgs
	r.msgs = nil
	return msgs
}

type counter struct {
	enter, exit, cancel int
}

func (c *counter) options() []Option {
	return []Option{
		OnEnter(func() { c.enter++ }),
		OnExit(func() { c.exit++ }),
		OnCancel(func() { c.cancel++ }),
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyAltEnter = tea.KeyMsg{Type: tea.KeyEnter, Alt: true}
	keyEsc      = tea.KeyMsg{Type: tea.KeyEsc}
	keySpace    = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyBack     = tea.KeyMsg{Type: tea.KeyBackspace}
)
