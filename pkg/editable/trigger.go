package editable

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/editable/pkg/mouse"
)

// TriggerKind selects what a trigger does when pressed.
type TriggerKind int

const (
	// EditTrigger enters edit mode. Shown only while previewing.
	EditTrigger TriggerKind = iota
	// SaveTrigger saves. Shown only while editing.
	SaveTrigger
	// CancelTrigger cancels. Shown only while editing.
	CancelTrigger
)

func (k TriggerKind) String() string {
	switch k {
	case EditTrigger:
		return "EditTrigger"
	case SaveTrigger:
		return "SaveTrigger"
	case CancelTrigger:
		return "CancelTrigger"
	}
	return "Trigger"
}

func (k TriggerKind) token() string {
	switch k {
	case EditTrigger:
		return "edit"
	case SaveTrigger:
		return "save"
	default:
		return "cancel"
	}
}

// Trigger is an explicit button bound to one session operation.
//
// Programs that move focus on click should leave it alone for triggers:
// focusing a save trigger blurs the write surface, and with blur
// deactivation that would save twice.
type Trigger struct {
	s    *Session
	kind TriggerKind
	id   string

	Label  string
	Keys   KeyMap
	Styles Styles

	// OnClick runs before the session operation.
	OnClick func() tea.Cmd
}

// NewTrigger creates a trigger of the given kind.
func NewTrigger(s *Session, kind TriggerKind, label string) *Trigger {
	mustSession(s, kind.String())
	t := &Trigger{
		s:      s,
		kind:   kind,
		id:     s.field + "." + kind.token(),
		Label:  label,
		Keys:   DefaultKeyMap(),
		Styles: DefaultStyles(),
	}
	s.subscribe(t.sync)
	t.sync(s.editing)
	return t
}

// ID is the focus and hit-map id of the trigger.
func (t *Trigger) ID() string { return t.id }

// Kind returns the trigger's kind.
func (t *Trigger) Kind() TriggerKind { return t.kind }

// Visible reports whether the trigger is meaningful in the current state.
func (t *Trigger) Visible() bool {
	if t.kind == EditTrigger {
		return !t.s.editing
	}
	return t.s.editing
}

func (t *Trigger) sync(bool) tea.Cmd {
	if t.Visible() {
		t.s.focus.Attach(t.id, true)
	} else {
		t.s.focus.Detach(t.id)
	}
	return nil
}

// Update presses the trigger on a click on its region, or on the
// activation keys while it is focused.
func (t *Trigger) Update(msg tea.Msg) (bool, tea.Cmd) {
	if !t.Visible() {
		return false, nil
	}

	switch msg := msg.(type) {
	case mouse.Action:
		if msg.RegionID() == t.id && (msg.Type == mouse.ActionClick || msg.Type == mouse.ActionDoubleClick) {
			return true, t.Press()
		}
	case tea.KeyMsg:
		if t.s.focus.Focused() == t.id && key.Matches(msg, t.Keys.Activate) {
			return true, t.Press()
		}
	}
	return false, nil
}

// Press runs the caller handler, then the session operation.
func (t *Trigger) Press() tea.Cmd {
	var cmds []tea.Cmd
	if t.OnClick != nil {
		cmds = append(cmds, t.OnClick())
	}
	switch t.kind {
	case EditTrigger:
		cmds = append(cmds, t.s.Enter())
	case SaveTrigger:
		cmds = append(cmds, t.s.Save())
	case CancelTrigger:
		cmds = append(cmds, t.s.Cancel())
	}
	return tea.Batch(cmds...)
}

// View renders the button, or nothing when not visible.
func (t *Trigger) View() string {
	if !t.Visible() {
		return ""
	}
	style := t.Styles.Button
	switch {
	case t.kind == EditTrigger && t.s.disabled:
		style = t.Styles.ButtonDisabled
	case t.s.focus.Focused() == t.id:
		style = t.Styles.ButtonFocused
	}
	return style.Render(t.Label)
}

// Controls groups views that only make sense while editing, typically the
// save and cancel triggers.
type Controls struct {
	s *Session

	// Gap is the number of spaces between items.
	Gap int
}

// NewControls creates a controls group for s.
func NewControls(s *Session) *Controls {
	mustSession(s, "Controls")
	return &Controls{s: s, Gap: 1}
}

// Visible reports whether the group renders.
func (c *Controls) Visible() bool { return c.s.editing }

// View joins the non-empty items horizontally while editing.
func (c *Controls) View(items ...string) string {
	if !c.s.editing {
		return ""
	}
	var parts []string
	gap := strings.Repeat(" ", max(c.Gap, 0))
	for _, item := range items {
		if item == "" {
			continue
		}
		if len(parts) > 0 && gap != "" {
			parts = append(parts, gap)
		}
		parts = append(parts, item)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
