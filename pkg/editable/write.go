package editable

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/editable/pkg/mouse"
)

// Write is the editable rendering of a field, mounted while the session
// is editing. It wraps a bubbles textinput, or a textarea when
// multi-line.
//
// In controlled mode (WithControlledValue) the caller owns the value: every
// edit goes through the change handler, and the input re-reads the
// caller's getter on each Update and View. Otherwise the input owns the
// value and the session reads it live at save time.
type Write struct {
	s         *Session
	id        string
	multiline bool

	line textinput.Model
	area textarea.Model

	get          func() string
	onChange     func(string)
	defaultValue string

	Keys   KeyMap
	Styles Styles

	// Caller handlers run before the session reacts to the gesture.
	OnKey  func(tea.KeyMsg) tea.Cmd
	OnBlur func() tea.Cmd

	mounted  bool
	focused  bool
	selected bool
}

// WriteOption configures a Write surface.
type WriteOption func(*Write)

// Multiline switches to a textarea of the given height.
func Multiline(height int) WriteOption {
	return func(w *Write) {
		w.multiline = true
		if height > 0 {
			w.area.SetHeight(height)
		}
	}
}

// WithControlledValue puts the surface in controlled mode.
func WithControlledValue(get func() string, onChange func(string)) WriteOption {
	return func(w *Write) {
		w.get = get
		w.onChange = onChange
	}
}

// WithDefaultValue sets the value an uncontrolled input starts from each
// time it mounts.
func WithDefaultValue(v string) WriteOption {
	return func(w *Write) { w.defaultValue = v }
}

// WithPlaceholder sets the input placeholder.
func WithPlaceholder(p string) WriteOption {
	return func(w *Write) {
		w.line.Placeholder = p
		w.area.Placeholder = p
	}
}

// WithInputWidth sets the input width in cells.
func WithInputWidth(width int) WriteOption {
	return func(w *Write) {
		w.line.Width = width
		w.area.SetWidth(width)
	}
}

// WithCharLimit caps the value length.
func WithCharLimit(n int) WriteOption {
	return func(w *Write) {
		w.line.CharLimit = n
		w.area.CharLimit = n
	}
}

// WithCursorMode sets the cursor mode of the input. CursorStatic avoids
// blink ticks.
func WithCursorMode(mode cursor.Mode) WriteOption {
	return func(w *Write) {
		w.line.Cursor.SetMode(mode)
		w.area.Cursor.SetMode(mode)
	}
}

// NewWrite creates the write surface of s and registers it as the
// session's value source.
func NewWrite(s *Session, opts ...WriteOption) *Write {
	mustSession(s, "Write")

	line := textinput.New()
	line.Prompt = ""

	area := textarea.New()
	area.ShowLineNumbers = false
	area.Prompt = ""
	area.SetHeight(3)

	w := &Write{
		s:      s,
		id:     s.field + ".write",
		line:   line,
		area:   area,
		Keys:   DefaultKeyMap(),
		Styles: DefaultStyles(),
	}
	for _, opt := range opts {
		opt(w)
	}

	s.RegisterInput(w)
	s.subscribe(w.sync)
	if s.editing {
		w.mount()
	}
	return w
}

// Init returns the cursor blink command when the surface starts mounted.
func (w *Write) Init() tea.Cmd {
	if !w.mounted {
		return nil
	}
	if w.multiline {
		return textarea.Blink
	}
	return textinput.Blink
}

// ID is the focus and hit-map id of the input.
func (w *Write) ID() string { return w.id }

// Mounted reports whether the input is currently rendered.
func (w *Write) Mounted() bool { return w.mounted }

// Multiline reports whether the surface is a textarea.
func (w *Write) Multiline() bool { return w.multiline }

// Controlled reports whether the caller owns the value.
func (w *Write) Controlled() bool { return w.get != nil }

// Selected reports whether the whole value is selected.
func (w *Write) Selected() bool { return w.selected }

// Value returns the caller's value in controlled mode and the live input
// content otherwise.
func (w *Write) Value() string {
	if w.get != nil {
		return w.get()
	}
	return w.inputValue()
}

// SetDefaultValue changes the value the next mount starts from. Callers of
// uncontrolled inputs usually set it to the saved value.
func (w *Write) SetDefaultValue(v string) {
	w.defaultValue = v
}

// Deactivation returns the deactivation set in effect for this surface.
func (w *Write) Deactivation() Deactivation {
	return w.s.Deactivation(w.multiline)
}

func (w *Write) sync(editing bool) tea.Cmd {
	switch {
	case editing && !w.mounted:
		return w.mount()
	case !editing && w.mounted:
		w.unmount()
	}
	return nil
}

func (w *Write) mount() tea.Cmd {
	initial := w.defaultValue
	if w.get != nil {
		initial = w.get()
	}
	w.setInput(initial)

	w.mounted = true
	w.selected = w.s.SelectAllOnFocus() && initial != ""

	w.s.focus.Attach(w.id, true)
	w.s.focus.Focus(w.id)
	w.focused = true
	return w.focusInput()
}

func (w *Write) unmount() {
	w.mounted = false
	w.focused = false
	w.selected = false
	w.blurInput()
	w.s.focus.Detach(w.id)
}

// Update handles keys while focused, clicks on the input region, focus
// changes and cursor blink messages. It reports whether the message was
// consumed.
func (w *Write) Update(msg tea.Msg) (bool, tea.Cmd) {
	if !w.mounted {
		return false, nil
	}

	w.pull()
	cmds := []tea.Cmd{w.trackFocus()}
	if !w.mounted {
		// Blur ended the session synchronously.
		return false, tea.Batch(cmds...)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !w.focused {
			return false, tea.Batch(cmds...)
		}
		return true, tea.Batch(append(cmds, w.handleKey(msg))...)

	case mouse.Action:
		if msg.RegionID() != w.id || msg.Type != mouse.ActionClick {
			return false, tea.Batch(cmds...)
		}
		w.selected = false
		if !w.focused {
			w.s.focus.Focus(w.id)
			w.focused = true
			cmds = append(cmds, w.focusInput())
		}
		return true, tea.Batch(cmds...)
	}

	cmds = append(cmds, w.updateInput(msg))
	return false, tea.Batch(cmds...)
}

// trackFocus turns focus ring changes into blur and focus edges.
func (w *Write) trackFocus() tea.Cmd {
	has := w.s.focus.Focused() == w.id
	switch {
	case w.focused && !has:
		w.focused = false
		w.selected = false
		w.blurInput()

		var cmds []tea.Cmd
		if w.OnBlur != nil {
			cmds = append(cmds, w.OnBlur())
		}
		if w.Deactivation().Has(DeactivateBlur) {
			cmds = append(cmds, w.s.Save())
		}
		return tea.Batch(cmds...)

	case !w.focused && has:
		w.focused = true
		return w.focusInput()
	}
	return nil
}

// handleKey applies the deactivation keys in a fixed order: Escape first,
// then modifier+Enter, then plain Enter. Anything else edits the value.
func (w *Write) handleKey(msg tea.KeyMsg) tea.Cmd {
	d := w.Deactivation()

	var cmds []tea.Cmd
	if w.OnKey != nil {
		cmds = append(cmds, w.OnKey(msg))
	}

	switch {
	case d.Has(DeactivateEscapeKey) && key.Matches(msg, w.Keys.Cancel):
		return tea.Batch(append(cmds, w.s.Cancel())...)
	case d.Has(DeactivateModEnterKey) && key.Matches(msg, w.Keys.ModSave):
		return tea.Batch(append(cmds, w.s.Save())...)
	case d.Has(DeactivateEnterKey) && key.Matches(msg, w.Keys.Save):
		return tea.Batch(append(cmds, w.s.Save())...)
	}

	before := w.inputValue()
	if !w.replaceSelection(msg) {
		cmds = append(cmds, w.updateInput(msg))
	}

	if after := w.inputValue(); after != before && w.get != nil {
		if w.onChange != nil {
			w.onChange(after)
		}
		if v := w.get(); v != after {
			w.setInput(v)
		}
	}
	return tea.Batch(cmds...)
}

// replaceSelection applies a key to a selected value. Typing replaces the
// selection, backspace and delete clear it, anything else just drops the
// selection. It reports whether the key was fully handled.
func (w *Write) replaceSelection(msg tea.KeyMsg) bool {
	if !w.selected {
		return false
	}
	w.selected = false

	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		w.setInput("")
		return false
	case tea.KeyBackspace, tea.KeyDelete:
		w.setInput("")
		return true
	}
	return false
}

// View renders the input, or nothing while previewing.
func (w *Write) View() string {
	if !w.mounted {
		return ""
	}
	w.pull()
	if w.selected {
		v := w.inputValue()
		lines := strings.Split(v, "\n")
		for i, l := range lines {
			lines[i] = w.Styles.Selection.Render(l)
		}
		return strings.Join(lines, "\n")
	}
	if w.multiline {
		return w.area.View()
	}
	return w.line.View()
}

// pull copies the caller's value into a controlled input.
func (w *Write) pull() {
	if w.get != nil {
		w.setInput(w.get())
	}
}

func (w *Write) inputValue() string {
	if w.multiline {
		return w.area.Value()
	}
	return w.line.Value()
}

func (w *Write) setInput(v string) {
	if w.inputValue() == v {
		return
	}
	if w.multiline {
		w.area.SetValue(v)
		return
	}
	w.line.SetValue(v)
	w.line.CursorEnd()
}

func (w *Write) focusInput() tea.Cmd {
	if w.multiline {
		return w.area.Focus()
	}
	return w.line.Focus()
}

func (w *Write) blurInput() {
	if w.multiline {
		w.area.Blur()
		return
	}
	w.line.Blur()
}

func (w *Write) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if w.multiline {
		w.area, cmd = w.area.Update(msg)
		return cmd
	}
	w.line, cmd = w.line.Update(msg)
	return cmd
}
