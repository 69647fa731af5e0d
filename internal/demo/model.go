// Package demo is a Bubble Tea page with a few click-to-edit fields backed
// by the sqlite store.
package demo

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/editable/internal/config"
	"github.com/marcus/editable/pkg/editable"
	"github.com/marcus/editable/pkg/focus"
	"github.com/marcus/editable/pkg/mouse"
)

// Field names, also the store keys.
const (
	FieldTitle   = "title"
	FieldMessage = "message"
	FieldLocked  = "locked"
)

var defaults = map[string]string{
	FieldTitle:   "Hello",
	FieldMessage: "Some **markdown**.\n\nPress alt+enter to save, esc to cancel.",
	FieldLocked:  "This field is read only",
}

// Options configures the demo model.
type Options struct {
	Store  Store
	Config *config.Config

	// Activation and Deactivation override the per-field config when set.
	Activation   *editable.Activation
	Deactivation *editable.Deactivation
	SelectAll    bool

	// FailSaves starts with save failure simulation on.
	FailSaves bool

	// MarkdownStyle is a glamour standard style name. Defaults to "dark".
	MarkdownStyle string
	CursorMode    cursor.Mode

	Logger  *slog.Logger
	Context context.Context
}

type keyMap struct {
	Next       key.Binding
	Prev       key.Binding
	ToggleFail key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Prev:       key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		ToggleFail: key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "toggle failing saves")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// focusMsg is routed after keyboard focus moves so write surfaces see the
// blur right away.
type focusMsg struct{}

// Model is the demo page.
type Model struct {
	ctx     context.Context
	log     *slog.Logger
	ring    *focus.Ring
	mouse   *mouse.Handler
	persist *persister
	keys    keyMap
	help    help.Model
	md      *markdown

	fields []*field
	byName map[string]*field

	status    string
	statusErr bool
	width     int
}

// New builds the page and loads saved values from the store.
func New(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.MarkdownStyle == "" {
		opts.MarkdownStyle = "dark"
	}

	m := &Model{
		ctx:     opts.Context,
		log:     opts.Logger,
		ring:    focus.NewRing(),
		mouse:   mouse.NewHandler(),
		persist: newPersister(opts.Store, opts.Logger),
		keys:    defaultKeyMap(),
		help:    help.New(),
		md:      &markdown{style: opts.MarkdownStyle},
		byName:  make(map[string]*field),
		width:   80,
	}
	m.persist.fail.Store(opts.FailSaves)

	m.addTitle(opts)
	m.addMessage(opts)
	m.addLocked(opts)
	m.resize(m.width)
	return m
}

func (m *Model) sessionOptions(f *field, opts Options) []editable.Option {
	out := []editable.Option{
		editable.WithField(f.name),
		editable.WithFocus(m.ring),
		editable.WithLogger(m.log),
		editable.WithContext(m.ctx),
		editable.WithConfig(opts.Config.Field(f.name)),
		editable.OnSave(func(ctx context.Context, v string, _ *editable.Helpers) error {
			return m.persist.save(ctx, f.name, v)
		}),
		editable.OnSaved(func(v string) {
			f.value = v
			if f.write != nil && !f.write.Controlled() {
				f.write.SetDefaultValue(v)
			}
		}),
	}
	if opts.Activation != nil {
		out = append(out, editable.WithActivation(*opts.Activation))
	}
	if opts.Deactivation != nil {
		out = append(out, editable.WithDeactivation(*opts.Deactivation))
	}
	if opts.SelectAll {
		out = append(out, editable.WithSelectAllOnFocus(true))
	}
	return out
}

func (m *Model) newField(name, label string) *field {
	f := &field{
		name:  name,
		label: label,
		value: m.persist.load(m.ctx, name, defaults[name]),
	}
	m.fields = append(m.fields, f)
	m.byName[name] = f
	return f
}

// addTitle adds an uncontrolled single-line field.
func (m *Model) addTitle(opts Options) {
	f := m.newField(FieldTitle, "Title")
	f.session = editable.New(m.sessionOptions(f, opts)...)
	f.preview = editable.NewPreview(f.session, func() string { return f.value })
	f.preview.Placeholder = "Click to add a title"
	f.write = editable.NewWrite(f.session,
		editable.WithDefaultValue(f.value),
		editable.WithCursorMode(opts.CursorMode),
		editable.WithCharLimit(120),
		editable.WithInputWidth(60),
	)
}

// addMessage adds a controlled multi-line field with a markdown preview
// and explicit triggers.
func (m *Model) addMessage(opts Options) {
	f := m.newField(FieldMessage, "Message")
	f.draft = f.value

	sopts := append(m.sessionOptions(f, opts),
		editable.OnEnter(func() { f.draft = f.value }),
		editable.OnCancel(func() { f.draft = f.value }),
	)
	f.session = editable.New(sopts...)
	f.preview = editable.NewPreview(f.session, func() string { return f.value })
	f.preview.Placeholder = "Click to write a message"
	f.preview.Render = m.md.render
	f.write = editable.NewWrite(f.session,
		editable.Multiline(5),
		editable.WithControlledValue(
			func() string { return f.draft },
			func(v string) { f.draft = v },
		),
		editable.WithCursorMode(opts.CursorMode),
		editable.WithPlaceholder("Markdown"),
		editable.WithInputWidth(60),
	)
	f.edit = editable.NewTrigger(f.session, editable.EditTrigger, "Edit")
	f.save = editable.NewTrigger(f.session, editable.SaveTrigger, "Save")
	f.cancel = editable.NewTrigger(f.session, editable.CancelTrigger, "Cancel")
	f.controls = editable.NewControls(f.session)
}

// addLocked adds a field that never enters edit mode.
func (m *Model) addLocked(opts Options) {
	f := m.newField(FieldLocked, "Locked")
	f.session = editable.New(append(m.sessionOptions(f, opts), editable.WithDisabled(true))...)
	f.preview = editable.NewPreview(f.session, func() string { return f.value })
}

// SetSender lets save helpers reach the program directly.
func (m *Model) SetSender(snd editable.Sender) {
	for _, f := range m.fields {
		f.session.SetSender(snd)
	}
}

// Value returns the committed value of a field.
func (m *Model) Value(name string) string {
	if f, ok := m.byName[name]; ok {
		return f.value
	}
	return ""
}

// Editing reports whether a field is in edit mode.
func (m *Model) Editing(name string) bool {
	f, ok := m.byName[name]
	return ok && f.session.IsEditing()
}

// Status returns the status line text and whether it reports an error.
func (m *Model) Status() (string, bool) {
	return m.status, m.statusErr
}

// Init starts cursor blinking for fields that begin in edit mode.
func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, f := range m.fields {
		if f.write != nil {
			cmds = append(cmds, f.write.Init())
		}
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.ring.Next()
			return m, m.route(focusMsg{})
		case key.Matches(msg, m.keys.Prev):
			m.ring.Prev()
			return m, m.route(focusMsg{})
		case key.Matches(msg, m.keys.ToggleFail):
			if m.persist.toggleFail() {
				m.setStatus("saves will fail", true)
			} else {
				m.setStatus("saves will succeed", false)
			}
			return m, nil
		}
		return m, m.route(msg)

	case tea.MouseMsg:
		act := m.mouse.HandleMouse(msg)
		if act.Type == mouse.ActionNone {
			return m, nil
		}
		if act.Type == mouse.ActionClick || act.Type == mouse.ActionDoubleClick {
			m.clickFocus(act.RegionID())
		}
		return m, m.route(act)

	case editable.SaveDoneMsg:
		m.saved(msg)
		return m, nil
	}

	return m, m.route(msg)
}

// route hands msg to each field until one consumes it.
func (m *Model) route(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, f := range m.fields {
		ok, cmd := f.update(msg)
		cmds = append(cmds, cmd)
		if ok {
			break
		}
	}
	return tea.Batch(cmds...)
}

// clickFocus moves focus the way a pointer press does: onto the pressed
// target if it takes focus, otherwise away from everything. Triggers keep
// focus where it is.
func (m *Model) clickFocus(id string) {
	for _, f := range m.fields {
		if f.isTrigger(id) {
			return
		}
	}
	if id != "" && m.ring.Tabbable(id) {
		m.ring.Focus(id)
		return
	}
	m.ring.Blur()
}

func (m *Model) saved(msg editable.SaveDoneMsg) {
	f, ok := m.byName[msg.Field]
	if !ok {
		return
	}
	if msg.Err != nil {
		m.log.Warn("save failed", "field", msg.Field, "err", msg.Err)
		m.setStatus(msg.Err.Error(), true)
		return
	}

	m.log.Info("saved", "field", msg.Field)
	m.setStatus("saved "+f.label, false)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

func (m *Model) resize(width int) {
	if width <= 0 {
		return
	}
	m.width = width
	m.help.Width = width
	inner := max(width-2, 10)
	for _, f := range m.fields {
		f.preview.Width = inner
	}
}
