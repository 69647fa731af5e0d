package editable

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/editable/pkg/mouse"
)

// Preview is the read-only rendering of a field. It is mounted while the
// session is previewing and turns activation gestures into Session.Enter.
type Preview struct {
	s     *Session
	id    string
	value func() string

	Keys   KeyMap
	Styles Styles

	// Placeholder is shown when the value is empty.
	Placeholder string
	// Width truncates the rendered value when positive. Ignored when
	// Render is set.
	Width int
	// Render replaces the plain rendering, e.g. with markdown.
	Render func(value string, width int) string

	// Caller handlers run before the session is told to enter edit mode.
	OnClick       func() tea.Cmd
	OnDoubleClick func() tea.Cmd
	OnKey         func(tea.KeyMsg) tea.Cmd

	hover bool
}

// NewPreview creates the preview surface of s. value supplies the text to
// show; it is usually the caller's copy of the field.
func NewPreview(s *Session, value func() string) *Preview {
	mustSession(s, "Preview")
	p := &Preview{
		s:      s,
		id:     s.field + ".preview",
		value:  value,
		Keys:   DefaultKeyMap(),
		Styles: DefaultStyles(),
	}
	s.setPreviewTarget(p.id, p.tabbable())
	s.subscribe(p.sync)
	p.sync(s.editing)
	return p
}

// ID is the focus and hit-map id of the preview.
func (p *Preview) ID() string { return p.id }

// Mounted reports whether the preview is currently rendered.
func (p *Preview) Mounted() bool { return !p.s.editing }

// tabbable is true when the preview must be reachable by keyboard to
// receive the enter-key gesture.
func (p *Preview) tabbable() bool {
	return p.s.Activation().Has(ActivateEnterKey)
}

func (p *Preview) sync(editing bool) tea.Cmd {
	if editing {
		p.hover = false
		p.s.focus.Detach(p.id)
		return nil
	}
	p.s.focus.Attach(p.id, p.tabbable())
	return nil
}

// Update handles mouse actions on the preview's region and keys while it
// is focused. It reports whether the message was consumed.
func (p *Preview) Update(msg tea.Msg) (bool, tea.Cmd) {
	if p.s.editing {
		return false, nil
	}
	act := p.s.Activation()

	switch msg := msg.(type) {
	case mouse.Action:
		if msg.RegionID() != p.id {
			if msg.Type == mouse.ActionHover {
				p.hover = false
			}
			return false, nil
		}

		var cmds []tea.Cmd
		switch msg.Type {
		case mouse.ActionHover:
			p.hover = true
			return false, nil

		case mouse.ActionClick:
			if p.OnClick != nil {
				cmds = append(cmds, p.OnClick())
			}
			if act.Has(ActivateClick) {
				cmds = append(cmds, p.s.Enter())
			}
			return true, tea.Batch(cmds...)

		case mouse.ActionDoubleClick:
			// The second press of a double-click is also a click.
			if p.OnClick != nil {
				cmds = append(cmds, p.OnClick())
			}
			if p.OnDoubleClick != nil {
				cmds = append(cmds, p.OnDoubleClick())
			}
			if act.Has(ActivateDoubleClick) || act.Has(ActivateClick) {
				cmds = append(cmds, p.s.Enter())
			}
			return true, tea.Batch(cmds...)
		}

	case tea.KeyMsg:
		if p.s.focus.Focused() != p.id {
			return false, nil
		}

		var cmds []tea.Cmd
		if p.OnKey != nil {
			cmds = append(cmds, p.OnKey(msg))
		}
		if act.Has(ActivateEnterKey) && key.Matches(msg, p.Keys.Activate) {
			// Consuming the key keeps space from scrolling the page.
			cmds = append(cmds, p.s.Enter())
			return true, tea.Batch(cmds...)
		}
		return false, tea.Batch(cmds...)
	}

	return false, nil
}

// View renders the preview, or nothing while editing.
func (p *Preview) View() string {
	if p.s.editing {
		return ""
	}

	var v string
	if p.value != nil {
		v = p.value()
	}

	if v == "" {
		return p.style(p.Styles.Placeholder).Render(p.Placeholder)
	}

	text := v
	switch {
	case p.Render != nil:
		return p.Render(v, p.Width)
	case p.Width > 0:
		text = ansi.Truncate(v, p.Width, "…")
	}
	return p.style(p.Styles.Preview).Render(text)
}

func (p *Preview) style(base lipgloss.Style) lipgloss.Style {
	switch {
	case p.s.disabled:
		return p.Styles.PreviewDisabled
	case p.s.focus.Focused() == p.id:
		return p.Styles.PreviewFocused
	case p.hover:
		return p.Styles.PreviewHover
	}
	return base
}
