package demo

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/marcus/editable/pkg/editable"
)

// surface is anything the model routes messages to.
type surface interface {
	Update(tea.Msg) (bool, tea.Cmd)
}

// field is one click-to-edit value on the demo page.
type field struct {
	name  string
	label string
	value string

	// draft backs controlled write surfaces.
	draft string

	session  *editable.Session
	preview  *editable.Preview
	write    *editable.Write
	edit     *editable.Trigger
	save     *editable.Trigger
	cancel   *editable.Trigger
	controls *editable.Controls
}

// surfaces returns the field's surfaces in routing order.
func (f *field) surfaces() []surface {
	out := []surface{f.preview}
	if f.write != nil {
		out = append(out, f.write)
	}
	for _, t := range []*editable.Trigger{f.edit, f.save, f.cancel} {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

// update routes msg to the session and then to the surfaces, stopping at
// the first surface that consumes it.
func (f *field) update(msg tea.Msg) (bool, tea.Cmd) {
	cmds := []tea.Cmd{f.session.Update(msg)}
	for _, s := range f.surfaces() {
		ok, cmd := s.Update(msg)
		cmds = append(cmds, cmd)
		if ok {
			return true, tea.Batch(cmds...)
		}
	}
	return false, tea.Batch(cmds...)
}

func (f *field) isTrigger(id string) bool {
	for _, t := range []*editable.Trigger{f.edit, f.save, f.cancel} {
		if t != nil && t.ID() == id {
			return true
		}
	}
	return false
}

// markdown renders previews through glamour, caching one renderer per
// width.
type markdown struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

func (md *markdown) render(value string, width int) string {
	if width <= 0 {
		width = 60
	}
	if md.renderer == nil || md.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(md.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return value
		}
		md.renderer, md.width = r, width
	}

	out, err := md.renderer.Render(value)
	if err != nil {
		return value
	}
	return strings.Trim(out, "\n")
}
