package demo

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/editable/pkg/editable"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(editable.Primary)

	labelStyle = lipgloss.NewStyle().
			Foreground(editable.Muted)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	statusErrStyle = lipgloss.NewStyle().
			Foreground(editable.Error).
			Bold(true)
)

// page stacks blocks vertically and records their hit regions.
type page struct {
	m     *Model
	lines []string
	y     int
}

func (p *page) add(block, id string) {
	h := lipgloss.Height(block)
	if id != "" && block != "" {
		p.m.mouse.HitMap.AddRect(id, 0, p.y, lipgloss.Width(block), h, nil)
	}
	p.lines = append(p.lines, block)
	p.y += h
}

// View renders the page and rebuilds the hit map.
func (m *Model) View() string {
	m.mouse.HitMap.Clear()
	p := &page{m: m}

	p.add(headerStyle.Render("Click-to-edit demo"), "")
	p.add("", "")

	for _, f := range m.fields {
		p.add(labelStyle.Render(f.label), "")
		if f.session.IsEditing() {
			p.add(f.write.View(), f.write.ID())
		} else {
			p.add(f.preview.View(), f.preview.ID())
		}
		if f.edit != nil {
			m.viewTriggers(p, f)
		}
		p.add("", "")
	}

	if m.status != "" {
		style := statusStyle
		if m.statusErr {
			style = statusErrStyle
		}
		p.add(style.Render(m.status), "")
	}
	p.add(m.help.ShortHelpView(m.helpKeys()), "")

	return strings.Join(p.lines, "\n")
}

func (m *Model) viewTriggers(p *page, f *field) {
	if f.edit.Visible() {
		p.add(f.edit.View(), f.edit.ID())
		return
	}

	save, cancel := f.save.View(), f.cancel.View()
	x := lipgloss.Width(save) + f.controls.Gap
	m.mouse.HitMap.AddRect(f.save.ID(), 0, p.y, lipgloss.Width(save), 1, nil)
	m.mouse.HitMap.AddRect(f.cancel.ID(), x, p.y, lipgloss.Width(cancel), 1, nil)
	p.add(f.controls.View(save, cancel), "")
}

func (m *Model) helpKeys() []key.Binding {
	for _, f := range m.fields {
		if f.session.IsEditing() {
			return append(f.write.Keys.WriteHelp(f.write.Deactivation()), m.keys.Next, m.keys.Quit)
		}
	}

	activate := editable.DefaultKeyMap().Activate
	return []key.Binding{activate, m.keys.Next, m.keys.Prev, m.keys.ToggleFail, m.keys.Quit}
}
