package editable

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the keys the binder reacts to. Which of them are live is
// decided by the session's activation and deactivation sets.
type KeyMap struct {
	// Activate starts editing from a focused preview, or presses a
	// focused trigger.
	Activate key.Binding
	// Cancel leaves the write surface without saving.
	Cancel key.Binding
	// Save is plain Enter on the write surface.
	Save key.Binding
	// ModSave is Enter with a modifier held.
	ModSave key.Binding
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Activate: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "edit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Save: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		ModSave: key.NewBinding(
			key.WithKeys("alt+enter"),
			key.WithHelp("alt+enter", "save"),
		),
	}
}

// WriteHelp returns the bindings active on a write surface, for a help
// line.
func (k KeyMap) WriteHelp(d Deactivation) []key.Binding {
	var out []key.Binding
	if d.Has(DeactivateEnterKey) {
		out = append(out, k.Save)
	}
	if d.Has(DeactivateModEnterKey) {
		out = append(out, k.ModSave)
	}
	if d.Has(DeactivateEscapeKey) {
		out = append(out, k.Cancel)
	}
	return out
}
