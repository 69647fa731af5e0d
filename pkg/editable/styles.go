package editable

import "github.com/charmbracelet/lipgloss"

// Colors shared by the surfaces.
var (
	Primary = lipgloss.Color("212")
	Error   = lipgloss.Color("196")
	Muted   = lipgloss.Color("241")
)

// Styles groups the lipgloss styles a surface renders with. Replace fields
// to theme a single surface.
type Styles struct {
	Preview         lipgloss.Style
	PreviewFocused  lipgloss.Style
	PreviewHover    lipgloss.Style
	PreviewDisabled lipgloss.Style
	Placeholder     lipgloss.Style
	Selection       lipgloss.Style

	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonDisabled lipgloss.Style
}

// DefaultStyles returns the stock style set.
func DefaultStyles() Styles {
	return Styles{
		Preview: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		PreviewFocused: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Underline(true),

		PreviewHover: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("237")),

		PreviewDisabled: lipgloss.NewStyle().
			Foreground(Muted).
			Faint(true),

		Placeholder: lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true),

		Selection: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(Primary),

		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238")).
			Padding(0, 1),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(Primary).
			Bold(true).
			Padding(0, 1),

		ButtonDisabled: lipgloss.NewStyle().
			Foreground(Muted).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
	}
}
