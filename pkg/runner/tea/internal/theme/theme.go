package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Crumb    lipgloss.Style
	Title    lipgloss.Style
	Pane     PaneTheme
	Footer   FooterTheme
	Confirm  lipgloss.Style
	Dragging lipgloss.Style
}

// PaneTheme groups styles used by the folder and favorites columns.
type PaneTheme struct {
	Header        lipgloss.Style
	HeaderFocused lipgloss.Style
	Item          lipgloss.Style
	Selected      lipgloss.Style
	Position      lipgloss.Style
	Star          lipgloss.Style
	Empty         lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Mode   lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	header := lipgloss.NewStyle().Bold(true)
	return Theme{
		Crumb: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Title: lipgloss.NewStyle().Bold(true).Underline(true),
		Pane: PaneTheme{
			Header:        header.Foreground(lipgloss.Color("245")),
			HeaderFocused: header.Foreground(lipgloss.Color("212")),
			Item:          lipgloss.NewStyle(),
			Selected:      lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Position:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			Star:          lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
			Empty:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			Mode:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		},
		Confirm:  lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 2).Foreground(lipgloss.Color("203")),
		Dragging: lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
	}
}
