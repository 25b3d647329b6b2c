package cli

import "github.com/charmbracelet/lipgloss"

// Output styles shared by the commands. lipgloss drops colour when stdout is not a terminal.
var (
	HeadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	FailureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(20)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Field renders an aligned "label value" line.
func Field(label, value string) string {
	return LabelStyle.Render(label) + " " + value
}
