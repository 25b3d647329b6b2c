package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateForm:
		content = docStyle.Render(m.form.View())
	case StateSubmitting:
		content = docStyle.Render(hintStyle.Render("Submitting…"))
	case StateResult:
		content = docStyle.Render(m.result.View())
	case StateHistory:
		content = docStyle.Render(m.history.View())
	case StateConfirm:
		content = m.viewConfirm()
	}

	parts := []string{m.viewTabs(), content}
	if m.status != "" {
		parts = append(parts, warningStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	active := 0
	if m.state == StateHistory || m.state == StateConfirm {
		active = 1
	}
	var tabs []string
	for i, title := range []string{m.opts.Catalog.UI.SubmitButton, "History"} {
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewConfirm() string {
	return lipgloss.Place(m.width, max(m.height-4, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(m.confirmPrompt),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
