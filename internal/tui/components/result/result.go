// Package result shows the outcome of a booking attempt.
package result

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/carddelivery/internal/booking"
	"github.com/julianstephens/carddelivery/internal/catalog"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)
)

type Model struct {
	viewport viewport.Model
	catalog  *catalog.Catalog
	content  string
}

func New(cat *catalog.Catalog, width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		catalog:  cat,
	}
}

// SetOutcome renders an accepted booking or the field failures of a rejected form.
func (m *Model) SetOutcome(outcome booking.Outcome) {
	var b strings.Builder
	if outcome.Accepted() {
		b.WriteString(titleStyle.Render(outcome.Notification.Title))
		b.WriteString("\n\n")
		b.WriteString(outcome.Notification.Content)
		b.WriteString("\n\n")
		b.WriteString(idStyle.Render(outcome.Confirmation.BookingID))
	} else {
		b.WriteString(failStyle.Render("✗ Form has errors"))
		b.WriteString("\n")
		for _, f := range outcome.Result.FailedFields() {
			key := outcome.Result.Errors[f]
			msg := m.catalog.Message(key)
			if msg == "" {
				msg = string(key)
			}
			b.WriteString("\n")
			b.WriteString(fieldStyle.Render(string(f)))
			b.WriteString(msg)
		}
	}
	m.setContent(b.String())
}

// SetError renders a submission failure.
func (m *Model) SetError(err error) {
	m.setContent(failStyle.Render("✗ Booking failed") + "\n\n" + err.Error())
}

func (m *Model) setContent(s string) {
	m.content = s
	m.viewport.SetContent(s)
	m.viewport.GotoTop()
}

// Content returns the rendered text without viewport clipping.
func (m Model) Content() string {
	return m.content
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
}
