// Package bookinglist is the journal browser of the TUI.
package bookinglist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/carddelivery/internal/dates"
	"github.com/julianstephens/carddelivery/internal/models"
)

type NewBookingMsg struct{}

type CancelBookingMsg struct {
	ID string
}

type RestoreBookingMsg struct {
	ID string
}

type Item struct {
	Booking models.Booking
}

func (i Item) Title() string {
	date := i.Booking.Date
	if d, err := i.Booking.DeliveryDate(); err == nil {
		date = dates.Format(d)
	}
	title := fmt.Sprintf("%s  %s", date, i.Booking.City)
	if i.Booking.CancelledAt != nil {
		return title + " (cancelled)"
	}
	return title
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s | %s", i.Booking.Name, i.Booking.Phone)
	if i.Booking.CancelledAt != nil {
		desc += " | can restore with 'r'"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Booking.City + " " + i.Booking.Name }

type KeyMap struct {
	New     key.Binding
	Cancel  key.Binding
	Restore key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new booking"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "cancel"),
		),
		Restore: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restore"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(bookings []models.Booking, width, height int) Model {
	l := list.New(items(bookings), list.NewDefaultDelegate(), width, height)
	l.Title = "Bookings"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.New, keys.Cancel, keys.Restore}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	return Model{list: l, keys: keys}
}

func items(bookings []models.Booking) []list.Item {
	out := make([]list.Item, len(bookings))
	for i, b := range bookings {
		out[i] = Item{Booking: b}
	}
	return out
}

func (m *Model) SetBookings(bookings []models.Booking) {
	m.list.SetItems(items(bookings))
}

// Selected returns the highlighted booking.
func (m Model) Selected() (models.Booking, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Booking, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.New):
			return m, func() tea.Msg { return NewBookingMsg{} }
		case key.Matches(msg, m.keys.Cancel):
			if b, ok := m.Selected(); ok && b.CancelledAt == nil {
				return m, func() tea.Msg { return CancelBookingMsg{ID: b.ID} }
			}
		case key.Matches(msg, m.keys.Restore):
			if b, ok := m.Selected(); ok && b.CancelledAt != nil {
				return m, func() tea.Msg { return RestoreBookingMsg{ID: b.ID} }
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No bookings yet.\n  Press 'n' to book a delivery."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
