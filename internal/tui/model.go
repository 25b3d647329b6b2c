// Package tui is the interactive booking front end.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/carddelivery/internal/booking"
	"github.com/julianstephens/carddelivery/internal/catalog"
	"github.com/julianstephens/carddelivery/internal/cities"
	"github.com/julianstephens/carddelivery/internal/dates"
	"github.com/julianstephens/carddelivery/internal/logger"
	"github.com/julianstephens/carddelivery/internal/models"
	"github.com/julianstephens/carddelivery/internal/storage"
	"github.com/julianstephens/carddelivery/internal/tui/components/bookinglist"
	"github.com/julianstephens/carddelivery/internal/tui/components/result"
	"github.com/julianstephens/carddelivery/internal/validation"
)

type SessionState int

const (
	StateForm SessionState = iota
	StateHistory
	StateSubmitting
	StateResult
	StateConfirm
)

// Options carries the collaborators of the TUI.
type Options struct {
	Service   *booking.Service
	Store     storage.Provider
	Validator *validation.Validator
	Cities    *cities.Set
	Catalog   *catalog.Catalog
	Resolver  *dates.Resolver
}

type Model struct {
	opts     Options
	state    SessionState
	keys     KeyMap
	help     help.Model
	form     *huh.Form
	formData *FormModel
	history  bookinglist.Model
	result   result.Model
	accepted bool
	quitting bool
	width    int
	height   int

	confirmPrompt string
	pending       func() error
	status        string
}

func NewModel(opts Options) Model {
	m := Model{
		opts:     opts,
		state:    StateForm,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		formData: &FormModel{},
		history:  bookinglist.New(nil, 0, 0),
		result:   result.New(opts.Catalog, 0, 0),
	}
	m.form = m.newBookingForm(m.formData)
	m.reloadHistory()
	return m
}

func (m *Model) reloadHistory() {
	bookings, err := m.opts.Store.GetAllBookings(true)
	if err != nil {
		logger.Warn("Failed to load bookings", "error", err)
		m.status = "⚠ Journal unavailable: " + err.Error()
		bookings = []models.Booking{}
	}
	m.history.SetBookings(bookings)
}

// startForm opens a fresh form. A rejected attempt keeps its values so they can be fixed.
func (m *Model) startForm() tea.Cmd {
	if m.accepted {
		m.formData = &FormModel{}
		m.accepted = false
	}
	m.form = m.newBookingForm(m.formData)
	m.state = StateForm
	return m.form.Init()
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateForm:
		return []key.Binding{m.keys.Back}
	case StateConfirm:
		return []key.Binding{m.keys.Confirm, m.keys.Deny}
	case StateResult:
		return []key.Binding{m.keys.Enter, m.keys.Tab, m.keys.Quit}
	}
	keys := m.keys.ShortHelp()
	bl := bookinglist.DefaultKeyMap()
	return append(keys, bl.New, bl.Cancel, bl.Restore)
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{m.ShortHelp(), {m.keys.Help}}
}

func (m Model) Init() tea.Cmd {
	return m.form.Init()
}
