package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/carddelivery/internal/booking"
	"github.com/julianstephens/carddelivery/internal/tui/components/bookinglist"
	"github.com/julianstephens/carddelivery/internal/validation"
)

// bookedMsg carries the result of a submission started from the form.
type bookedMsg struct {
	outcome booking.Outcome
	err     error
}

func (m Model) submit(input validation.FormInput) tea.Cmd {
	svc := m.opts.Service
	return func() tea.Msg {
		outcome, err := svc.Book(context.Background(), input)
		return bookedMsg{outcome: outcome, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.history.SetSize(msg.Width-4, msg.Height-6)
		m.result.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case bookedMsg:
		if msg.err != nil {
			m.result.SetError(msg.err)
		} else {
			m.result.SetOutcome(msg.outcome)
			m.accepted = msg.outcome.Accepted()
		}
		m.reloadHistory()
		m.state = StateResult
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case StateForm:
		return m.updateForm(msg)
	case StateConfirm:
		return m.updateConfirm(msg)
	case StateResult:
		return m.updateResult(msg)
	case StateHistory:
		return m.updateHistory(msg)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Back) {
		m.state = StateHistory
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = StateSubmitting
		return m, m.submit(m.formData.Input())
	case huh.StateAborted:
		m.state = StateHistory
		return m, nil
	}
	return m, cmd
}

func (m Model) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Enter):
			return m, m.startForm()
		case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.Back):
			m.state = StateHistory
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.result, cmd = m.result.Update(msg)
	return m, cmd
}

func (m Model) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			return m, m.startForm()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case bookinglist.NewBookingMsg:
		return m, m.startForm()

	case bookinglist.CancelBookingMsg:
		id := msg.ID
		m.ask(fmt.Sprintf("Cancel booking %s?", short(id)), func() error {
			return m.opts.Store.CancelBooking(id)
		})
		return m, nil

	case bookinglist.RestoreBookingMsg:
		id := msg.ID
		m.ask(fmt.Sprintf("Restore booking %s?", short(id)), func() error {
			return m.opts.Store.RestoreBooking(id)
		})
		return m, nil
	}

	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

func (m *Model) ask(prompt string, action func() error) {
	m.confirmPrompt = prompt
	m.pending = action
	m.state = StateConfirm
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, m.keys.Confirm):
		m.status = ""
		if m.pending != nil {
			if err := m.pending(); err != nil {
				m.status = "⚠ " + err.Error()
			}
		}
		m.reloadHistory()
	case key.Matches(km, m.keys.Deny):
	default:
		return m, nil
	}
	m.pending = nil
	m.confirmPrompt = ""
	m.state = StateHistory
	return m, nil
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
