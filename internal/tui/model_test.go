package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/carddelivery/internal/booking"
	"github.com/julianstephens/carddelivery/internal/catalog"
	"github.com/julianstephens/carddelivery/internal/cities"
	"github.com/julianstephens/carddelivery/internal/dates"
	"github.com/julianstephens/carddelivery/internal/storage/sqlite"
	"github.com/julianstephens/carddelivery/internal/tui/components/bookinglist"
	"github.com/julianstephens/carddelivery/internal/validation"
)

func setupModel(t *testing.T) Model {
	t.Helper()
	resolver := dates.NewResolverWithClock(dates.ClockFunc(func() time.Time {
		return time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)
	}), time.UTC)
	allowed := cities.Default()
	cat := catalog.Default()
	validator := validation.New(resolver, allowed)

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "journal.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewModel(Options{
		Service:   booking.NewService(validator, booking.NewStoreSubmitter(store, resolver), cat),
		Store:     store,
		Validator: validator,
		Cities:    allowed,
		Catalog:   cat,
		Resolver:  resolver,
	})
}

func validForm() validation.FormInput {
	return validation.FormInput{
		City:              "Казань",
		Date:              "19.10.2026",
		Name:              "Петров Пётр",
		Phone:             "+79001122333",
		AgreementAccepted: true,
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	got, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return got
}

func TestFieldError(t *testing.T) {
	m := setupModel(t)

	tests := []struct {
		field validation.Field
		value string
		want  string
	}{
		{validation.FieldCity, "Казань", ""},
		{validation.FieldCity, "", "Поле обязательно для заполнения"},
		{validation.FieldCity, "Ростов на дону", "Доставка в выбранный город недоступна"},
		{validation.FieldDate, "32.08.2024", "Неверно введена дата"},
		{validation.FieldDate, "18.10.2026", "Заказ на выбранную дату невозможен"},
		{validation.FieldDate, "19.10.2026", ""},
		{validation.FieldName, "Ivanov Ivan", "Имя и Фамилия указаные неверно. Допустимы только русские буквы, пробелы и дефисы."},
		{validation.FieldPhone, "79001122333", "Телефон указан неверно. Должно быть 11 цифр, например, +79012345678."},
		{validation.FieldPhone, "+79001122333", ""},
	}
	for _, tt := range tests {
		err := m.textCheck(tt.field)(tt.value)
		got := ""
		if err != nil {
			got = err.Error()
		}
		if got != tt.want {
			t.Errorf("%s %q: got %q, want %q", tt.field, tt.value, got, tt.want)
		}
	}

	if err := m.fieldError(validation.FieldAgreement, validation.FormInput{}); err == nil || err.Error() != "not_accepted" {
		t.Errorf("agreement error = %v, want not_accepted", err)
	}
}

func TestBookedMsg_Accepted(t *testing.T) {
	m := setupModel(t)
	*m.formData = FormModel{City: "Казань", Date: "19.10.2026", Name: "Петров Пётр", Phone: "+79001122333", Agree: true}

	m = update(t, m, m.submit(m.formData.Input())())
	if m.state != StateResult {
		t.Fatalf("state = %v, want StateResult", m.state)
	}
	content := m.result.Content()
	if !strings.Contains(content, "Успешно!") || !strings.Contains(content, "Встреча успешно забронирована на 19.10.2026") {
		t.Errorf("result content = %q", content)
	}

	bookings, err := m.opts.Store.GetAllBookings(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(bookings) != 1 {
		t.Fatalf("journal has %d bookings, want 1", len(bookings))
	}
	if _, ok := m.history.Selected(); !ok {
		t.Error("history was not reloaded after booking")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != StateForm {
		t.Errorf("state = %v, want StateForm", m.state)
	}
	if m.formData.City != "" {
		t.Error("form should be cleared after an accepted booking")
	}
}

func TestBookedMsg_Rejected(t *testing.T) {
	m := setupModel(t)
	in := validForm()
	in.Phone = "8900"
	m.formData.Phone = in.Phone

	m = update(t, m, m.submit(in)())
	if !strings.Contains(m.result.Content(), "Телефон указан неверно") {
		t.Errorf("result content = %q", m.result.Content())
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.formData.Phone != "8900" {
		t.Error("rejected values should stay in the form")
	}
}

func TestBookedMsg_Error(t *testing.T) {
	m := setupModel(t)
	m = update(t, m, bookedMsg{err: &booking.SubmissionError{Reason: "backend error", Err: errors.New("down")}})
	if !strings.Contains(m.result.Content(), "Booking failed") || !strings.Contains(m.result.Content(), "down") {
		t.Errorf("result content = %q", m.result.Content())
	}
}

func TestHistoryCancelConfirm(t *testing.T) {
	m := setupModel(t)
	m = update(t, m, m.submit(validForm())())

	b, ok := m.history.Selected()
	if !ok {
		t.Fatal("no booking in history")
	}
	m.state = StateHistory

	m = update(t, m, bookinglist.CancelBookingMsg{ID: b.ID})
	if m.state != StateConfirm || !strings.Contains(m.confirmPrompt, short(b.ID)) {
		t.Fatalf("state = %v, prompt = %q", m.state, m.confirmPrompt)
	}

	m = update(t, m, runes("n"))
	if m.state != StateHistory {
		t.Fatalf("state after deny = %v", m.state)
	}
	if got, _ := m.opts.Store.GetBooking(b.ID); got.CancelledAt != nil {
		t.Fatal("booking cancelled after deny")
	}

	m = update(t, m, bookinglist.CancelBookingMsg{ID: b.ID})
	m = update(t, m, runes("y"))
	got, err := m.opts.Store.GetBooking(b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.CancelledAt == nil {
		t.Error("booking not cancelled after confirm")
	}

	m = update(t, m, bookinglist.RestoreBookingMsg{ID: b.ID})
	m = update(t, m, runes("y"))
	if got, _ := m.opts.Store.GetBooking(b.ID); got.CancelledAt != nil {
		t.Error("booking not restored after confirm")
	}
}

func TestConfirm_ReportsError(t *testing.T) {
	m := setupModel(t)
	m.state = StateHistory
	m = update(t, m, bookinglist.RestoreBookingMsg{ID: "missing"})
	m = update(t, m, runes("y"))
	if !strings.Contains(m.status, "not found") {
		t.Errorf("status = %q", m.status)
	}
}

func TestNavigation(t *testing.T) {
	m := setupModel(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateHistory {
		t.Fatalf("esc in form: state = %v", m.state)
	}
	if !strings.Contains(m.View(), "History") {
		t.Error("view should render tabs")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != StateForm {
		t.Fatalf("tab in history: state = %v", m.state)
	}

	m = update(t, m, runes("q"))
	if m.quitting {
		t.Error("typing q in the form must not quit")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.quitting || m.View() != "" {
		t.Error("ctrl+c should quit")
	}
}

func TestCitySuggestions(t *testing.T) {
	m := setupModel(t)

	tests := []struct {
		typed string
		want  string
	}{
		{"", ""},
		{"к", ""},
		{"ро", "Ростов-на-Дону"},
		{"Ка", "Казань"},
	}
	for _, tt := range tests {
		got := m.citySuggestions(&FormModel{City: tt.typed})
		if tt.want == "" {
			if len(got) != 0 {
				t.Errorf("citySuggestions(%q) = %v, want none", tt.typed, got)
			}
			continue
		}
		found := false
		for _, c := range got {
			found = found || c == tt.want
		}
		if !found {
			t.Errorf("citySuggestions(%q) = %v, want %q among them", tt.typed, got, tt.want)
		}
	}
}
