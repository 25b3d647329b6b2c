// Package formpage drives the live booking page through a browser driver and reads
// its state back in the validator's terms.
package formpage

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/julianstephens/carddelivery/internal/booking"
	"github.com/julianstephens/carddelivery/internal/catalog"
	"github.com/julianstephens/carddelivery/internal/dates"
	"github.com/julianstephens/carddelivery/internal/logger"
	"github.com/julianstephens/carddelivery/internal/rules"
	"github.com/julianstephens/carddelivery/internal/validation"
)

// ErrUnknownMessage is returned when a field shows text that is not in the catalog.
var ErrUnknownMessage = errors.New("field shows a message that is not in the catalog")

// maxMonthSteps bounds date picker navigation.
const maxMonthSteps = 24

// Driver is the browser automation the page object needs. Element lookup and
// waiting belong to the implementation; selectors are CSS.
type Driver interface {
	Open(url string) error
	Fill(selector, value string) error
	Clear(selector string) error
	Click(selector string) error
	// ClickText clicks the first element matching selector whose text is exactly text.
	ClickText(selector, text string) error
	Text(selector string) (string, error)
	Texts(selector string) ([]string, error)
	Value(selector string) (string, error)
	Visible(selector string) (bool, error)
	Exists(selector string) (bool, error)
	WaitVisible(selector string, timeout time.Duration) error
}

// Page is the booking form as seen through a Driver.
type Page struct {
	driver   Driver
	baseURL  string
	catalog  *catalog.Catalog
	resolver *dates.Resolver
}

func New(driver Driver, baseURL string, cat *catalog.Catalog, resolver *dates.Resolver) *Page {
	return &Page{
		driver:   driver,
		baseURL:  baseURL,
		catalog:  cat,
		resolver: resolver,
	}
}

func (p *Page) Open() error {
	if err := p.driver.Open(p.baseURL); err != nil {
		return fmt.Errorf("failed to open %s: %w", p.baseURL, err)
	}
	return nil
}

// FillForm types every field and ticks the agreement box when accepted.
// The date field is cleared first because the page pre-fills it.
func (p *Page) FillForm(in validation.FormInput) error {
	steps := []struct {
		selector string
		value    string
	}{
		{CitySelector, in.City},
		{DateSelector, in.Date},
		{NameSelector, in.Name},
		{PhoneSelector, in.Phone},
	}
	for _, s := range steps {
		if s.selector == DateSelector {
			if err := p.driver.Clear(s.selector); err != nil {
				return fmt.Errorf("failed to clear %s: %w", s.selector, err)
			}
		}
		if err := p.driver.Fill(s.selector, s.value); err != nil {
			return fmt.Errorf("failed to fill %s: %w", s.selector, err)
		}
	}
	if in.AgreementAccepted {
		if err := p.driver.Click(AgreementSelector); err != nil {
			return fmt.Errorf("failed to tick agreement: %w", err)
		}
	}
	return nil
}

// Submit presses the booking button after checking its label.
func (p *Page) Submit() error {
	label, err := p.driver.Text(ButtonSelector)
	if err != nil {
		return fmt.Errorf("failed to read submit button: %w", err)
	}
	if label != p.catalog.UI.SubmitButton {
		return fmt.Errorf("submit button reads %q, want %q", label, p.catalog.UI.SubmitButton)
	}
	return p.driver.Click(ButtonSelector)
}

// Book fills and submits the form in one step.
func (p *Page) Book(in validation.FormInput) error {
	if err := p.FillForm(in); err != nil {
		return err
	}
	return p.Submit()
}

// Result reads the highlighted fields back into a validation result.
func (p *Page) Result() (validation.ValidationResult, error) {
	result := validation.ValidationResult{Errors: map[validation.Field]rules.Key{}}
	for _, f := range validation.Fields {
		sel := invalidSelectors[f]
		ok, err := p.driver.Exists(sel)
		if err != nil {
			return result, fmt.Errorf("failed to inspect %s: %w", f, err)
		}
		if !ok {
			continue
		}
		if f == validation.FieldAgreement {
			result.Errors[f] = rules.NotAccepted
			continue
		}

		text, err := p.driver.Text(sel)
		if err != nil {
			return result, fmt.Errorf("failed to read %s error: %w", f, err)
		}
		key, found := p.catalog.Lookup(text)
		if !found {
			return result, fmt.Errorf("%w: %s: %q", ErrUnknownMessage, f, text)
		}
		result.Errors[f] = key
	}
	return result, nil
}

// Notification returns the success notification, or nil when it is not shown.
func (p *Page) Notification() (*booking.Notification, error) {
	visible, err := p.driver.Visible(NotificationTitleSelector)
	if err != nil || !visible {
		return nil, err
	}
	return p.readNotification()
}

// AwaitNotification waits up to timeout for the success notification.
func (p *Page) AwaitNotification(timeout time.Duration) (*booking.Notification, error) {
	if err := p.driver.WaitVisible(NotificationTitleSelector, timeout); err != nil {
		return nil, fmt.Errorf("notification did not appear: %w", err)
	}
	return p.readNotification()
}

func (p *Page) readNotification() (*booking.Notification, error) {
	title, err := p.driver.Text(NotificationTitleSelector)
	if err != nil {
		return nil, err
	}
	content, err := p.driver.Text(NotificationContentSelector)
	if err != nil {
		return nil, err
	}
	return &booking.Notification{Title: title, Content: content}, nil
}

// SuggestCity types query into the city field and returns the dropdown entries.
// A hidden dropdown yields none.
func (p *Page) SuggestCity(query string) ([]string, error) {
	if err := p.driver.Fill(CitySelector, query); err != nil {
		return nil, err
	}
	visible, err := p.driver.Visible(CityPopupSelector)
	if err != nil || !visible {
		return nil, err
	}
	return p.driver.Texts(CityMenuItemSelector)
}

// SelectCity types query and picks city from the dropdown. It returns the field value.
func (p *Page) SelectCity(query, city string) (string, error) {
	if _, err := p.SuggestCity(query); err != nil {
		return "", err
	}
	if err := p.driver.ClickText(CityMenuItemSelector, city); err != nil {
		return "", fmt.Errorf("failed to pick %q: %w", city, err)
	}
	return p.driver.Value(CitySelector)
}

// PickDateAhead picks the day days ahead of today in the date picker and returns
// the field value.
func (p *Page) PickDateAhead(days int) (string, error) {
	target := p.resolver.Ahead(days)

	if err := p.driver.Click(CalendarIconSelector); err != nil {
		return "", fmt.Errorf("failed to open date picker: %w", err)
	}
	title, err := p.driver.Text(CalendarNameSelector)
	if err != nil {
		return "", err
	}
	shown, err := dates.ParseMonthTitle(title)
	if err != nil {
		return "", err
	}

	steps := dates.MonthSteps(shown, target)
	if steps < 0 || steps > maxMonthSteps {
		return "", fmt.Errorf("date picker shows %q, cannot reach %s", title, dates.MonthTitle(target))
	}
	logger.Debug("Navigating date picker", "shown", title, "target", dates.Format(target), "steps", steps)
	for range steps {
		if err := p.driver.Click(CalendarNextSelector); err != nil {
			return "", fmt.Errorf("failed to move to next month: %w", err)
		}
	}

	if err := p.driver.ClickText(CalendarDaySelector, strconv.Itoa(target.Day())); err != nil {
		return "", fmt.Errorf("failed to pick day %d: %w", target.Day(), err)
	}
	return p.driver.Value(DateSelector)
}
