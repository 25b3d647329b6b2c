package formpage

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/julianstephens/carddelivery/internal/booking"
	"github.com/julianstephens/carddelivery/internal/catalog"
	"github.com/julianstephens/carddelivery/internal/cities"
	"github.com/julianstephens/carddelivery/internal/dates"
	"github.com/julianstephens/carddelivery/internal/validation"
)

// fakePage emulates the booking page in memory, rendering errors the way the
// live page does.
type fakePage struct {
	cat       *catalog.Catalog
	resolver  *dates.Resolver
	cities    *cities.Set
	validator *validation.Validator

	url          string
	button       string
	values       map[string]string
	agreed       bool
	invalid      map[string]string
	notification *booking.Notification
	popup        []string
	shown        time.Time
	clicks       []string
}

var _ Driver = (*fakePage)(nil)

func newFakePage(resolver *dates.Resolver) *fakePage {
	cat := catalog.Default()
	allowed := cities.Default()
	return &fakePage{
		cat:       cat,
		resolver:  resolver,
		cities:    allowed,
		validator: validation.New(resolver, allowed),
		button:    cat.UI.SubmitButton,
		values: map[string]string{
			DateSelector: dates.Format(resolver.EarliestBookable()),
		},
		invalid: map[string]string{},
	}
}

func (f *fakePage) input() validation.FormInput {
	return validation.FormInput{
		City:              f.values[CitySelector],
		Date:              f.values[DateSelector],
		Name:              f.values[NameSelector],
		Phone:             f.values[PhoneSelector],
		AgreementAccepted: f.agreed,
	}
}

func (f *fakePage) Open(url string) error {
	f.url = url
	return nil
}

func (f *fakePage) Fill(selector, value string) error {
	f.values[selector] = value
	if selector == CitySelector {
		f.popup = f.cities.Suggest(f.values[selector])
	}
	return nil
}

func (f *fakePage) Clear(selector string) error {
	f.clicks = append(f.clicks, "clear "+selector)
	f.values[selector] = ""
	return nil
}

func (f *fakePage) Click(selector string) error {
	f.clicks = append(f.clicks, selector)
	switch selector {
	case AgreementSelector:
		f.agreed = !f.agreed
	case ButtonSelector:
		f.submit()
	case CalendarIconSelector:
		today := f.resolver.Today()
		f.shown = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	case CalendarNextSelector:
		f.shown = f.shown.AddDate(0, 1, 0)
	default:
		return fmt.Errorf("no element %s", selector)
	}
	return nil
}

func (f *fakePage) submit() {
	f.invalid = map[string]string{}
	f.notification = nil
	result := f.validator.Validate(f.input())
	for _, field := range result.FailedFields() {
		f.invalid[invalidSelectors[field]] = f.cat.Message(result.Errors[field])
	}
	if !result.HasErrors() {
		d, _ := dates.Parse(f.values[DateSelector])
		f.notification = &booking.Notification{Title: f.cat.UI.NotificationTitle, Content: f.cat.Confirmation(d)}
	}
}

func (f *fakePage) ClickText(selector, text string) error {
	switch selector {
	case CityMenuItemSelector:
		if !slices.Contains(f.popup, text) {
			return fmt.Errorf("no menu item %q", text)
		}
		f.values[CitySelector] = text
		f.popup = nil
	case CalendarDaySelector:
		day, err := strconv.Atoi(text)
		if err != nil || day > dates.DaysIn(f.shown.Year(), f.shown.Month()) {
			return fmt.Errorf("no day %q", text)
		}
		f.values[DateSelector] = dates.Format(time.Date(f.shown.Year(), f.shown.Month(), day, 0, 0, 0, 0, time.UTC))
	default:
		return fmt.Errorf("no element %s", selector)
	}
	return nil
}

func (f *fakePage) Text(selector string) (string, error) {
	switch selector {
	case ButtonSelector:
		return f.button, nil
	case CalendarNameSelector:
		return dates.MonthTitle(f.shown), nil
	case NotificationTitleSelector, NotificationContentSelector:
		if f.notification == nil {
			return "", fmt.Errorf("no element %s", selector)
		}
		if selector == NotificationTitleSelector {
			return f.notification.Title, nil
		}
		return f.notification.Content, nil
	}
	if text, ok := f.invalid[selector]; ok {
		return text, nil
	}
	return "", fmt.Errorf("no element %s", selector)
}

func (f *fakePage) Texts(selector string) ([]string, error) {
	if selector != CityMenuItemSelector {
		return nil, nil
	}
	return slices.Clone(f.popup), nil
}

func (f *fakePage) Value(selector string) (string, error) {
	return f.values[selector], nil
}

func (f *fakePage) Visible(selector string) (bool, error) {
	switch selector {
	case NotificationTitleSelector:
		return f.notification != nil, nil
	case CityPopupSelector:
		return len(f.popup) > 0, nil
	}
	return f.Exists(selector)
}

func (f *fakePage) Exists(selector string) (bool, error) {
	_, ok := f.invalid[selector]
	return ok, nil
}

func (f *fakePage) WaitVisible(selector string, _ time.Duration) error {
	if ok, _ := f.Visible(selector); !ok {
		return fmt.Errorf("timeout waiting for %s", selector)
	}
	return nil
}
