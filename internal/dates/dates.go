// Package dates resolves booking dates relative to today and converts them to and
// from the dd.MM.yyyy form used by the delivery form.
//
// A date is a time.Time at midnight UTC. Only the calendar day is significant.
package dates

import (
	"fmt"
	"time"

	"github.com/julianstephens/carddelivery/internal/constants"
)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now returns f().
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the system clock.
var SystemClock Clock = ClockFunc(time.Now)

// ParseError reports text that is not a valid dd.MM.yyyy calendar date.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("invalid date: %s", e.Reason)
	}
	return fmt.Sprintf("invalid date %q: %s", e.Text, e.Reason)
}

// Resolver computes dates relative to the calendar day of its clock in a location.
type Resolver struct {
	clock Clock
	loc   *time.Location
}

// NewResolver creates a Resolver reading the system clock in loc.
// A nil loc means time.Local.
func NewResolver(loc *time.Location) *Resolver {
	return NewResolverWithClock(SystemClock, loc)
}

// NewResolverWithClock creates a Resolver with an explicit clock.
func NewResolverWithClock(clock Clock, loc *time.Location) *Resolver {
	if clock == nil {
		clock = SystemClock
	}
	if loc == nil {
		loc = time.Local
	}
	return &Resolver{clock: clock, loc: loc}
}

// Location returns the location "today" is evaluated in.
func (r *Resolver) Location() *time.Location {
	return r.loc
}

// Now returns the current instant from the resolver's clock.
func (r *Resolver) Now() time.Time {
	return r.clock.Now()
}

// Today returns the current calendar day.
func (r *Resolver) Today() time.Time {
	return Day(r.clock.Now().In(r.loc))
}

// Ahead returns the calendar day n days after today.
func (r *Resolver) Ahead(days int) time.Time {
	return Offset(r.Today(), days)
}

// EarliestBookable returns the first date that satisfies the booking lead time.
func (r *Resolver) EarliestBookable() time.Time {
	return r.Ahead(constants.MinLeadDays)
}

// Day truncates t to its calendar day, dropping the clock and zone.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Offset adds days to a calendar date, rolling over months and years.
func Offset(date time.Time, days int) time.Time {
	return Day(date).AddDate(0, 0, days)
}

// Format renders a date as dd.MM.yyyy.
func Format(date time.Time) string {
	return date.Format(constants.DateFormat)
}

// Parse reads a dd.MM.yyyy date. The text must match the shape exactly:
// two-digit day, two-digit month, four-digit year, dot separators.
func Parse(text string) (time.Time, error) {
	if text == "" {
		return time.Time{}, &ParseError{Reason: "empty"}
	}
	// "dd.MM.yyyy" is ten bytes; any multi-byte rune makes this fail too.
	if len(text) != len(constants.DateFormat) {
		return time.Time{}, &ParseError{Text: text, Reason: "expected dd.MM.yyyy"}
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch i {
		case 2, 5:
			if c != '.' {
				return time.Time{}, &ParseError{Text: text, Reason: "expected dd.MM.yyyy"}
			}
		default:
			if c < '0' || c > '9' {
				return time.Time{}, &ParseError{Text: text, Reason: "non-numeric component"}
			}
		}
	}

	day := atoi(text[0:2])
	month := atoi(text[3:5])
	year := atoi(text[6:10])

	if year < 1 {
		return time.Time{}, &ParseError{Text: text, Reason: "year out of range"}
	}
	if month < 1 || month > 12 {
		return time.Time{}, &ParseError{Text: text, Reason: "month out of range"}
	}
	if day < 1 || day > DaysIn(year, time.Month(month)) {
		return time.Time{}, &ParseError{Text: text, Reason: "day out of range"}
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

func atoi(digits string) int {
	n := 0
	for i := 0; i < len(digits); i++ {
		n = n*10 + int(digits[i]-'0')
	}
	return n
}
