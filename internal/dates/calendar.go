package dates

import (
	"fmt"
	"strings"
	"time"
)

// Standalone (nominative) month names as the date picker header shows them.
var monthNames = [...]string{
	"январь", "февраль", "март", "апрель", "май", "июнь",
	"июль", "август", "сентябрь", "октябрь", "ноябрь", "декабрь",
}

// MonthTitle returns the date picker header for the month containing date,
// e.g. "октябрь 2026".
func MonthTitle(date time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[date.Month()-1], date.Year())
}

// ParseMonthTitle reads a date picker header back into the first day of that month.
func ParseMonthTitle(title string) (time.Time, error) {
	var name string
	var year int
	if _, err := fmt.Sscanf(title, "%s %d", &name, &year); err != nil {
		return time.Time{}, fmt.Errorf("invalid month title %q: %w", title, err)
	}
	name = strings.ToLower(name)
	for i, n := range monthNames {
		if n == name {
			return time.Date(year, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid month title %q: unknown month %q", title, name)
}

// MonthSteps returns how many "next month" steps lead from the month containing shown
// to the month containing target. It is negative when target lies in an earlier month.
func MonthSteps(shown, target time.Time) int {
	return (target.Year()-shown.Year())*12 + int(target.Month()) - int(shown.Month())
}
