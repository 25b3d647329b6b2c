// Package rules holds the per-field predicates of the delivery booking form.
//
// Every rule takes the raw field value and returns OK or the Key naming why the
// value was rejected. Rules never panic and have no state.
package rules

import (
	"regexp"
	"strings"

	"github.com/julianstephens/carddelivery/internal/dates"
)

// Key identifies a field validation failure. It doubles as the message catalog key.
type Key string

const (
	OK           Key = ""
	Empty        Key = "empty"
	InvalidCity  Key = "invalid_city"
	NotADate     Key = "not_a_date"
	InvalidDate  Key = "invalid_date"
	InvalidName  Key = "invalid_name"
	InvalidPhone Key = "invalid_phone"
	NotAccepted  Key = "not_accepted"
)

// Keys lists every failure key in catalog order.
var Keys = []Key{Empty, InvalidCity, NotADate, InvalidDate, InvalidName, InvalidPhone, NotAccepted}

// CityMatcher reports whether a normalized city name is deliverable.
type CityMatcher interface {
	Contains(city string) bool
}

var (
	// Tokens of Russian letters (no other Cyrillic-script runes) joined by single internal hyphens; at least two tokens.
	namePattern = regexp.MustCompile(`^[А-Яа-яЁё]+(?:-[А-Яа-яЁё]+)*(?:\s+[А-Яа-яЁё]+(?:-[А-Яа-яЁё]+)*)+$`)
	// \d is ASCII-only in RE2.
	phonePattern = regexp.MustCompile(`^\+\d{11}$`)
)

func blank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// City rejects blank values and names missing from the allow-list.
func City(value string, allowed CityMatcher) Key {
	if blank(value) {
		return Empty
	}
	if allowed == nil || !allowed.Contains(value) {
		return InvalidCity
	}
	return OK
}

// Date rejects text that is not a dd.MM.yyyy date and dates earlier than the
// resolver's earliest bookable day.
func Date(value string, resolver *dates.Resolver) Key {
	parsed, err := dates.Parse(strings.TrimSpace(value))
	if err != nil {
		return NotADate
	}
	if parsed.Before(resolver.EarliestBookable()) {
		return InvalidDate
	}
	return OK
}

// Name rejects blank values and anything other than two or more Russian words.
// Words may contain internal hyphens ("Эмилия-Анна").
func Name(value string) Key {
	if blank(value) {
		return Empty
	}
	if !namePattern.MatchString(strings.TrimSpace(value)) {
		return InvalidName
	}
	return OK
}

// Phone rejects blank values and anything but a plus followed by exactly 11 digits.
func Phone(value string) Key {
	if blank(value) {
		return Empty
	}
	if !phonePattern.MatchString(value) {
		return InvalidPhone
	}
	return OK
}

// Agreement rejects an unchecked agreement box.
func Agreement(accepted bool) Key {
	if !accepted {
		return NotAccepted
	}
	return OK
}
