package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/carddelivery/internal/catalog"
	"github.com/julianstephens/carddelivery/internal/dates"
	"github.com/julianstephens/carddelivery/internal/logger"
	"github.com/julianstephens/carddelivery/internal/rules"
)

// Field names a form field
type Field string

const (
	FieldCity      Field = "city"
	FieldDate      Field = "date"
	FieldName      Field = "name"
	FieldPhone     Field = "phone"
	FieldAgreement Field = "agreement"
)

// Fields lists the form fields in display order
var Fields = []Field{FieldCity, FieldDate, FieldName, FieldPhone, FieldAgreement}

// FormInput is the raw content of one submission attempt
type FormInput struct {
	City              string
	Date              string
	Name              string
	Phone             string
	AgreementAccepted bool
}

// ValidationResult maps each failing field to its failure key.
// An empty result means the form may be submitted.
type ValidationResult struct {
	Errors map[Field]rules.Key
}

// HasErrors returns true if any field failed
func (vr ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// Error returns the failure key for a field
func (vr ValidationResult) Error(f Field) (rules.Key, bool) {
	key, ok := vr.Errors[f]
	return key, ok
}

// FailedFields returns the failing fields in display order
func (vr ValidationResult) FailedFields() []Field {
	var out []Field
	for _, f := range Fields {
		if _, ok := vr.Errors[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Messages resolves every failure to its catalog text
func (vr ValidationResult) Messages(cat *catalog.Catalog) map[Field]string {
	out := make(map[Field]string, len(vr.Errors))
	for f, key := range vr.Errors {
		out[f] = cat.Message(key)
	}
	return out
}

// FormatReport returns a human-readable report of all failures
func (vr ValidationResult) FormatReport(cat *catalog.Catalog) string {
	if !vr.HasErrors() {
		return "Form is valid."
	}

	var b strings.Builder
	b.WriteString("Validation failed:\n")
	for _, f := range vr.FailedFields() {
		key := vr.Errors[f]
		msg := cat.Message(key)
		if msg == "" {
			msg = string(key)
		}
		fmt.Fprintf(&b, "- %s: %s\n", f, msg)
	}
	return b.String()
}

// Validator checks delivery form input against the field rules.
// It holds only immutable reference data and is safe for concurrent use.
type Validator struct {
	resolver *dates.Resolver
	cities   rules.CityMatcher
}

// New creates a new Validator
func New(resolver *dates.Resolver, cities rules.CityMatcher) *Validator {
	return &Validator{resolver: resolver, cities: cities}
}

// Resolver returns the date resolver used for the lead-time check
func (v *Validator) Resolver() *dates.Resolver {
	return v.resolver
}

// Validate runs every field rule independently and collects the failures.
func (v *Validator) Validate(input FormInput) ValidationResult {
	result := ValidationResult{Errors: map[Field]rules.Key{}}

	for _, f := range Fields {
		if key := v.ValidateField(f, input); key != rules.OK {
			result.Errors[f] = key
		}
	}

	if result.HasErrors() {
		logger.Debug("Form validation failed", "fields", result.FailedFields())
	}
	return result
}

// ValidateField runs the rule for a single field
func (v *Validator) ValidateField(f Field, input FormInput) rules.Key {
	switch f {
	case FieldCity:
		return rules.City(input.City, v.cities)
	case FieldDate:
		return rules.Date(input.Date, v.resolver)
	case FieldName:
		return rules.Name(input.Name)
	case FieldPhone:
		return rules.Phone(input.Phone)
	case FieldAgreement:
		return rules.Agreement(input.AgreementAccepted)
	default:
		return rules.OK
	}
}
