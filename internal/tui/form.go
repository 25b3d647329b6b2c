package tui

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/carddelivery/internal/dates"
	"github.com/julianstephens/carddelivery/internal/rules"
	"github.com/julianstephens/carddelivery/internal/validation"
)

// FormModel holds the values bound to the booking form fields.
type FormModel struct {
	City  string
	Date  string
	Name  string
	Phone string
	Agree bool
}

// Input converts the bound values to a validator input.
func (fm *FormModel) Input() validation.FormInput {
	return validation.FormInput{
		City:              fm.City,
		Date:              fm.Date,
		Name:              fm.Name,
		Phone:             fm.Phone,
		AgreementAccepted: fm.Agree,
	}
}

// fieldError runs one field rule and turns a failure into its catalog message.
func (m *Model) fieldError(f validation.Field, in validation.FormInput) error {
	key := m.opts.Validator.ValidateField(f, in)
	if key == rules.OK {
		return nil
	}
	if msg := m.opts.Catalog.Message(key); msg != "" {
		return errors.New(msg)
	}
	return errors.New(string(key))
}

func (m *Model) textCheck(f validation.Field) func(string) error {
	return func(s string) error {
		var in validation.FormInput
		switch f {
		case validation.FieldCity:
			in.City = s
		case validation.FieldDate:
			in.Date = s
		case validation.FieldName:
			in.Name = s
		case validation.FieldPhone:
			in.Phone = s
		}
		return m.fieldError(f, in)
	}
}

// citySuggestions offers allow-list entries once enough letters are typed,
// matching the dropdown of the booking page.
func (m *Model) citySuggestions(fm *FormModel) []string {
	return m.opts.Cities.Suggest(fm.City)
}

// newBookingForm builds the interactive form. Each field is checked by the same
// rule the validator applies on submit.
func (m *Model) newBookingForm(fm *FormModel) *huh.Form {
	earliest := dates.Format(m.opts.Resolver.EarliestBookable())

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("City").
				Description("Administrative centre of a region").
				SuggestionsFunc(func() []string { return m.citySuggestions(fm) }, &fm.City).
				Value(&fm.City).
				Validate(m.textCheck(validation.FieldCity)),
			huh.NewInput().
				Title("Delivery date").
				Description("dd.mm.yyyy, no earlier than "+earliest).
				Placeholder(earliest).
				Value(&fm.Date).
				Validate(m.textCheck(validation.FieldDate)),
			huh.NewInput().
				Title("Surname and first name").
				Value(&fm.Name).
				Validate(m.textCheck(validation.FieldName)),
			huh.NewInput().
				Title("Phone").
				Placeholder("+79012345678").
				Value(&fm.Phone).
				Validate(m.textCheck(validation.FieldPhone)),
			huh.NewConfirm().
				Title("I agree to the processing of my personal data").
				Affirmative(m.opts.Catalog.UI.SubmitButton).
				Negative("Back").
				Value(&fm.Agree).
				Validate(func(b bool) error {
					return m.fieldError(validation.FieldAgreement, validation.FormInput{AgreementAccepted: b})
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
