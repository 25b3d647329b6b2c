package formpage

import "github.com/julianstephens/carddelivery/internal/validation"

// Selectors of the live booking page.
const (
	CitySelector  = "[data-test-id=city] input"
	DateSelector  = "[data-test-id=date] input"
	NameSelector  = "[data-test-id=name] input"
	PhoneSelector = "[data-test-id=phone] input"

	AgreementSelector = "[data-test-id=agreement] span.checkbox__box"

	CityInvalidSelector      = "[data-test-id=city].input_invalid .input__sub"
	DateInvalidSelector      = "[data-test-id=date] .input_invalid .input__sub"
	NameInvalidSelector      = "[data-test-id=name].input_invalid .input__sub"
	PhoneInvalidSelector     = "[data-test-id=phone].input_invalid .input__sub"
	AgreementInvalidSelector = "[data-test-id=agreement].input_invalid"

	ButtonSelector = "button .button__text"

	NotificationTitleSelector   = "[data-test-id=notification] .notification__title"
	NotificationContentSelector = "[data-test-id=notification] .notification__content"

	CityPopupSelector    = ".input__popup .menu"
	CityMenuItemSelector = ".input__popup .menu .menu-item"

	CalendarIconSelector = ".input__icon"
	CalendarSelector     = ".popup .calendar"
	CalendarNameSelector = ".calendar__name"
	CalendarNextSelector = "[data-step='1']"
	CalendarDaySelector  = ".calendar__day"
)

// invalidSelectors maps each field to the element that carries its error.
var invalidSelectors = map[validation.Field]string{
	validation.FieldCity:      CityInvalidSelector,
	validation.FieldDate:      DateInvalidSelector,
	validation.FieldName:      NameInvalidSelector,
	validation.FieldPhone:     PhoneInvalidSelector,
	validation.FieldAgreement: AgreementInvalidSelector,
}
