package forms

import (
	"testing"

	"github.com/julianstephens/carddelivery/internal/booking"
	"github.com/julianstephens/carddelivery/internal/catalog"
	"github.com/julianstephens/carddelivery/internal/rules"
	"github.com/julianstephens/carddelivery/internal/validation"
)

func result(errs map[validation.Field]rules.Key) validation.ValidationResult {
	if errs == nil {
		errs = map[validation.Field]rules.Key{}
	}
	return validation.ValidationResult{Errors: errs}
}

func TestCompareResults(t *testing.T) {
	tests := []struct {
		name   string
		local  validation.ValidationResult
		remote validation.ValidationResult
		want   int
	}{
		{"both valid", result(nil), result(nil), 0},
		{
			"page shows first failure only",
			result(map[validation.Field]rules.Key{validation.FieldCity: rules.Empty, validation.FieldPhone: rules.InvalidPhone}),
			result(map[validation.Field]rules.Key{validation.FieldCity: rules.Empty}),
			0,
		},
		{
			"different key",
			result(map[validation.Field]rules.Key{validation.FieldDate: rules.InvalidDate}),
			result(map[validation.Field]rules.Key{validation.FieldDate: rules.NotADate}),
			1,
		},
		{
			"page flags a locally valid field",
			result(map[validation.Field]rules.Key{validation.FieldName: rules.InvalidName}),
			result(map[validation.Field]rules.Key{validation.FieldName: rules.InvalidName, validation.FieldCity: rules.InvalidCity}),
			1,
		},
		{
			"page misses the failure",
			result(map[validation.Field]rules.Key{validation.FieldAgreement: rules.NotAccepted}),
			result(nil),
			1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compareResults(tt.local, tt.remote)
			if len(got) != tt.want {
				t.Errorf("compareResults() = %v, want %d mismatches", got, tt.want)
			}
		})
	}
}

func TestCompareNotification(t *testing.T) {
	cat := catalog.Default()
	in := validation.FormInput{Date: "19.10.2026"}

	tests := []struct {
		name string
		n    booking.Notification
		want int
	}{
		{"matches", booking.Notification{Title: "Успешно!", Content: "Встреча успешно забронирована на 19.10.2026"}, 0},
		{"surrounding text", booking.Notification{Title: "Успешно!", Content: " Встреча успешно забронирована на 19.10.2026\n"}, 0},
		{"wrong date", booking.Notification{Title: "Успешно!", Content: "Встреча успешно забронирована на 20.10.2026"}, 1},
		{"wrong title", booking.Notification{Title: "Ошибка", Content: "Встреча успешно забронирована на 19.10.2026"}, 1},
		{"empty", booking.Notification{}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compareNotification(cat, in, &tt.n)
			if len(got) != tt.want {
				t.Errorf("compareNotification() = %v, want %d mismatches", got, tt.want)
			}
		})
	}
}
