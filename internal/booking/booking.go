// Package booking hands validated delivery forms to a submission backend and
// builds the confirmation shown to the user.
package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/carddelivery/internal/catalog"
	"github.com/julianstephens/carddelivery/internal/logger"
	"github.com/julianstephens/carddelivery/internal/validation"
)

// Confirmation is a backend's acceptance of a booking.
type Confirmation struct {
	BookingID string
	// Date is the accepted delivery day (midnight UTC).
	Date time.Time
}

// Submitter accepts a validated form. Implementations own retries and timeouts.
type Submitter interface {
	Submit(ctx context.Context, input validation.FormInput) (Confirmation, error)
}

// SubmissionError reports a backend refusal or failure.
type SubmissionError struct {
	Reason string
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Err == nil {
		return "submission failed: " + e.Reason
	}
	return fmt.Sprintf("submission failed: %s: %v", e.Reason, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Notification is the success popup content.
type Notification struct {
	Title   string
	Content string
}

// Outcome is the result of one booking attempt. Confirmation and Notification
// are set only when the form was valid and the backend accepted it.
type Outcome struct {
	Result       validation.ValidationResult
	Confirmation *Confirmation
	Notification *Notification
}

// Accepted reports whether the booking went through.
func (o Outcome) Accepted() bool {
	return o.Confirmation != nil
}

// Service validates forms and submits the valid ones.
type Service struct {
	validator *validation.Validator
	submitter Submitter
	catalog   *catalog.Catalog
}

// NewService creates a booking service
func NewService(validator *validation.Validator, submitter Submitter, cat *catalog.Catalog) *Service {
	return &Service{
		validator: validator,
		submitter: submitter,
		catalog:   cat,
	}
}

// Book validates input and, when it passes, submits it. An invalid form is not an
// error: the returned Outcome carries the field failures and nothing is submitted.
// Submission failures are returned as *SubmissionError.
func (s *Service) Book(ctx context.Context, input validation.FormInput) (Outcome, error) {
	log := logger.Component("booking")

	outcome := Outcome{Result: s.validator.Validate(input)}
	if outcome.Result.HasErrors() {
		return outcome, nil
	}

	conf, err := s.submitter.Submit(ctx, input)
	if err != nil {
		var subErr *SubmissionError
		if !errors.As(err, &subErr) {
			err = &SubmissionError{Reason: "backend error", Err: err}
		}
		log.Warn("Booking submission failed", "error", err)
		return outcome, err
	}

	outcome.Confirmation = &conf
	outcome.Notification = &Notification{
		Title:   s.catalog.UI.NotificationTitle,
		Content: s.catalog.Confirmation(conf.Date),
	}
	log.Info("Booking confirmed", "id", conf.BookingID, "date", conf.Date.Format(time.DateOnly))
	return outcome, nil
}
