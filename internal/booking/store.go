package booking

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/carddelivery/internal/constants"
	"github.com/julianstephens/carddelivery/internal/dates"
	"github.com/julianstephens/carddelivery/internal/models"
	"github.com/julianstephens/carddelivery/internal/storage"
	"github.com/julianstephens/carddelivery/internal/validation"
)

// StoreSubmitter records bookings in the local journal in place of a remote backend.
type StoreSubmitter struct {
	store    storage.Provider
	resolver *dates.Resolver
}

var _ Submitter = (*StoreSubmitter)(nil)

// NewStoreSubmitter creates a submitter backed by store. The resolver's clock
// stamps each booking.
func NewStoreSubmitter(store storage.Provider, resolver *dates.Resolver) *StoreSubmitter {
	return &StoreSubmitter{store: store, resolver: resolver}
}

// Submit writes the booking and confirms the date as entered.
func (s *StoreSubmitter) Submit(ctx context.Context, input validation.FormInput) (Confirmation, error) {
	if err := ctx.Err(); err != nil {
		return Confirmation{}, &SubmissionError{Reason: "cancelled", Err: err}
	}

	date, err := dates.Parse(strings.TrimSpace(input.Date))
	if err != nil {
		return Confirmation{}, &SubmissionError{Reason: "unreadable date", Err: err}
	}

	b := models.Booking{
		ID:        uuid.NewString(),
		City:      strings.TrimSpace(input.City),
		Date:      date.Format(constants.StorageDateFormat),
		Name:      strings.Join(strings.Fields(input.Name), " "),
		Phone:     input.Phone,
		CreatedAt: s.resolver.Now().UTC(),
	}
	if err := s.store.AddBooking(b); err != nil {
		return Confirmation{}, &SubmissionError{Reason: "journal write failed", Err: err}
	}

	return Confirmation{BookingID: b.ID, Date: date}, nil
}
