package models

import (
	"time"

	"github.com/julianstephens/carddelivery/internal/constants"
)

// Booking is a delivery booking accepted by a submission backend.
type Booking struct {
	ID          string     `json:"id"`
	City        string     `json:"city"`
	Date        string     `json:"date"` // YYYY-MM-DD format
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// Status reports whether the booking is still active.
func (b Booking) Status() string {
	if b.CancelledAt != nil {
		return constants.BookingStatusCancelled
	}
	return constants.BookingStatusConfirmed
}

// DeliveryDate parses the stored booking date.
func (b Booking) DeliveryDate() (time.Time, error) {
	return time.Parse(constants.StorageDateFormat, b.Date)
}
