// Package storage defines the booking journal shared by the SQLite and PostgreSQL backends.
package storage

import (
	"errors"
	"strings"

	"github.com/julianstephens/carddelivery/internal/models"
)

var (
	// ErrNotFound is returned when no booking has the requested ID
	ErrNotFound = errors.New("booking not found")
	// ErrAlreadyCancelled is returned when cancelling a cancelled booking
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	// ErrNotCancelled is returned when restoring an active booking
	ErrNotCancelled = errors.New("booking is not cancelled")
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Bookings
	AddBooking(models.Booking) error
	GetBooking(id string) (models.Booking, error)
	// GetAllBookings returns bookings ordered by delivery date, then creation time.
	// Cancelled bookings are included only when includeCancelled is set.
	GetAllBookings(includeCancelled bool) ([]models.Booking, error)
	CancelBooking(id string) error
	RestoreBooking(id string) error

	// Utils
	GetConfigPath() string
}

// IsPostgresURL reports whether target names a PostgreSQL database rather than a SQLite file.
func IsPostgresURL(target string) bool {
	return strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://")
}
