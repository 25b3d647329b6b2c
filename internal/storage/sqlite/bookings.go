package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/carddelivery/internal/models"
	"github.com/julianstephens/carddelivery/internal/storage"
)

const bookingColumns = "id, city, date, name, phone, created_at, cancelled_at"

// Fixed-width UTC timestamps sort lexically in creation order.
const timestampFormat = "2006-01-02T15:04:05.000000000Z"

var _ storage.Provider = (*Store)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (models.Booking, error) {
	var b models.Booking
	var createdAt string
	var cancelledAt sql.NullString

	if err := row.Scan(&b.ID, &b.City, &b.Date, &b.Name, &b.Phone, &createdAt, &cancelledAt); err != nil {
		return models.Booking{}, err
	}

	t, err := time.Parse(timestampFormat, createdAt)
	if err != nil {
		return models.Booking{}, fmt.Errorf("invalid created_at for booking %s: %w", b.ID, err)
	}
	b.CreatedAt = t

	if cancelledAt.Valid {
		t, err := time.Parse(timestampFormat, cancelledAt.String)
		if err != nil {
			return models.Booking{}, fmt.Errorf("invalid cancelled_at for booking %s: %w", b.ID, err)
		}
		b.CancelledAt = &t
	}
	return b, nil
}

func (s *Store) AddBooking(b models.Booking) error {
	var cancelledAt sql.NullString
	if b.CancelledAt != nil {
		cancelledAt = sql.NullString{String: b.CancelledAt.UTC().Format(timestampFormat), Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.City, b.Date, b.Name, b.Phone, b.CreatedAt.UTC().Format(timestampFormat), cancelledAt)
	if err != nil {
		return fmt.Errorf("failed to add booking: %w", err)
	}
	return nil
}

func (s *Store) GetBooking(id string) (models.Booking, error) {
	row := s.db.QueryRow("SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
		}
		return models.Booking{}, err
	}
	return b, nil
}

func (s *Store) GetAllBookings(includeCancelled bool) ([]models.Booking, error) {
	query := "SELECT " + bookingColumns + " FROM bookings"
	if !includeCancelled {
		query += " WHERE cancelled_at IS NULL"
	}
	query += " ORDER BY date, created_at"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (s *Store) CancelBooking(id string) error {
	b, err := s.GetBooking(id)
	if err != nil {
		return err
	}
	if b.CancelledAt != nil {
		return fmt.Errorf("%w: %s", storage.ErrAlreadyCancelled, id)
	}

	now := time.Now().UTC().Format(timestampFormat)
	_, err = s.db.Exec("UPDATE bookings SET cancelled_at = ? WHERE id = ?", now, id)
	return err
}

func (s *Store) RestoreBooking(id string) error {
	b, err := s.GetBooking(id)
	if err != nil {
		return err
	}
	if b.CancelledAt == nil {
		return fmt.Errorf("%w: %s", storage.ErrNotCancelled, id)
	}

	_, err = s.db.Exec("UPDATE bookings SET cancelled_at = NULL WHERE id = ?", id)
	return err
}
