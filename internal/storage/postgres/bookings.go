package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/carddelivery/internal/models"
	"github.com/julianstephens/carddelivery/internal/storage"
)

const bookingColumns = "id, city, to_char(date, 'YYYY-MM-DD'), name, phone, created_at, cancelled_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (models.Booking, error) {
	var b models.Booking
	var cancelledAt sql.NullTime

	if err := row.Scan(&b.ID, &b.City, &b.Date, &b.Name, &b.Phone, &b.CreatedAt, &cancelledAt); err != nil {
		return models.Booking{}, err
	}
	b.CreatedAt = b.CreatedAt.UTC()
	if cancelledAt.Valid {
		t := cancelledAt.Time.UTC()
		b.CancelledAt = &t
	}
	return b, nil
}

func (s *Store) AddBooking(b models.Booking) error {
	var cancelledAt sql.NullTime
	if b.CancelledAt != nil {
		cancelledAt = sql.NullTime{Time: b.CancelledAt.UTC(), Valid: true}
	}

	_, err := s.db.Exec(`
INSERT INTO bookings (id, city, date, name, phone, created_at, cancelled_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.City, b.Date, b.Name, b.Phone, b.CreatedAt.UTC(), cancelledAt)
	if err != nil {
		return fmt.Errorf("failed to add booking: %w", err)
	}
	return nil
}

func (s *Store) GetBooking(id string) (models.Booking, error) {
	row := s.db.QueryRow("SELECT "+bookingColumns+" FROM bookings WHERE id = $1", id)
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

// CancelBooking soft-deletes a booking in one statement and reports why nothing changed.
func (s *Store) CancelBooking(id string) error {
	res, err := s.db.Exec("UPDATE bookings SET cancelled_at = now() WHERE id = $1 AND cancelled_at IS NULL", id)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	return s.checkTransition(res, id, storage.ErrAlreadyCancelled)
}

func (s *Store) RestoreBooking(id string) error {
	res, err := s.db.Exec("UPDATE bookings SET cancelled_at = NULL WHERE id = $1 AND cancelled_at IS NOT NULL", id)
	if err != nil {
		return fmt.Errorf("failed to restore booking: %w", err)
	}
	return s.checkTransition(res, id, storage.ErrNotCancelled)
}

func (s *Store) checkTransition(res sql.Result, id string, stateErr error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := s.GetBooking(id); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", stateErr, id)
}
