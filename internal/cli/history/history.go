// Package history holds the booking journal commands.
package history

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/carddelivery/internal/cli"
	"github.com/julianstephens/carddelivery/internal/constants"
	"github.com/julianstephens/carddelivery/internal/dates"
	"github.com/julianstephens/carddelivery/internal/models"
	"github.com/julianstephens/carddelivery/internal/storage"
)

// ListCmd prints the journal as a table.
type ListCmd struct {
	All     bool `help:"Include cancelled bookings." short:"a"`
	ShowIDs bool `help:"Show full booking IDs." name:"show-ids"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}

	bookings, err := store.GetAllBookings(c.All)
	if err != nil {
		return fmt.Errorf("failed to get bookings: %w", err)
	}
	if len(bookings) == 0 {
		ctx.Println("No bookings found")
		return nil
	}

	ctx.Println(renderTable(bookings, c.ShowIDs))
	return nil
}

func renderTable(bookings []models.Booking, showIDs bool) string {
	cancelled := make(map[int]bool)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("ID", "Date", "City", "Name", "Phone", "Status")

	for i, b := range bookings {
		id := b.ID
		if !showIDs && len(id) > 8 {
			id = id[:8]
		}
		date := b.Date
		if d, err := b.DeliveryDate(); err == nil {
			date = dates.Format(d)
		}
		t.Row(id, date, b.City, b.Name, b.Phone, b.Status())
		cancelled[i] = b.Status() == constants.BookingStatusCancelled
	}

	return t.StyleFunc(func(row, col int) lipgloss.Style {
		style := lipgloss.NewStyle().Padding(0, 1)
		if row == table.HeaderRow {
			return style.Bold(true).Foreground(lipgloss.Color("205"))
		}
		if cancelled[row] {
			return style.Foreground(lipgloss.Color("240")).Strikethrough(true)
		}
		return style
	}).Render()
}

// CancelCmd soft-deletes a booking.
type CancelCmd struct {
	ID string `arg:"" help:"Booking ID."`
}

func (c *CancelCmd) Run(ctx *cli.Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	id, err := resolveID(store, c.ID)
	if err != nil {
		return err
	}
	if err := store.CancelBooking(id); err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	ctx.Printf("Cancelled booking %s\n", id)
	return nil
}

// RestoreCmd brings back a cancelled booking.
type RestoreCmd struct {
	ID string `arg:"" help:"Booking ID."`
}

func (c *RestoreCmd) Run(ctx *cli.Context) error {
	store, err := ctx.LoadStore()
	if err != nil {
		return err
	}
	id, err := resolveID(store, c.ID)
	if err != nil {
		return err
	}
	if err := store.RestoreBooking(id); err != nil {
		return fmt.Errorf("failed to restore booking: %w", err)
	}
	ctx.Printf("Restored booking %s\n", id)
	return nil
}

// resolveID accepts a full booking ID or the unique prefix shown by "history list".
func resolveID(store storage.Provider, id string) (string, error) {
	if _, err := store.GetBooking(id); err == nil {
		return id, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", err
	}

	all, err := store.GetAllBookings(true)
	if err != nil {
		return "", fmt.Errorf("failed to get bookings: %w", err)
	}
	var matches []string
	for _, b := range all {
		if strings.HasPrefix(b.ID, id) {
			matches = append(matches, b.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("booking ID prefix %q is ambiguous (%d matches)", id, len(matches))
	}
}
