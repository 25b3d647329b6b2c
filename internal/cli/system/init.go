// Package system holds setup and maintenance commands.
package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/carddelivery/internal/cli"
	"github.com/julianstephens/carddelivery/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Delete the existing SQLite journal before initialization."`
	Source string `help:"Journal path or connection string to copy bookings from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Journal()
	if err != nil {
		return err
	}

	if c.Force {
		if err := c.reset(ctx, store); err != nil {
			return err
		}
	}

	if err := store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized booking journal at: %s\n", store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying bookings from: %s\n", c.Source)
		n, err := copyBookings(c.Source, store)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Printf("✓ Copied %d bookings\n", n)
	}
	return nil
}

// reset removes the journal file. PostgreSQL journals have no file and are left alone.
func (c *InitCmd) reset(ctx *cli.Context, store storage.Provider) error {
	path := store.GetConfigPath()
	if c.Source != "" && samePath(path, c.Source) {
		return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
	}

	if _, err := os.Stat(path); err == nil {
		if err := store.Close(); err != nil {
			return fmt.Errorf("failed to close existing journal: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to delete existing journal: %w", err)
		}
		ctx.Printf("Deleted existing journal at: %s\n", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing journal: %w", err)
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

// copyBookings copies every booking, cancelled ones included, from source into dst.
func copyBookings(source string, dst storage.Provider) (int, error) {
	src, err := cli.OpenStore(source)
	if err != nil {
		return 0, err
	}
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source journal: %w", err)
	}
	defer src.Close()

	bookings, err := src.GetAllBookings(true)
	if err != nil {
		return 0, fmt.Errorf("failed to get bookings from source: %w", err)
	}
	for _, b := range bookings {
		if err := dst.AddBooking(b); err != nil {
			return 0, fmt.Errorf("failed to add booking %s: %w", b.ID, err)
		}
	}
	return len(bookings), nil
}
