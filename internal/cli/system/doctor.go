package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/carddelivery/internal/backup"
	"github.com/julianstephens/carddelivery/internal/cli"
	"github.com/julianstephens/carddelivery/internal/constants"
	"github.com/julianstephens/carddelivery/internal/rules"
	"github.com/julianstephens/carddelivery/internal/storage"
	"github.com/julianstephens/carddelivery/internal/storage/sqlite"
)

// ErrUnhealthy is returned when at least one check fails.
var ErrUnhealthy = errors.New("one or more health checks failed")

// errSkipped marks a check that does not apply to the current journal.
var errSkipped = errors.New("skipped")

type DoctorCmd struct{}

type check struct {
	name string
	// warnOnly checks print a warning instead of failing the run.
	warnOnly bool
	journal  bool
	run      func(*cli.Context, storage.Provider) error
}

var checks = []check{
	{name: "Schema version", journal: true, run: checkSchema},
	{name: "Backups present", journal: true, warnOnly: true, run: checkBackups},
	{name: "Booking records", journal: true, run: checkBookings},
	{name: "Reference data", run: checkReferenceData},
	{name: "Clock/timezone", run: checkClock},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	failed := false
	store, err := ctx.LoadStore()
	if err != nil {
		ctx.Printf("❌ Journal reachable: FAIL\n   Error: %v\n", err)
		failed = true
	} else {
		ctx.Printf("✓ Journal reachable: OK\n")
	}

	for _, c := range checks {
		if c.journal && store == nil {
			ctx.Printf("⊘ %s: SKIPPED (journal not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx, store)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errSkipped):
			ctx.Printf("⊘ %s: SKIPPED (%v)\n", c.name, err)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			ctx.Printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			failed = true
		}
	}

	ctx.Println()
	if failed {
		ctx.Println("Diagnostics completed with errors.")
		return ErrUnhealthy
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkSchema(_ *cli.Context, store storage.Provider) error {
	s, ok := store.(*sqlite.Store)
	if !ok {
		return fmt.Errorf("%w: not a SQLite journal", errSkipped)
	}
	current, latest, err := s.SchemaVersions()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("journal schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackups(_ *cli.Context, store storage.Provider) error {
	if _, ok := store.(*sqlite.Store); !ok {
		return fmt.Errorf("%w: not a SQLite journal", errSkipped)
	}
	list, err := backup.NewManager(store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(list) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

// checkBookings re-checks stored bookings against the field rules that do not
// depend on today's date.
func checkBookings(ctx *cli.Context, store storage.Provider) error {
	all, err := store.GetAllBookings(true)
	if err != nil {
		return fmt.Errorf("failed to get bookings: %w", err)
	}
	seen := make(map[string]bool, len(all))
	for _, b := range all {
		if seen[b.ID] {
			return fmt.Errorf("duplicate booking ID found: %s", b.ID)
		}
		seen[b.ID] = true

		if _, err := b.DeliveryDate(); err != nil {
			return fmt.Errorf("booking %s has malformed date %q", b.ID, b.Date)
		}
		if key := rules.Name(b.Name); key != rules.OK {
			return fmt.Errorf("booking %s: name %s", b.ID, key)
		}
		if key := rules.Phone(b.Phone); key != rules.OK {
			return fmt.Errorf("booking %s: phone %s", b.ID, key)
		}
		if ctx.Cities != nil && !ctx.Cities.Contains(b.City) {
			return fmt.Errorf("booking %s: city %q is not in the allow-list", b.ID, b.City)
		}
	}
	return nil
}

func checkReferenceData(ctx *cli.Context, _ storage.Provider) error {
	if ctx.Cities == nil || ctx.Cities.Len() == 0 {
		return errors.New("city allow-list is empty")
	}
	if ctx.Catalog == nil {
		return errors.New("message catalog is not loaded")
	}
	for _, key := range rules.Keys {
		if key != rules.NotAccepted && ctx.Catalog.Message(key) == "" {
			return fmt.Errorf("message catalog has no text for %s", key)
		}
	}
	return nil
}

func checkClock(ctx *cli.Context, _ storage.Provider) error {
	if ctx.Resolver == nil {
		return errors.New("date resolver is not configured")
	}
	now := ctx.Resolver.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
