package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/carddelivery/internal/backup"
	"github.com/julianstephens/carddelivery/internal/booking"
	"github.com/julianstephens/carddelivery/internal/catalog"
	"github.com/julianstephens/carddelivery/internal/cities"
	"github.com/julianstephens/carddelivery/internal/config"
	"github.com/julianstephens/carddelivery/internal/constants"
	"github.com/julianstephens/carddelivery/internal/dates"
	"github.com/julianstephens/carddelivery/internal/keyring"
	"github.com/julianstephens/carddelivery/internal/logger"
	"github.com/julianstephens/carddelivery/internal/storage"
	"github.com/julianstephens/carddelivery/internal/storage/postgres"
	"github.com/julianstephens/carddelivery/internal/storage/sqlite"
	"github.com/julianstephens/carddelivery/internal/validation"
)

// Context is passed to every command's Run method.
type Context struct {
	Config    *config.Config
	Store     storage.Provider
	Resolver  *dates.Resolver
	Cities    *cities.Set
	Catalog   *catalog.Catalog
	Validator *validation.Validator
	Out       io.Writer

	// storeErr is set when the journal target could not be resolved. Commands that
	// never touch the journal still run.
	storeErr error
}

// NewContext builds the reference data and journal handle described by cfg.
func NewContext(cfg *config.Config) (*Context, error) {
	loc, err := dates.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	allowed, err := cities.LoadFile(cfg.Cities)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	resolver := dates.NewResolver(loc)
	ctx := &Context{
		Config:    cfg,
		Resolver:  resolver,
		Cities:    allowed,
		Catalog:   cat,
		Validator: validation.New(resolver, allowed),
		Out:       os.Stdout,
	}

	target, err := cfg.DBTarget()
	if err == nil {
		ctx.Store, err = OpenStore(target)
	}
	if err != nil {
		logger.Debug("Journal unavailable", "error", err)
		ctx.storeErr = err
	}

	logger.Debug("Context ready", "timezone", loc.String(), "cities", allowed.Len(), "catalog", cat.Version)
	return ctx, nil
}

// OpenStore picks the journal backend for target: a PostgreSQL URL or DSN, the
// keyring marker, or a SQLite file path. Passwords are allowed only in connection
// strings that come from the keyring or the environment.
func OpenStore(target string) (storage.Provider, error) {
	fromSecret := target == constants.KeyringDBValue
	target, err := keyring.ResolveDB(target)
	if err != nil {
		return nil, err
	}

	if storage.IsPostgresURL(target) || postgres.IsDSN(target) {
		if _, err := postgres.ValidateConnString(target); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, err
			}
			if !fromSecret {
				return nil, fmt.Errorf("%w: store it with '%s keyring set' or use .pgpass instead", err, constants.AppName)
			}
		}
		return postgres.New(target), nil
	}
	return sqlite.NewStore(target), nil
}

// Journal returns the configured booking journal without loading it.
func (c *Context) Journal() (storage.Provider, error) {
	if c.storeErr != nil {
		return nil, c.storeErr
	}
	if c.Store == nil {
		return nil, errors.New("no booking journal configured")
	}
	return c.Store, nil
}

// LoadStore opens the journal for commands that read or write bookings.
func (c *Context) LoadStore() (storage.Provider, error) {
	store, err := c.Journal()
	if err != nil {
		return nil, err
	}
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}

// PerformAutomaticBackup snapshots a SQLite journal. Failures are logged, not returned.
func (c *Context) PerformAutomaticBackup(store storage.Provider) {
	if _, ok := store.(*sqlite.Store); !ok {
		return
	}
	if _, err := backup.NewManager(store.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// BookingService wires validation and the journal-backed submitter.
func (c *Context) BookingService(store storage.Provider) *booking.Service {
	return booking.NewService(c.Validator, booking.NewStoreSubmitter(store, c.Resolver), c.Catalog)
}

func (c *Context) writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Printf writes formatted command output.
func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.writer(), format, args...)
}

// Println writes a line of command output.
func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.writer(), args...)
}
