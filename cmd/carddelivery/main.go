package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/carddelivery/internal/cli"
	"github.com/julianstephens/carddelivery/internal/cli/backups"
	"github.com/julianstephens/carddelivery/internal/cli/forms"
	"github.com/julianstephens/carddelivery/internal/cli/history"
	"github.com/julianstephens/carddelivery/internal/cli/lookup"
	"github.com/julianstephens/carddelivery/internal/cli/system"
	"github.com/julianstephens/carddelivery/internal/config"
	"github.com/julianstephens/carddelivery/internal/constants"
	"github.com/julianstephens/carddelivery/internal/errors"
	"github.com/julianstephens/carddelivery/internal/logger"
)

var CLI struct {
	Version   kong.VersionFlag
	Config    string `help:"Settings file (YAML)." type:"path" env:"CARDDELIVERY_CONFIG"`
	ConfigDir string `help:"Directory for the journal, logs and backups." env:"CARDDELIVERY_CONFIG_DIR"`
	DB        string `help:"Journal: SQLite path, PostgreSQL URL or DSN without password, or 'keyring'." env:"CARDDELIVERY_DB"`
	Timezone  string `help:"IANA timezone that decides what 'today' is." env:"CARDDELIVERY_TIMEZONE"`
	Cities    string `help:"File with one delivery city per line, replacing the built-in list." type:"path" env:"CARDDELIVERY_CITIES"`
	Catalog   string `help:"Message catalog (YAML), replacing the built-in one." type:"path" env:"CARDDELIVERY_CATALOG"`
	Debug     bool   `help:"Log debug output to stderr." env:"CARDDELIVERY_DEBUG"`

	Init     system.InitCmd    `cmd:"" help:"Initialize the booking journal."`
	Doctor   system.DoctorCmd  `cmd:"" help:"Run journal and configuration health checks."`
	Tui      system.TuiCmd     `cmd:"" help:"Launch the interactive booking form." default:"1"`
	Validate forms.ValidateCmd `cmd:"" help:"Check a delivery form without booking."`
	Book     forms.BookCmd     `cmd:"" help:"Validate a delivery form and record the booking."`
	Probe    forms.ProbeCmd    `cmd:"" help:"Submit the form on the live booking page and compare with local validation."`
	Dates    lookup.DatesCmd   `cmd:"" help:"Show today, the earliest bookable date and offsets."`
	CityList struct {
		List    lookup.CitiesListCmd    `cmd:"" help:"List delivery cities." default:"1"`
		Suggest lookup.CitiesSuggestCmd `cmd:"" help:"Show the dropdown entries for typed letters."`
	} `cmd:"" name:"cities" help:"Delivery city allow-list."`
	History struct {
		List    history.ListCmd    `cmd:"" help:"List bookings." default:"1"`
		Cancel  history.CancelCmd  `cmd:"" help:"Cancel a booking."`
		Restore history.RestoreCmd `cmd:"" help:"Restore a cancelled booking."`
	} `cmd:"" help:"Booking journal."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage journal backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability."`
	} `cmd:"" help:"Manage journal credentials in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Delivery booking form validation and journal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	cfg.Apply(config.Overrides{
		ConfigDir: CLI.ConfigDir,
		DB:        CLI.DB,
		Timezone:  CLI.Timezone,
		Cities:    CLI.Cities,
		Catalog:   CLI.Catalog,
		Debug:     CLI.Debug,
	})

	configDir, err := cfg.ResolvedConfigDir()
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{
		Level:     cfg.Log.Level,
		Debug:     cfg.Log.Debug,
		ConfigDir: configDir,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	appCtx, err := cli.NewContext(cfg)
	if err != nil {
		errors.Fatal(err)
	}
	logger.Debug("Running command", "command", ctx.Command())
	err = ctx.Run(appCtx)
	if appCtx.Store != nil {
		if cerr := appCtx.Store.Close(); cerr != nil {
			logger.Warn("Failed to close journal", "error", cerr)
		}
	}
	os.Exit(errors.Report(os.Stderr, err))
}
