package main

import (
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

var CLI struct {
	Version         kong.VersionFlag
	Store           string        `help:"Store location: a .json file, a SQLite path, a PostgreSQL connection string or 'keyring'. For PostgreSQL, credentials must NOT be embedded in the connection string."`
	Debug           bool          `help:"Log debug output to stderr."`
	RefreshInterval time.Duration `help:"How often the TUI re-reads the store (e.g. 30s, 1m)."`
	Tray            bool          `help:"Forward notifications to the tray app."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize habitual storage."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Add      cli.AddCmd      `cmd:"" help:"Add a habit."`
	Edit     cli.EditCmd     `cmd:"" help:"Edit a habit."`
	Delete   cli.DeleteCmd   `cmd:"" help:"Delete a habit."`
	Mark     cli.MarkCmd     `cmd:"" help:"Toggle a habit's completion for today or a past day."`
	List     cli.ListCmd     `cmd:"" help:"List habits."`
	Stats    cli.StatsCmd    `cmd:"" help:"Show streak and completion statistics."`
	Log      cli.LogCmd      `cmd:"" help:"Show a completion grid for recent days."`
	Validate cli.ValidateCmd `cmd:"" help:"Check stored habits for conflicts."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Backup   struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage store backups."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string."`
		Status cli.KeyringStatusCmd `cmd:"" help:"Show whether a connection string is stored."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		errors.Fatal(err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily habit tracker with streaks"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	// Flags override the environment
	if CLI.Store != "" {
		cfg.Store = CLI.Store
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	if CLI.RefreshInterval != 0 {
		cfg.RefreshInterval = CLI.RefreshInterval
	}
	if CLI.Tray {
		cfg.TrayNotifications = true
	}
	if err := cfg.Validate(); err != nil {
		errors.Fatal(err)
	}

	configDir, err := cfg.ConfigDir()
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: configDir}); err != nil {
		errors.Fatalf("failed to initialize logger: %w", err)
	}
	defer logger.Close()

	command := ctx.Command()

	// Keyring management must work before any store is reachable
	var provider storage.Provider
	if strings.HasPrefix(command, "keyring") {
		provider = storage.NewMemoryStore()
	} else if provider, err = config.OpenProvider(cfg); err != nil {
		errors.Fatal(err)
	}
	defer provider.Close()

	if command != "init" && !strings.HasPrefix(command, "keyring") {
		if err := provider.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	appCtx := cli.NewContext(cfg, provider, utils.SystemClock{}, nil)
	errors.Fatal(ctx.Run(appCtx))
}
