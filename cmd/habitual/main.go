package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/cli/backups"
	"github.com/julianstephens/habitual/internal/cli/habits"
	"github.com/julianstephens/habitual/internal/cli/settings"
	"github.com/julianstephens/habitual/internal/cli/stats"
	"github.com/julianstephens/habitual/internal/cli/system"
	"github.com/julianstephens/habitual/internal/cli/users"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tracker"
	"github.com/julianstephens/habitual/internal/utils"
)

var CLI struct {
	Version kong.VersionFlag
	Config   string `help:"Database path, .json file, PostgreSQL connection string or 'keyring'. Connection strings must not embed a password." env:"HABITUAL_CONFIG" default:"${default_config}"`
	UserName string `name:"user" help:"User to act as. Defaults to the default_user setting or the only user." env:"HABITUAL_USER"`
	Verbose  bool   `short:"v" help:"Mirror debug logs to stderr." env:"HABITUAL_DEBUG"`

	Init     system.InitCmd     `cmd:"" help:"Initialize habitual storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check stored streaks against completion history."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Debug    system.DebugCmd    `cmd:"" help:"Debug commands for troubleshooting."`
	Sample   system.SampleCmd   `cmd:"" help:"Generate a sample user with four weeks of habit history."`
	Keyring  system.KeyringCmd  `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits and record completions."`
	User     users.UserCmd        `cmd:"" help:"Manage users."`
	Stats    stats.StatsCmd       `cmd:"" help:"Show streak analytics."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
}

// noLoad lists commands that run before the store exists.
var noLoad = []string{"init", "keyring"}

func needsLoad(command string) bool {
	for _, prefix := range noLoad {
		if command == prefix || strings.HasPrefix(command, prefix+" ") {
			return false
		}
	}
	return true
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with daily and weekly streaks"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	command := ctx.Command()
	var store storage.Provider
	var lockDir string
	var err error
	if strings.HasPrefix(command, "keyring") {
		lockDir, err = cli.ConfigDir()
	} else {
		store, lockDir, err = cli.OpenProvider(CLI.Config)
	}
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Verbose, ConfigDir: lockDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	logger.Debug("Starting habitual", "command", command, "version", constants.Version)

	appCtx := &cli.Context{
		User:    CLI.UserName,
		LockDir: lockDir,
	}

	if store != nil {
		appCtx.Store = store
		opts := []tracker.Option{}
		if needsLoad(command) {
			if err := store.Load(); err != nil {
				errors.Fatal(err)
			}
			s, err := store.GetSettings()
			if err != nil {
				errors.Fatal(err)
			}
			loc, err := utils.LoadLocation(s.Timezone)
			if err != nil {
				logger.Warn("Falling back to local time", "error", err)
			} else {
				opts = append(opts, tracker.WithLocation(loc))
			}
		}
		appCtx.Tracker = tracker.New(store, opts...)
	}

	err = ctx.Run(appCtx)
	appCtx.ReleaseLock()
	if store != nil {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("Failed to close store", "error", cerr)
		}
	}
	errors.Fatal(err)
}
