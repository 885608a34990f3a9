package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

type DoctorCmd struct {
	Fix bool `help:"Recompute habits whose stored streak has drifted from their history."`
}

// errSkipped marks a check that does not apply to the current store.
type errSkipped string

func (e errSkipped) Error() string { return string(e) }

type check struct {
	name     string
	needsDB  bool
	warnOnly bool
	run      func(*cli.Context) error
}

func (cmd *DoctorCmd) checks() []check {
	return []check{
		{name: "Database reachable", run: checkDBReachable},
		{name: "Schema version", needsDB: true, run: checkSchemaVersion},
		{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
		{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
		{name: "Clock/timezone", run: checkClockTimezone},
		{name: "Streak consistency", needsDB: true, run: func(ctx *cli.Context) error {
			return checkStreakConsistency(ctx, cmd.Fix)
		}},
	}
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	if cmd.Fix {
		if err := ctx.AcquireLock(); err != nil {
			return err
		}
	}

	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	for i, c := range cmd.checks() {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		var skipped errSkipped
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case asSkipped(err, &skipped):
			ctx.Printf("⊘ %s: SKIPPED (%s)\n", c.name, skipped)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if i == 0 {
				dbReachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func asSkipped(err error, target *errSkipped) bool {
	s, ok := err.(errSkipped)
	if ok {
		*target = s
	}
	return ok
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if sm, ok := ctx.Store.(storage.SchemaManager); ok {
		if err := sm.Ping(); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func schemaVersions(ctx *cli.Context) (int, int, error) {
	sm, ok := ctx.Store.(storage.SchemaManager)
	if !ok {
		return 0, 0, errSkipped("store has no schema")
	}
	return sm.SchemaVersion()
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := schemaVersions(ctx)
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, err := schemaVersions(ctx)
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'habitual migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	if !backup.Supported(path) {
		return errSkipped("store is not a local file")
	}
	backups, err := backup.NewManager(path).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found, run 'habitual backup create'")
	}
	if age := time.Since(backups[0].Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("most recent backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("configured timezone %q cannot be loaded", settings.Timezone)
	}
	return nil
}

// checkStreakConsistency compares every persisted streak with a batch
// recomputation over the persisted dates.
func checkStreakConsistency(ctx *cli.Context, fix bool) error {
	users, err := ctx.Tracker.Users()
	if err != nil {
		return err
	}

	problems := 0
	for _, u := range users {
		result, err := ctx.Tracker.Check(u)
		if err != nil {
			return err
		}
		if !result.HasConflicts() {
			continue
		}
		if fix {
			n, err := ctx.Tracker.Repair(u)
			if err != nil {
				return err
			}
			ctx.Printf("   Repaired %d habit(s) of %s\n", n, u.Username)
			if result, err = ctx.Tracker.Check(u); err != nil {
				return err
			}
		}
		problems += len(result.Conflicts)
	}

	if problems > 0 {
		return fmt.Errorf("%d conflict(s) found, run 'habitual validate' for details", problems)
	}
	return nil
}
