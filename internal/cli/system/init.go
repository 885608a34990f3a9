package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing database before initialization."`
	Source string `help:"Store to copy users, habits and settings from (path or connection string)."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if err := ctx.AcquireLock(); err != nil {
		return err
	}

	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized habitual storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		source, _, err := cli.OpenProvider(c.Source)
		if err != nil {
			return err
		}
		if err := copyData(ctx, source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absDB, errDB := filepath.Abs(dbPath)
		absSrc, errSrc := filepath.Abs(c.Source)
		if errDB == nil && errSrc == nil && absDB == absSrc {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}
	if !backup.Supported(dbPath) {
		return nil
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	ctx.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

// copyData copies settings, users and habits with their full history and
// streak state from source into the context's store.
func copyData(ctx *cli.Context, source storage.Provider) error {
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	ctx.Println("  Migrating settings...")
	settings, err := source.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	ctx.Println("  Migrating users and habits...")
	users, err := source.GetAllUsers()
	if err != nil {
		return fmt.Errorf("failed to get users from source: %w", err)
	}
	habitCount := 0
	for _, u := range users {
		if err := ctx.Store.AddUser(u); err != nil {
			return fmt.Errorf("failed to add user %s: %w", u.Username, err)
		}
		habits, err := source.GetAllHabits(u.ID)
		if err != nil {
			return fmt.Errorf("failed to get habits of %s from source: %w", u.Username, err)
		}
		for _, h := range habits {
			if err := ctx.Store.AddHabit(h); err != nil {
				return fmt.Errorf("failed to add habit %s: %w", h.Name, err)
			}
		}
		habitCount += len(habits)
	}
	ctx.Printf("    Migrated %d users and %d habits\n", len(users), habitCount)
	return nil
}
