package system

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
)

type ValidateCmd struct {
	Fix bool `help:"Recompute streaks of habits with fixable conflicts."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	if c.Fix {
		if err := ctx.AcquireLock(); err != nil {
			return err
		}
	}

	users, err := ctx.Tracker.Users()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		ctx.Println("No users to validate.")
		return nil
	}

	unresolved := 0
	for _, u := range users {
		result, err := ctx.Tracker.Check(u)
		if err != nil {
			return err
		}
		ctx.Printf("%s: %s\n", u.Username, result.FormatReport())
		if !result.HasConflicts() {
			continue
		}

		remaining := len(result.Conflicts)
		if c.Fix {
			remaining, err = repair(ctx, u)
			if err != nil {
				return err
			}
		}
		unresolved += remaining
	}

	if unresolved > 0 {
		return fmt.Errorf("%d conflict(s) remain", unresolved)
	}
	return nil
}

// repair fixes what it can for u and returns the conflicts left over.
func repair(ctx *cli.Context, u models.User) (int, error) {
	n, err := ctx.Tracker.Repair(u)
	if err != nil {
		return 0, err
	}
	ctx.Printf("  Repaired %d habit(s)\n", n)

	after, err := ctx.Tracker.Check(u)
	if err != nil {
		return 0, err
	}
	return len(after.Conflicts), nil
}
