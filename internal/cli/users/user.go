package users

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
)

type UserCmd struct {
	Add    UserAddCmd    `cmd:"" help:"Create a user."`
	List   UserListCmd   `cmd:"" help:"List users."`
	Use    UserUseCmd    `cmd:"" help:"Make a user the default."`
	Delete UserDeleteCmd `cmd:"" help:"Delete a user and all of their habits."`
}

type UserAddCmd struct {
	Name string `arg:"" help:"Username."`
}

func (c *UserAddCmd) Run(ctx *cli.Context) error {
	if err := ctx.AcquireLock(); err != nil {
		return err
	}
	u, err := ctx.Tracker.CreateUser(c.Name)
	if err != nil {
		return err
	}
	ctx.Printf("Created user: %s\n", u.Username)
	return nil
}

type UserListCmd struct{}

func (c *UserListCmd) Run(ctx *cli.Context) error {
	users, err := ctx.Tracker.Users()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		ctx.Println("No users found. Create one with 'habitual user add NAME'.")
		return nil
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	for _, u := range users {
		marker := " "
		if u.Username == settings.DefaultUser {
			marker = "*"
		}
		ctx.Printf("%s %s\n", marker, u.Username)
	}
	return nil
}

type UserUseCmd struct {
	Name string `arg:"" help:"Username."`
}

func (c *UserUseCmd) Run(ctx *cli.Context) error {
	if err := ctx.AcquireLock(); err != nil {
		return err
	}
	u, err := ctx.Tracker.User(c.Name)
	if err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.DefaultUser = u.Username
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Printf("Default user: %s\n", u.Username)
	return nil
}

type UserDeleteCmd struct {
	Name string `arg:"" help:"Username."`
	Yes  bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *UserDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.AcquireLock(); err != nil {
		return err
	}
	u, err := ctx.Tracker.User(c.Name)
	if err != nil {
		return err
	}
	habits, err := ctx.Tracker.Habits(u)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete user %q and %d habit(s)?", u.Username, len(habits)))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Tracker.DeleteUser(u.Username); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err == nil && settings.DefaultUser == u.Username {
		settings.DefaultUser = ""
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to clear default user: %w", err)
		}
	}
	ctx.Printf("Deleted user: %s\n", u.Username)
	return nil
}
