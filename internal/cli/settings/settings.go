package settings

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/utils"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
	Set  SettingsSetCmd  `cmd:"" help:"Update settings."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	defaultUser := settings.DefaultUser
	if defaultUser == "" {
		defaultUser = "(none)"
	}
	ctx.Println("Current Settings:")
	ctx.Printf("  Timezone:      %s\n", settings.Timezone)
	ctx.Printf("  Default User:  %s\n", defaultUser)
	return nil
}

type SettingsSetCmd struct {
	Timezone    *string `help:"IANA timezone used to decide today, or Local."`
	DefaultUser *string `help:"User selected when --user is not given. Empty clears it."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	if err := ctx.AcquireLock(); err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	updated := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone: %s", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.DefaultUser != nil {
		if *c.DefaultUser != "" {
			if _, err := ctx.Tracker.User(*c.DefaultUser); err != nil {
				return err
			}
		}
		settings.DefaultUser = *c.DefaultUser
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use 'settings show' to view settings or flags to update them.")
		return nil
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	return nil
}
