package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" name:"db-path" help:"Show database path."`
	DumpHabit    DebugDumpHabitCmd    `cmd:"" help:"Dump a habit with its history and streak state as JSON."`
	DumpSettings DebugDumpSettingsCmd `cmd:"" help:"Dump settings as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(data))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpHabitCmd struct {
	Name string `arg:"" help:"Name of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	user, err := ctx.ActiveUser()
	if err != nil {
		return err
	}
	h, err := ctx.Tracker.Habit(user, cmd.Name)
	if err != nil {
		return fmt.Errorf("habit %q: %w", cmd.Name, err)
	}
	return printJSON(ctx, h)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(ctx, settings)
}
