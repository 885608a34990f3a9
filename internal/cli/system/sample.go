package system

import (
	"math/rand/v2"
	"time"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/sample"
)

type SampleCmd struct {
	Seed *uint64 `help:"Seed for reproducible history. Defaults to the current time."`
	User string  `help:"Name of the sample user." default:"SampleUser"`
	Days int     `help:"Length of the generated history in days." default:"28"`
}

func (c *SampleCmd) Run(ctx *cli.Context) error {
	if err := ctx.AcquireLock(); err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()

	seed := uint64(time.Now().UnixNano())
	if c.Seed != nil {
		seed = *c.Seed
	}

	opts := sample.DefaultOptions()
	if c.User != "" {
		opts.UserName = c.User
	}
	if c.Days > 0 {
		opts.Days = c.Days
	}

	res, err := sample.Generate(ctx.Tracker, rand.New(rand.NewPCG(seed, seed)), opts)
	if err != nil {
		return err
	}

	if res.CreatedUser {
		ctx.Printf("Created user %s\n", res.User.Username)
	}
	for _, name := range res.CreatedHabits {
		ctx.Printf("Created habit %s\n", name)
	}
	ctx.Printf("Generated %d days of history for %s:\n", opts.Days, res.User.Username)
	for _, h := range res.Habits {
		ctx.Printf("  %-20s %-6s %2d completions, current %d, longest %d\n",
			h.Name, h.Frequency, h.CompletionsCount(), h.Streak.Current, h.Streak.Longest)
	}
	return nil
}
