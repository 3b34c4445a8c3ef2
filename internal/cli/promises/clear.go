package promises

import (
	"fmt"

	"github.com/julianstephens/keptword/internal/cli"
	"github.com/julianstephens/keptword/internal/journal"
)

// ClearCmd removes every promise. The onboarding flag is kept.
type ClearCmd struct {
	Yes bool `short:"y" help:"Clear without asking for confirmation."`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	count := ctx.Journal.Count()
	if count == 0 {
		ctx.Println("Nothing to clear.")
		return nil
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete all %d promises? This cannot be undone.", count))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Clear cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Journal.ClearAll(); err != nil {
		return fmt.Errorf("%s: %w", journal.NotificationFor(journal.OpClear, err).Message, err)
	}

	ctx.Printf("✓ %s (%d removed)\n", journal.NotificationFor(journal.OpClear, nil).Message, count)
	return nil
}

type OnboardCmd struct{}

func (c *OnboardCmd) Run(ctx *cli.Context) error {
	if ctx.Journal.HasOnboarded() {
		ctx.Println("Onboarding already complete.")
		return nil
	}
	if err := ctx.Journal.CompleteOnboarding(); err != nil {
		return fmt.Errorf("failed to complete onboarding: %w", err)
	}
	ctx.Println("✓ Onboarding complete")
	return nil
}
