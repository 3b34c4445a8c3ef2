package promises

import (
	"fmt"

	"github.com/julianstephens/keptword/internal/cli"
	"github.com/julianstephens/keptword/internal/journal"
)

type DeleteCmd struct {
	ID  string `arg:"" help:"Promise ID or unique ID prefix."`
	Yes bool   `short:"y" help:"Delete without asking for confirmation."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Journal.ResolveID(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find promise: %w", err)
	}
	entry, err := ctx.Journal.Get(id)
	if err != nil {
		return fmt.Errorf("failed to find promise: %w", err)
	}

	if !c.Yes {
		ctx.Printf("%s: %s\n", entry.PersonName, entry.Description)
		ok, err := ctx.Confirm("Delete this promise? This action cannot be undone.")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Journal.Delete(id); err != nil {
		return fmt.Errorf("%s: %w", journal.NotificationFor(journal.OpDelete, err).Message, err)
	}

	ctx.Printf("✓ %s: %s (ID: %s)\n", journal.NotificationFor(journal.OpDelete, nil).Message, entry.Description, shortID(id))
	return nil
}
