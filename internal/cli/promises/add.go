package promises

import (
	"fmt"

	"github.com/julianstephens/keptword/internal/cli"
	"github.com/julianstephens/keptword/internal/journal"
	"github.com/julianstephens/keptword/internal/models"
)

type AddCmd struct {
	Person      string `arg:"" help:"Who made the promise."`
	Description string `arg:"" help:"What they promised."`
	FollowUp    string `short:"f" name:"follow-up" help:"Follow-up date (YYYY-MM-DD)." required:""`
	Made        string `short:"m" help:"Date the promise was made (YYYY-MM-DD). Defaults to today."`
	Notes       string `short:"n" help:"Optional notes."`
	Status      string `short:"s" help:"Status (Pending|Fulfilled|Broken|Unclear)." default:"Pending"`
	Remind      bool   `short:"r" help:"Flag the promise for a reminder."`
}

func (c *AddCmd) Validate() error {
	if _, err := models.ParseStatus(c.Status); err != nil {
		return err
	}
	return nil
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	status, err := models.ParseStatus(c.Status)
	if err != nil {
		return err
	}

	entry, err := ctx.Journal.Save(models.SaveRequest{
		PersonName:   c.Person,
		Description:  c.Description,
		DateMade:     c.Made,
		FollowUpDate: c.FollowUp,
		Notes:        c.Notes,
		Status:       status,
		RemindMe:     c.Remind,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", journal.NotificationFor(journal.OpCreate, err).Message, err)
	}

	ctx.Printf("✓ %s\n", journal.NotificationFor(journal.OpCreate, nil).Message)
	ctx.Printf("  %s: %s (ID: %s)\n", entry.PersonName, entry.Description, shortID(entry.ID))
	return nil
}
