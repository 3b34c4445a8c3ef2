package promises

import (
	"fmt"
	"strings"

	"github.com/julianstephens/keptword/internal/cli"
	apperrors "github.com/julianstephens/keptword/internal/errors"
	"github.com/julianstephens/keptword/internal/journal"
	"github.com/julianstephens/keptword/internal/models"
)

type EditCmd struct {
	ID          string  `arg:"" help:"Promise ID or unique ID prefix."`
	Person      *string `short:"p" help:"New person name."`
	Description *string `short:"d" help:"New description."`
	Made        *string `short:"m" help:"New date made (YYYY-MM-DD). Cannot be empty."`
	FollowUp    *string `short:"f" name:"follow-up" help:"New follow-up date (YYYY-MM-DD)."`
	Notes       *string `short:"n" help:"New notes. Pass an empty string to clear them."`
	Status      *string `short:"s" help:"New status (Pending|Fulfilled|Broken|Unclear)."`
	Remind      bool    `help:"Flag the promise for a reminder." xor:"remind"`
	NoRemind    bool    `help:"Clear the reminder flag." xor:"remind"`
}

// Validate rejects a blank --made. Saving treats a blank date made as
// today, which would silently rewrite the original date.
func (c *EditCmd) Validate() error {
	if c.Made != nil && strings.TrimSpace(*c.Made) == "" {
		verr := &apperrors.ValidationError{}
		verr.Add("dateMade", "cannot be empty when editing; pass a date (YYYY-MM-DD)")
		return verr
	}
	return nil
}

func (c *EditCmd) Run(ctx *cli.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}
	id, err := ctx.Journal.ResolveID(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find promise: %w", err)
	}
	entry, err := ctx.Journal.Get(id)
	if err != nil {
		return fmt.Errorf("failed to find promise: %w", err)
	}

	req := models.RequestFromEntry(entry)
	if c.Person != nil {
		req.PersonName = *c.Person
	}
	if c.Description != nil {
		req.Description = *c.Description
	}
	if c.Made != nil {
		req.DateMade = *c.Made
	}
	if c.FollowUp != nil {
		req.FollowUpDate = *c.FollowUp
	}
	if c.Notes != nil {
		req.Notes = *c.Notes
	}
	if c.Status != nil {
		status, err := models.ParseStatus(*c.Status)
		if err != nil {
			return err
		}
		req.Status = status
	}
	if c.Remind {
		req.RemindMe = true
	}
	if c.NoRemind {
		req.RemindMe = false
	}

	updated, err := ctx.Journal.Save(req)
	if err != nil {
		return fmt.Errorf("%s: %w", journal.NotificationFor(journal.OpUpdate, err).Message, err)
	}

	ctx.Printf("✓ %s\n", journal.NotificationFor(journal.OpUpdate, nil).Message)
	ctx.Printf("  %s: %s [%s]\n", updated.PersonName, updated.Description, updated.Status)
	return nil
}
