package promises

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/keptword/internal/cli"
	"github.com/julianstephens/keptword/internal/constants"
	"github.com/julianstephens/keptword/internal/export"
	"github.com/julianstephens/keptword/internal/insights"
	"github.com/julianstephens/keptword/internal/models"
	"github.com/julianstephens/keptword/internal/utils"
	"github.com/julianstephens/keptword/internal/view"
)

const shortIDLen = 8

// FilterFlags select which promises a command works on
type FilterFlags struct {
	Search string `short:"q" help:"Case-insensitive text to look for in person and description."`
	Status string `help:"Only show this status (All|Pending|Fulfilled|Broken|Unclear)." default:"All"`
	Person string `help:"Only show this person (exact name, or All)." default:"All"`
}

func (f FilterFlags) Validate() error {
	if f.Status == "" || strings.EqualFold(f.Status, constants.FilterAll) {
		return nil
	}
	_, err := models.ParseStatus(f.Status)
	return err
}

// State converts the flags into the filter the view engine understands
func (f FilterFlags) State() models.FilterState {
	state := models.DefaultFilter()
	state.Search = f.Search
	if st, err := models.ParseStatus(f.Status); err == nil {
		state.Status = st.String()
	}
	if f.Person != "" {
		state.Person = f.Person
	}
	return state
}

type ListCmd struct {
	FilterFlags `embed:""`
	ShowIDs     bool `help:"Show promise IDs." name:"show-ids"`
	JSON        bool `help:"Print the filtered promises as JSON." name:"json"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	filter := c.State()
	result := ctx.Journal.View(filter)

	if c.JSON {
		return export.JSON(ctx.Stdout(), result.Entries)
	}

	if len(result.Entries) == 0 {
		if filter.Active() {
			ctx.Println(constants.MsgEmptyFiltered)
		} else {
			ctx.Println("No promises recorded yet. Use 'keptword add' to record one.")
		}
		if result.Overdue > 0 {
			ctx.Printf("%d overdue\n", result.Overdue)
		}
		return nil
	}

	now := ctx.Journal.Now()
	ctx.Printf("Promises (%d shown, %d overdue):\n", len(result.Entries), result.Overdue)
	for _, e := range result.Entries {
		printLine(ctx, e, now, c.ShowIDs)
	}
	return nil
}

type ShowCmd struct {
	ID string `arg:"" help:"Promise ID or unique ID prefix."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	id, err := ctx.Journal.ResolveID(c.ID)
	if err != nil {
		return err
	}
	e, err := ctx.Journal.Get(id)
	if err != nil {
		return err
	}

	now := ctx.Journal.Now()
	ctx.Printf("ID:          %s\n", e.ID)
	ctx.Printf("Person:      %s\n", e.PersonName)
	ctx.Printf("Description: %s\n", e.Description)
	ctx.Printf("Status:      %s %s\n", statusIcon(e.Status), e.Status)
	ctx.Printf("Made:        %s\n", utils.FormatDisplayDate(e.DateMade))
	ctx.Printf("Follow up:   %s (%s)\n", utils.FormatDisplayDate(e.FollowUpDate), utils.RelativeDue(e.FollowUpDate, now))
	if view.IsOverdue(e, now) {
		ctx.Println("             ⚠ overdue")
	}
	ctx.Printf("Remind me:   %t\n", e.RemindMe)
	if e.Notes != "" {
		ctx.Printf("Notes:       %s\n", e.Notes)
	}
	ctx.Printf("Created:     %s\n", e.CreatedAt)
	return nil
}

type PeopleCmd struct {
	Stats   bool `help:"Show outcome counts and follow-up suggestions per person." short:"s"`
	History int  `help:"Resolved promises per person considered for suggestions." default:"10"`
}

func (c *PeopleCmd) Run(ctx *cli.Context) error {
	people := view.People(ctx.Journal.Entries())[1:]
	if len(people) == 0 {
		ctx.Println("No people yet")
		return nil
	}
	if !c.Stats {
		for _, p := range people {
			ctx.Println(p)
		}
		return nil
	}

	for _, s := range insights.NewAnalyzer(ctx.Journal).AnalyzeAll(c.History) {
		kept := "n/a"
		if rate, ok := s.KeptRate(); ok {
			kept = fmt.Sprintf("%.0f%%", rate)
		}
		ctx.Printf("%s: %d total, %d pending, %d fulfilled, %d broken, %d unclear (kept %s)\n",
			s.Person, s.Total, s.Pending, s.Fulfilled, s.Broken, s.Unclear, kept)
		if s.Overdue > 0 {
			ctx.Printf("  ⚠ %d overdue\n", s.Overdue)
		}
		for _, sg := range s.Suggestions {
			ctx.Printf("  → %s", sg.Reason)
			if sg.SuggestedDays > 0 {
				ctx.Printf("; try following up after %d days instead of %d", sg.SuggestedDays, sg.CurrentDays)
			}
			ctx.Println()
		}
	}
	return nil
}

type OverdueCmd struct {
	ShowIDs bool `help:"Show promise IDs." name:"show-ids"`
}

func (c *OverdueCmd) Run(ctx *cli.Context) error {
	now := ctx.Journal.Now()
	result := ctx.Journal.View(models.DefaultFilter())

	ctx.Printf("%d overdue\n", result.Overdue)
	for _, e := range result.Entries {
		if view.IsOverdue(e, now) {
			printLine(ctx, e, now, c.ShowIDs)
		}
	}
	return nil
}

func printLine(ctx *cli.Context, e models.PromiseEntry, now time.Time, showID bool) {
	idStr := ""
	if showID {
		idStr = " (ID: " + shortID(e.ID) + ")"
	}

	marker := ""
	if view.IsOverdue(e, now) {
		marker = " ⚠ overdue"
	}

	ctx.Printf("  %s %s: %s%s\n", statusIcon(e.Status), e.PersonName, e.Description, idStr)
	ctx.Printf("      follow up %s (%s)%s\n", utils.FormatDisplayDate(e.FollowUpDate), utils.RelativeDue(e.FollowUpDate, now), marker)
}

func statusIcon(s models.Status) string {
	switch s {
	case models.StatusFulfilled:
		return "✓"
	case models.StatusBroken:
		return "✗"
	case models.StatusUnclear:
		return "?"
	default:
		return "•"
	}
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}
