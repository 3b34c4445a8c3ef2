package promises

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/keptword/internal/cli"
	"github.com/julianstephens/keptword/internal/config"
	apperrors "github.com/julianstephens/keptword/internal/errors"
	"github.com/julianstephens/keptword/internal/journal"
	"github.com/julianstephens/keptword/internal/models"
	"github.com/julianstephens/keptword/internal/storage/memory"
)

var fixedNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestContext(t *testing.T) (*cli.Context, *memory.Backend, *bytes.Buffer) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	backend := memory.New()

	n := 0
	ctx, err := cli.NewContext(cfg, backend,
		journal.WithClock(func() time.Time { return fixedNow }),
		journal.WithIDFunc(func() string {
			n++
			return fmt.Sprintf("%08d-0000-0000-0000-000000000000", n)
		}),
	)
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}

	var out bytes.Buffer
	ctx.Out = &out
	ctx.In = strings.NewReader("")
	return ctx, backend, &out
}

func mustAdd(t *testing.T, ctx *cli.Context, person, desc, follow string) {
	t.Helper()
	cmd := &AddCmd{Person: person, Description: desc, FollowUp: follow, Status: "Pending"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("AddCmd.Run() error = %v", err)
	}
}

func TestAddCmd(t *testing.T) {
	ctx, backend, out := newTestContext(t)

	cmd := &AddCmd{Person: "Alex", Description: "Return the book", FollowUp: "2024-06-10", Status: "fulfilled", Remind: true}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(out.String(), "Promise added successfully") {
		t.Errorf("unexpected output %q", out.String())
	}

	data, err := backend.Get("promises")
	if err != nil {
		t.Fatalf("promises not persisted: %v", err)
	}
	var stored []models.PromiseEntry
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("stored data is not JSON: %v", err)
	}
	if len(stored) != 1 || stored[0].Status != models.StatusFulfilled || !stored[0].RemindMe {
		t.Errorf("stored = %+v", stored)
	}
	if stored[0].DateMade != "2024-06-01" {
		t.Errorf("DateMade = %q, want today", stored[0].DateMade)
	}
}

func TestAddCmdRejects(t *testing.T) {
	tests := []struct {
		name string
		cmd  AddCmd
	}{
		{"blank person", AddCmd{Person: "  ", Description: "x", FollowUp: "2024-06-10", Status: "Pending"}},
		{"blank description", AddCmd{Person: "Alex", Description: "", FollowUp: "2024-06-10", Status: "Pending"}},
		{"blank follow-up", AddCmd{Person: "Alex", Description: "x", FollowUp: " ", Status: "Pending"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, backend, _ := newTestContext(t)
			if err := tt.cmd.Run(ctx); err == nil {
				t.Fatal("expected error")
			}
			if _, err := backend.Get("promises"); err == nil {
				t.Error("rejected promise was persisted")
			}
		})
	}

	bad := AddCmd{Status: "Maybe"}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted an unknown status")
	}
}

func TestAddCmdPersistenceFailure(t *testing.T) {
	ctx, backend, _ := newTestContext(t)
	backend.SetWriteError(errors.New("disk full"))

	cmd := &AddCmd{Person: "Alex", Description: "x", FollowUp: "2024-06-10", Status: "Pending"}
	err := cmd.Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "Failed to save promise") {
		t.Fatalf("Run() error = %v, want save failure", err)
	}
}

func TestEditCmd(t *testing.T) {
	ctx, _, _ := newTestContext(t)
	mustAdd(t, ctx, "Alex", "Return the book", "2024-06-10")
	before := ctx.Journal.Entries()[0]

	status := "Broken"
	notes := "never showed up"
	cmd := &EditCmd{ID: "00000001", Status: &status, Notes: &notes, Remind: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("EditCmd.Run() error = %v", err)
	}

	after := ctx.Journal.Entries()[0]
	if after.ID != before.ID || after.CreatedAt != before.CreatedAt {
		t.Errorf("identity changed: before %+v after %+v", before, after)
	}
	if after.Status != models.StatusBroken || after.Notes != notes || !after.RemindMe {
		t.Errorf("fields not updated: %+v", after)
	}
	if after.Description != before.Description || after.FollowUpDate != before.FollowUpDate {
		t.Errorf("unspecified fields changed: %+v", after)
	}

	cmd = &EditCmd{ID: "00000001", NoRemind: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("EditCmd.Run() error = %v", err)
	}
	if ctx.Journal.Entries()[0].RemindMe {
		t.Error("--no-remind did not clear the flag")
	}

	if err := (&EditCmd{ID: "zzz"}).Run(ctx); err == nil {
		t.Error("expected error for unknown ID")
	}
}

func TestEditCmdRejectsEmptyMade(t *testing.T) {
	ctx, _, _ := newTestContext(t)
	mustAdd(t, ctx, "Alex", "Return the book", "2024-06-10")
	made := "2024-05-01"
	if err := (&EditCmd{ID: "00000001", Made: &made}).Run(ctx); err != nil {
		t.Fatalf("EditCmd.Run() error = %v", err)
	}
	before := ctx.Journal.Entries()[0]

	for _, made := range []string{"", "   "} {
		cmd := &EditCmd{ID: "00000001", Made: &made}
		err := cmd.Run(ctx)
		if !apperrors.IsValidation(err) {
			t.Errorf("Run(--made %q) error = %v, want validation error", made, err)
		}
	}

	after := ctx.Journal.Entries()[0]
	if after != before || after.DateMade != "2024-05-01" {
		t.Errorf("entry changed after rejected edit: before %+v after %+v", before, after)
	}
}

func TestDeleteCmd(t *testing.T) {
	ctx, _, out := newTestContext(t)
	mustAdd(t, ctx, "Alex", "Return the book", "2024-06-10")
	mustAdd(t, ctx, "Sam", "Call back", "2024-06-11")

	// Declined confirmation keeps the entry
	ctx.In = strings.NewReader("n\n")
	if err := (&DeleteCmd{ID: "00000001"}).Run(ctx); err != nil {
		t.Fatalf("DeleteCmd.Run() error = %v", err)
	}
	if ctx.Journal.Count() != 2 {
		t.Fatalf("Count() = %d after cancelled delete", ctx.Journal.Count())
	}
	if !strings.Contains(out.String(), "Delete cancelled.") {
		t.Errorf("unexpected output %q", out.String())
	}

	ctx.In = strings.NewReader("y\n")
	if err := (&DeleteCmd{ID: "00000001"}).Run(ctx); err != nil {
		t.Fatalf("DeleteCmd.Run() error = %v", err)
	}
	if err := (&DeleteCmd{ID: "00000002", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("DeleteCmd.Run() error = %v", err)
	}
	if ctx.Journal.Count() != 0 {
		t.Errorf("Count() = %d, want 0", ctx.Journal.Count())
	}
}

func TestListCmd(t *testing.T) {
	ctx, _, out := newTestContext(t)
	mustAdd(t, ctx, "Sam", "Call back", "2024-06-20")
	mustAdd(t, ctx, "Alex", "Return the book", "2024-05-01")

	cmd := &ListCmd{FilterFlags: FilterFlags{Status: "All", Person: "All"}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("ListCmd.Run() error = %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Promises (2 shown, 1 overdue):") {
		t.Errorf("missing header:\n%s", got)
	}
	// Earliest follow-up first
	if strings.Index(got, "Alex") > strings.Index(got, "Sam") {
		t.Errorf("entries not ordered by follow-up date:\n%s", got)
	}
	if !strings.Contains(got, "⚠ overdue") {
		t.Errorf("missing overdue marker:\n%s", got)
	}
}

func TestListCmdFiltered(t *testing.T) {
	ctx, _, out := newTestContext(t)
	mustAdd(t, ctx, "Sam", "Call back", "2024-06-20")
	mustAdd(t, ctx, "Alex", "Return the book", "2024-05-01")

	cmd := &ListCmd{FilterFlags: FilterFlags{Status: "Fulfilled", Person: "All"}}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("ListCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "No promises match your current filters.") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out.String(), "1 overdue") {
		t.Errorf("overdue count must ignore the filter:\n%s", out)
	}
}

func TestListCmdJSON(t *testing.T) {
	ctx, _, out := newTestContext(t)
	mustAdd(t, ctx, "Sam", "Call back", "2024-06-20")
	mustAdd(t, ctx, "Alex", "Return the book", "2024-05-01")

	cmd := &ListCmd{FilterFlags: FilterFlags{Search: "BOOK", Status: "All", Person: "All"}, JSON: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("ListCmd.Run() error = %v", err)
	}

	var entries []models.PromiseEntry
	if err := json.Unmarshal(out.Bytes(), &entries); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(entries) != 1 || entries[0].PersonName != "Alex" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestFilterFlagsState(t *testing.T) {
	tests := []struct {
		name  string
		flags FilterFlags
		want  models.FilterState
	}{
		{"defaults", FilterFlags{Status: "All", Person: "All"}, models.DefaultFilter()},
		{"status any case", FilterFlags{Status: "broken", Person: "All"}, models.FilterState{Status: "Broken", Person: "All"}},
		{"person and search", FilterFlags{Search: "book", Status: "all", Person: "Alex"}, models.FilterState{Search: "book", Status: "All", Person: "Alex"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.flags.State(); got != tt.want {
				t.Errorf("State() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if err := (FilterFlags{Status: "Nope"}).Validate(); err == nil {
		t.Error("Validate() accepted an unknown status")
	}
}

func TestPeopleAndOverdueCmds(t *testing.T) {
	ctx, _, out := newTestContext(t)
	mustAdd(t, ctx, "Sam", "Call back", "2024-06-20")
	mustAdd(t, ctx, "Alex", "Return the book", "2024-05-01")
	mustAdd(t, ctx, "Alex", "Pay me back", "2024-05-02")

	if err := (&PeopleCmd{}).Run(ctx); err != nil {
		t.Fatalf("PeopleCmd.Run() error = %v", err)
	}
	if out.String() != "Alex\nSam\n" {
		t.Errorf("people output = %q", out.String())
	}

	out.Reset()
	if err := (&OverdueCmd{}).Run(ctx); err != nil {
		t.Fatalf("OverdueCmd.Run() error = %v", err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "2 overdue\n") || strings.Contains(got, "Sam") {
		t.Errorf("overdue output:\n%s", got)
	}
}

func TestPeopleStats(t *testing.T) {
	ctx, _, out := newTestContext(t)
	mustAdd(t, ctx, "Alex", "Return the book", "2024-05-01")
	mustAdd(t, ctx, "Alex", "Pay me back", "2024-05-02")
	mustAdd(t, ctx, "Sam", "Call back", "2024-06-20")
	fulfilled := "Fulfilled"
	if err := (&EditCmd{ID: "00000003", Status: &fulfilled}).Run(ctx); err != nil {
		t.Fatalf("EditCmd.Run() error = %v", err)
	}
	out.Reset()

	if err := (&PeopleCmd{Stats: true, History: 10}).Run(ctx); err != nil {
		t.Fatalf("PeopleCmd.Run() error = %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Alex: 2 total, 2 pending, 0 fulfilled, 0 broken, 0 unclear (kept n/a)",
		"  ⚠ 2 overdue",
		"  → 2 pending promises are past their follow-up date",
		"Sam: 1 total, 0 pending, 1 fulfilled, 0 broken, 0 unclear (kept 100%)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("stats output missing %q:\n%s", want, got)
		}
	}
}

func TestShowCmd(t *testing.T) {
	ctx, _, out := newTestContext(t)
	mustAdd(t, ctx, "Alex", "Return the book", "2024-05-01")

	if err := (&ShowCmd{ID: "0000"}).Run(ctx); err != nil {
		t.Fatalf("ShowCmd.Run() error = %v", err)
	}
	for _, want := range []string{"Person:      Alex", "Follow up:   May 1, 2024 (31 days ago)", "⚠ overdue"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestClearCmdKeepsOnboarding(t *testing.T) {
	ctx, _, out := newTestContext(t)
	if err := (&OnboardCmd{}).Run(ctx); err != nil {
		t.Fatalf("OnboardCmd.Run() error = %v", err)
	}
	mustAdd(t, ctx, "Alex", "Return the book", "2024-05-01")

	if err := (&ClearCmd{Yes: true}).Run(ctx); err != nil {
		t.Fatalf("ClearCmd.Run() error = %v", err)
	}
	if ctx.Journal.Count() != 0 {
		t.Errorf("Count() = %d, want 0", ctx.Journal.Count())
	}
	if !ctx.Journal.HasOnboarded() {
		t.Error("clear reset the onboarding flag")
	}
	if !strings.Contains(out.String(), "All data cleared (1 removed)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestExportCmd(t *testing.T) {
	ctx, _, _ := newTestContext(t)
	mustAdd(t, ctx, "Alex", "Return the book", "2024-05-01")
	mustAdd(t, ctx, "Sam", "Call back", "2024-06-20")

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "out.json")
	cmd := &ExportCmd{FilterFlags: FilterFlags{Status: "All", Person: "Sam"}, File: jsonPath}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("ExportCmd.Run() error = %v", err)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	var entries []models.PromiseEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if len(entries) != 1 || entries[0].PersonName != "Sam" {
		t.Errorf("entries = %+v", entries)
	}

	xlsxPath := filepath.Join(dir, "out.xlsx")
	cmd = &ExportCmd{FilterFlags: FilterFlags{Status: "All", Person: "All"}, File: xlsxPath}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("ExportCmd.Run() error = %v", err)
	}
	if info, err := os.Stat(xlsxPath); err != nil || info.Size() == 0 {
		t.Errorf("xlsx export missing or empty: %v", err)
	}
}
