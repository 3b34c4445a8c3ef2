package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/keptword/internal/backup"
	"github.com/julianstephens/keptword/internal/cli"
	"github.com/julianstephens/keptword/internal/constants"
	"github.com/julianstephens/keptword/internal/models"
	"github.com/julianstephens/keptword/internal/schema"
	"github.com/julianstephens/keptword/internal/storage"
	"github.com/julianstephens/keptword/internal/storage/sqlite"
	"github.com/julianstephens/keptword/internal/utils"
	"github.com/julianstephens/keptword/internal/validation"
)

// schemaVersioner is implemented by the SQL backends
type schemaVersioner interface {
	SchemaVersion() (current, latest int, err error)
}

var errSkipped = errors.New("skipped")

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Printf("Backend: %s (%s)\n\n", ctx.Config.Backend, ctx.Backend.Location())

	hasError := false
	fail := func(name string, err error) {
		ctx.Printf("❌ %s: FAIL\n", name)
		for _, line := range strings.Split(strings.TrimRight(err.Error(), "\n"), "\n") {
			ctx.Printf("   %s\n", line)
		}
		hasError = true
	}
	check := func(name string, err error) {
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", name)
		case errors.Is(err, errSkipped):
			ctx.Printf("⊘ %s: SKIPPED (%s)\n", name, strings.TrimPrefix(err.Error(), errSkipped.Error()+": "))
		default:
			fail(name, err)
		}
	}
	skipped := fmt.Errorf("%w: database not reachable", errSkipped)

	// Check 1: Backend reachable
	reachErr := checkBackendReachable(ctx)
	reachable := reachErr == nil
	check("Backend reachable", reachErr)

	// Check 2: Schema version and migrations (SQL backends only)
	if reachable {
		check("Schema version", checkSchemaVersion(ctx))
	} else {
		check("Schema version", skipped)
	}

	// Check 3: Backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil && !errors.Is(err, errSkipped) {
		ctx.Printf("⚠ Backups present: WARNING\n")
		ctx.Printf("   %v\n", err)
	} else {
		check("Backups present", err)
	}

	// Check 4: Stored data passes validation
	if reachable {
		check("Data validation", checkValidation(ctx))
	} else {
		check("Data validation", skipped)
	}

	// Check 5: Clock/timezone sanity
	check("Clock/timezone", checkClockTimezone(ctx.Config.Timezone, time.Now()))

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkBackendReachable(ctx *cli.Context) error {
	if ctx.Backend == nil {
		return fmt.Errorf("no backend configured")
	}

	if _, err := ctx.Backend.Get(constants.KeyPromises); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to read from backend: %w", err)
	}

	// For SQLite, also try a simple query
	if s, ok := ctx.Backend.(*sqlite.Store); ok {
		var result int
		if err := s.DB().QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sv, ok := ctx.Backend.(schemaVersioner)
	if !ok {
		return fmt.Errorf("%w: %s backend has no schema", errSkipped, ctx.Config.Backend)
	}

	current, latest, err := sv.SchemaVersion()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path, ok := ctx.SQLitePath()
	if !ok {
		return fmt.Errorf("%w: backups only apply to the sqlite backend", errSkipped)
	}

	backups, err := backup.NewManager(path).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

// checkValidation inspects the stored promises as they are on disk, so
// problems the store silently recovers from are still reported.
func checkValidation(ctx *cli.Context) error {
	data, err := ctx.Backend.Get(constants.KeyPromises)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read promises: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return fmt.Errorf("stored promises are empty; the journal starts empty")
	}

	if err := schema.Promises().Validate(data); err != nil {
		return fmt.Errorf("stored promises are unreadable and are being ignored: %w", err)
	}

	var entries []models.PromiseEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("stored promises are malformed: %w", err)
	}

	result := validation.New().ValidateEntries(entries)
	if result.HasConflicts() {
		return errors.New(result.FormatReport())
	}
	return nil
}

func checkClockTimezone(timezone string, now time.Time) error {
	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if !utils.ValidateTimezone(timezone) {
		return fmt.Errorf("configured timezone %q is not recognized", timezone)
	}
	return nil
}
