// Package export writes a journal view to a spreadsheet or JSON document.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/keptword/internal/models"
	"github.com/julianstephens/keptword/internal/view"
)

const (
	FormatXLSX = "xlsx"
	FormatJSON = "json"

	promisesSheet = "Promises"
	summarySheet  = "Summary"
)

var headers = []string{"ID", "Person", "Description", "Date made", "Follow up", "Status", "Overdue", "Remind me", "Notes", "Created at"}

// FormatForPath guesses the export format from the file extension,
// falling back to def.
func FormatForPath(path, def string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX
	case ".json":
		return FormatJSON
	}
	return def
}

// ToFile writes entries to path in the given format
func ToFile(path, format string, entries []models.PromiseEntry, now time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := Write(f, format, entries, now); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// Write encodes entries to w
func Write(w io.Writer, format string, entries []models.PromiseEntry, now time.Time) error {
	switch format {
	case FormatJSON:
		return JSON(w, entries)
	case FormatXLSX:
		wb, err := Workbook(entries, now)
		if err != nil {
			return err
		}
		defer wb.Close()
		if _, err := wb.WriteTo(w); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// JSON writes entries using the persisted field names
func JSON(w io.Writer, entries []models.PromiseEntry) error {
	if entries == nil {
		entries = []models.PromiseEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to encode entries: %w", err)
	}
	return nil
}

// Workbook builds a spreadsheet with one row per entry and a per-status summary
func Workbook(entries []models.PromiseEntry, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", promisesSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writePromises(f, entries, now); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write %s sheet: %w", promisesSheet, err)
	}
	if err := writeSummary(f, entries, now); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write %s sheet: %w", summarySheet, err)
	}
	return f, nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
}

func writePromises(f *excelize.File, entries []models.PromiseEntry, now time.Time) error {
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(promisesSheet, "A1", &header); err != nil {
		return err
	}

	bold, err := headerStyle(f)
	if err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(promisesSheet, "A1", lastCol+"1", bold); err != nil {
		return err
	}

	overdueStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "#C62828", Bold: true}})
	if err != nil {
		return err
	}

	for i, e := range entries {
		row := i + 2
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}

		overdue := view.IsOverdue(e, now)
		values := []any{
			e.ID, e.PersonName, e.Description, e.DateMade, e.FollowUpDate,
			string(e.Status), yesNo(overdue), yesNo(e.RemindMe), e.Notes, e.CreatedAt,
		}
		if err := f.SetSheetRow(promisesSheet, cell, &values); err != nil {
			return err
		}

		if overdue {
			followUp, _ := excelize.CoordinatesToCellName(5, row)
			if err := f.SetCellStyle(promisesSheet, followUp, followUp, overdueStyle); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(promisesSheet, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(promisesSheet, "B", "C", 30); err != nil {
		return err
	}
	if err := f.SetColWidth(promisesSheet, "I", "I", 40); err != nil {
		return err
	}

	if err := f.SetPanes(promisesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	lastRow := len(entries) + 1
	return f.AutoFilter(promisesSheet, fmt.Sprintf("A1:%s%d", lastCol, lastRow), nil)
}

func writeSummary(f *excelize.File, entries []models.PromiseEntry, now time.Time) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	counts := make(map[models.Status]int)
	for _, e := range entries {
		counts[e.Status]++
	}

	rows := [][]any{{"Status", "Count"}}
	for _, s := range models.AllStatuses() {
		rows = append(rows, []any{string(s), counts[s]})
	}
	rows = append(rows,
		[]any{"Overdue", view.CountOverdue(entries, now)},
		[]any{"Total", len(entries)},
		[]any{"Exported at", now.Format(time.RFC3339)},
	)

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &r); err != nil {
			return err
		}
	}

	bold, err := headerStyle(f)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", bold); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "A", "B", 16)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
