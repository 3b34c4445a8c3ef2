package export

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/keptword/internal/models"
)

var exportNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func exportEntries() []models.PromiseEntry {
	return []models.PromiseEntry{
		{
			ID: "1", PersonName: "Sam", Description: "send file",
			DateMade: "2022-12-01", FollowUpDate: "2023-01-01",
			Status: models.StatusPending, CreatedAt: "2022-12-01T10:00:00.000Z",
		},
		{
			ID: "2", PersonName: "Alex", Description: "return book",
			DateMade: "2024-05-01", FollowUpDate: "2024-07-01", Notes: "hardcover",
			Status: models.StatusFulfilled, RemindMe: true, CreatedAt: "2024-05-01T10:00:00.000Z",
		},
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]string{
		"out.xlsx":  FormatXLSX,
		"OUT.JSON":  FormatJSON,
		"out.txt":   "fallback",
		"no-suffix": "fallback",
	}
	for path, want := range tests {
		if got := FormatForPath(path, "fallback"); got != want {
			t.Errorf("FormatForPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, exportEntries(), exportNow); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0]["personName"] != "Sam" {
		t.Errorf("unexpected JSON: %s", buf.String())
	}
	if _, ok := decoded[0]["notes"]; ok {
		t.Error("empty notes should be omitted")
	}

	buf.Reset()
	if err := JSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "[]\n" {
		t.Errorf("JSON(nil) = %q, want []", got)
	}
}

func TestWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promises.xlsx")
	if err := ToFile(path, FormatXLSX, exportEntries(), exportNow); err != nil {
		t.Fatalf("ToFile failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open exported workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != promisesSheet || sheets[1] != summarySheet {
		t.Fatalf("sheets = %v", sheets)
	}

	rows, err := f.GetRows(promisesSheet)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][6] != "Overdue" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "Sam" || rows[1][6] != "yes" {
		t.Errorf("first row = %v, want Sam overdue", rows[1])
	}
	if rows[2][6] != "no" || rows[2][7] != "yes" || rows[2][8] != "hardcover" {
		t.Errorf("second row = %v", rows[2])
	}

	summary, err := f.GetRows(summarySheet)
	if err != nil {
		t.Fatalf("GetRows(summary) failed: %v", err)
	}
	want := map[string]string{"Pending": "1", "Fulfilled": "1", "Broken": "0", "Overdue": "1", "Total": "2"}
	for _, r := range summary[1:] {
		if w, ok := want[r[0]]; ok && r[1] != w {
			t.Errorf("summary %s = %s, want %s", r[0], r[1], w)
		}
	}
}

func TestWriteUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "csv", exportEntries(), exportNow); err == nil {
		t.Error("expected error for unsupported format")
	}
}
