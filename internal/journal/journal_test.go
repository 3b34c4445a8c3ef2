package journal

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/keptword/internal/constants"
	apperrors "github.com/julianstephens/keptword/internal/errors"
	"github.com/julianstephens/keptword/internal/logger"
	"github.com/julianstephens/keptword/internal/models"
	"github.com/julianstephens/keptword/internal/schema"
	"github.com/julianstephens/keptword/internal/storage"
	"github.com/julianstephens/keptword/internal/storage/memory"
)

var fixedNow = time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestJournal(t *testing.T, backend storage.Backend) *Journal {
	t.Helper()
	store := storage.New(backend, storage.WithValidator(constants.KeyPromises, schema.Promises()))
	return New(store, WithClock(func() time.Time { return fixedNow }), WithIDFunc(sequentialIDs()))
}

func request(person, desc, follow string) models.SaveRequest {
	return models.SaveRequest{PersonName: person, Description: desc, FollowUpDate: follow}
}

func TestSaveCreate(t *testing.T) {
	j := newTestJournal(t, memory.New())

	e, err := j.Save(request("  Alex ", "Return the book", "2024-01-01"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if e.ID != "id-1" {
		t.Errorf("ID = %q, want id-1", e.ID)
	}
	if e.PersonName != "Alex" {
		t.Errorf("PersonName = %q, want trimmed", e.PersonName)
	}
	if e.Status != models.StatusPending {
		t.Errorf("Status = %q, want Pending", e.Status)
	}
	if e.DateMade != "2024-06-01" {
		t.Errorf("DateMade = %q, want today", e.DateMade)
	}
	if e.CreatedAt != "2024-06-01T15:30:00.000Z" {
		t.Errorf("CreatedAt = %q", e.CreatedAt)
	}
	if j.Count() != 1 {
		t.Errorf("Count() = %d, want 1", j.Count())
	}
}

func TestSaveAssignsFreshIDs(t *testing.T) {
	store := storage.New(memory.New())
	// Generator that repeats itself once
	ids := []string{"dup", "dup", "other"}
	j := New(store, WithIDFunc(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}))

	first, err := j.Save(request("A", "a", "2024-01-01"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	second, err := j.Save(request("B", "b", "2024-01-01"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if first.ID == second.ID {
		t.Errorf("both entries got ID %q", first.ID)
	}
}

func TestSaveUpdatePreservesIdentity(t *testing.T) {
	backend := memory.New()
	j := newTestJournal(t, backend)

	a, _ := j.Save(request("Alex", "Return the book", "2024-01-01"))
	b, _ := j.Save(request("Sam", "Send the file", "2024-02-01"))

	j.now = func() time.Time { return fixedNow.Add(48 * time.Hour) }
	updated, err := j.Save(models.SaveRequest{
		ID:           a.ID,
		PersonName:   "Alexandra",
		Description:  "Return both books",
		DateMade:     "2023-12-01",
		FollowUpDate: "2024-03-01",
		Notes:        "the blue one too",
		Status:       models.StatusFulfilled,
		RemindMe:     true,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.ID != a.ID || updated.CreatedAt != a.CreatedAt {
		t.Errorf("update changed identity: %+v vs %+v", updated, a)
	}
	if updated.PersonName != "Alexandra" || updated.Status != models.StatusFulfilled || !updated.RemindMe {
		t.Errorf("update did not apply fields: %+v", updated)
	}

	// Position in storage order is kept, and it survives a fresh journal
	entries := newTestJournal(t, backend).Entries()
	if len(entries) != 2 || entries[0].ID != a.ID || entries[1].ID != b.ID {
		t.Fatalf("unexpected order after update: %+v", entries)
	}
	if entries[0] != updated {
		t.Errorf("persisted entry = %+v, want %+v", entries[0], updated)
	}
}

func TestSaveUpdateUnknownID(t *testing.T) {
	j := newTestJournal(t, memory.New())

	req := request("Alex", "x", "2024-01-01")
	req.ID = "missing"
	if _, err := j.Save(req); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Save() error = %v, want ErrNotFound", err)
	}
	if j.Count() != 0 {
		t.Error("unknown-ID update must not create an entry")
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	backend := memory.New()
	j := newTestJournal(t, backend)

	_, err := j.Save(request("", "desc", ""))
	if !apperrors.IsValidation(err) {
		t.Fatalf("Save() error = %v, want ValidationError", err)
	}
	if j.Count() != 0 {
		t.Error("invalid request was applied in memory")
	}
	if _, err := backend.Get(constants.KeyPromises); !errors.Is(err, storage.ErrNotFound) {
		t.Error("invalid request reached the backend")
	}
}

func TestSavePersistenceFailure(t *testing.T) {
	backend := memory.New()
	j := newTestJournal(t, backend)
	backend.SetWriteError(errors.New("quota exceeded"))

	_, err := j.Save(request("Alex", "x", "2024-01-01"))
	if !apperrors.IsPersistence(err) {
		t.Fatalf("Save() error = %v, want PersistenceWriteError", err)
	}
	if j.Count() != 1 {
		t.Errorf("in-memory collection should keep the entry, Count() = %d", j.Count())
	}

	n := NotificationFor(OpCreate, err)
	if n.Message != "Failed to save promise" || !n.IsError() {
		t.Errorf("NotificationFor() = %+v", n)
	}
}

func TestDelete(t *testing.T) {
	j := newTestJournal(t, memory.New())
	a, _ := j.Save(request("Alex", "a", "2024-01-01"))
	b, _ := j.Save(request("Sam", "b", "2024-01-02"))

	if err := j.Delete(a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := j.Get(a.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
	}
	if got, err := j.Get(b.ID); err != nil || got.ID != b.ID {
		t.Errorf("Get(%s) = %+v, %v", b.ID, got, err)
	}
	if err := j.Delete(a.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
}

func TestClearAllKeepsOnboarding(t *testing.T) {
	backend := memory.New()
	j := newTestJournal(t, backend)

	if j.HasOnboarded() {
		t.Fatal("fresh journal should not be onboarded")
	}
	if err := j.CompleteOnboarding(); err != nil {
		t.Fatalf("CompleteOnboarding failed: %v", err)
	}
	j.Save(request("Alex", "a", "2024-01-01"))

	for i := 0; i < 2; i++ {
		if err := j.ClearAll(); err != nil {
			t.Fatalf("ClearAll #%d failed: %v", i+1, err)
		}
	}

	fresh := newTestJournal(t, backend)
	if fresh.Count() != 0 {
		t.Errorf("Count() after clear = %d, want 0", fresh.Count())
	}
	if !fresh.HasOnboarded() {
		t.Error("ClearAll should not reset onboarding")
	}
}

func TestViewUsesClock(t *testing.T) {
	j := newTestJournal(t, memory.New())
	j.Save(request("Alex", "return book", "2024-01-01"))
	j.Save(request("Sam", "send file", "2023-01-01"))

	result := j.View(models.DefaultFilter())
	if result.Overdue != 2 {
		t.Errorf("Overdue = %d, want 2", result.Overdue)
	}
	if len(result.Entries) != 2 || result.Entries[0].PersonName != "Sam" {
		t.Errorf("unexpected order: %+v", result.Entries)
	}

	j.now = func() time.Time { return time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC) }
	if got := j.View(models.DefaultFilter()).Overdue; got != 1 {
		t.Errorf("Overdue with earlier clock = %d, want 1", got)
	}
}

func TestResolveID(t *testing.T) {
	store := storage.New(memory.New())
	ids := []string{"abc123", "abd456", "xyz789"}
	j := New(store, WithIDFunc(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}))
	for i := 0; i < 3; i++ {
		j.Save(request("P", "d", "2024-01-01"))
	}

	tests := []struct {
		prefix  string
		want    string
		wantErr bool
	}{
		{"abc123", "abc123", false},
		{"abc", "abc123", false},
		{"x", "xyz789", false},
		{"ab", "", true},
		{"nope", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := j.ResolveID(tt.prefix)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ResolveID(%q) = %q, %v; want %q (err %v)", tt.prefix, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestNotificationFor(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		op      Op
		err     error
		message string
		isError bool
	}{
		{OpCreate, nil, "Promise added successfully", false},
		{OpUpdate, nil, "Promise updated successfully", false},
		{OpDelete, nil, "Promise deleted", false},
		{OpClear, nil, "All data cleared", false},
		{OpCreate, boom, "Failed to save promise", true},
		{OpUpdate, boom, "Failed to save promise", true},
		{OpDelete, boom, "Failed to delete promise", true},
		{OpClear, boom, "Failed to clear data", true},
	}

	for _, tt := range tests {
		n := NotificationFor(tt.op, tt.err)
		if n.Message != tt.message || n.IsError() != tt.isError {
			t.Errorf("NotificationFor(%s, %v) = %+v", tt.op, tt.err, n)
		}
	}
}

func TestOpFor(t *testing.T) {
	if got := OpFor(request("Alex", "a", "2024-01-01")); got != OpCreate {
		t.Errorf("OpFor(new) = %q, want create", got)
	}
	req := request("Alex", "a", "2024-01-01")
	req.ID = "id-1"
	if got := OpFor(req); got != OpUpdate {
		t.Errorf("OpFor(existing) = %q, want update", got)
	}
}

func TestMutationsAreLoggedWithOp(t *testing.T) {
	dir := t.TempDir()
	if err := logger.Init(logger.Config{ConfigDir: dir}); err != nil {
		t.Fatalf("logger.Init() error = %v", err)
	}
	t.Cleanup(func() {
		logger.Close()
		logger.Logger = nil
	})

	j := newTestJournal(t, memory.New())
	e, err := j.Save(request("Alex", "a", "2024-01-01"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := j.Delete(e.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := j.Save(request("", "", "")); err == nil {
		t.Fatal("Save() accepted an empty request")
	}

	data, err := os.ReadFile(logger.Path(dir))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	for _, want := range []string{"op=create", "op=delete", "id=id-1", "Rejected promise"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log missing %q:\n%s", want, data)
		}
	}
}
