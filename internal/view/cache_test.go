package view

import (
	"slices"
	"testing"
	"time"

	"github.com/julianstephens/keptword/internal/models"
)

func TestCacheMemoizesFilteredView(t *testing.T) {
	entries := []models.PromiseEntry{
		entry("1", "Alex", "x", "2024-01-02", models.StatusPending),
		entry("2", "Sam", "y", "2024-01-01", models.StatusPending),
	}
	c := NewCache()

	before := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	after := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	first := c.Compute(entries, models.DefaultFilter(), before)
	second := c.Compute(entries, models.DefaultFilter(), after)

	if c.hits != 1 || c.misses != 1 {
		t.Errorf("cache saw %d hits, %d misses; want 1, 1", c.hits, c.misses)
	}
	if !slices.Equal(ids(first.Entries), ids(second.Entries)) {
		t.Errorf("cached entries differ: %v vs %v", ids(first.Entries), ids(second.Entries))
	}

	// Overdue follows the clock even on a cache hit
	if first.Overdue != 0 || second.Overdue != 2 {
		t.Errorf("Overdue = %d then %d, want 0 then 2", first.Overdue, second.Overdue)
	}
}

func TestCacheMissesOnChangedInput(t *testing.T) {
	entries := []models.PromiseEntry{
		entry("1", "Alex", "x", "2024-01-02", models.StatusPending),
	}
	c := NewCache()
	now := time.Now()

	c.Compute(entries, models.DefaultFilter(), now)

	changed := slices.Clone(entries)
	changed[0].Status = models.StatusFulfilled
	got := c.Compute(changed, models.FilterState{Status: "Pending", Person: "All"}, now)
	if len(got.Entries) != 0 {
		t.Errorf("stale cache result: %v", ids(got.Entries))
	}

	c.Compute(changed, models.FilterState{Search: "x", Status: "All", Person: "All"}, now)

	if c.misses != 3 {
		t.Errorf("misses = %d, want 3", c.misses)
	}
}

func TestCacheResultIsACopy(t *testing.T) {
	entries := []models.PromiseEntry{
		entry("1", "Alex", "x", "2024-01-02", models.StatusPending),
		entry("2", "Sam", "y", "2024-01-01", models.StatusPending),
	}
	c := NewCache()
	now := time.Now()

	first := c.Compute(entries, models.DefaultFilter(), now)
	first.Entries[0].PersonName = "Mallory"
	first.People[0] = "Mallory"
	slices.Reverse(first.Entries)

	second := c.Compute(entries, models.DefaultFilter(), now)
	if c.hits != 1 {
		t.Fatalf("hits = %d, want 1", c.hits)
	}
	if !slices.Equal(second.People, []string{"Alex", "Sam"}) {
		t.Errorf("People = %v, want [Alex Sam]", second.People)
	}
	for _, e := range second.Entries {
		if e.PersonName == "Mallory" {
			t.Errorf("cached entry was mutated through a previous result: %+v", e)
		}
	}
	if !slices.Equal(ids(second.Entries), ids(Compute(entries, models.DefaultFilter(), now).Entries)) {
		t.Errorf("cached order changed: %v", ids(second.Entries))
	}
}
