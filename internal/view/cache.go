package view

import (
	"slices"
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/julianstephens/keptword/internal/logger"
	"github.com/julianstephens/keptword/internal/models"
)

// Cache memoizes the person list and filtered entries for the last
// (entries, filter) pair it saw. The overdue count depends on the clock and
// is recomputed on every call.
type Cache struct {
	mu      sync.Mutex
	key     uint64
	valid   bool
	people  []string
	entries []models.PromiseEntry

	hits, misses int
}

type cacheKey struct {
	Entries []models.PromiseEntry
	Filter  models.FilterState
}

func NewCache() *Cache {
	return &Cache{}
}

// Compute returns the same Result as the package-level Compute
func (c *Cache) Compute(entries []models.PromiseEntry, filter models.FilterState, now time.Time) Result {
	key, err := hashstructure.Hash(cacheKey{Entries: entries, Filter: filter}, hashstructure.FormatV2, nil)
	if err != nil {
		logger.Warn("Failed to hash view inputs, computing without cache", "error", err)
		return Compute(entries, filter, now)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	state := "hit"
	if c.valid && c.key == key {
		c.hits++
	} else {
		state = "miss"
		c.misses++
		c.key = key
		c.valid = true
		c.people = People(entries)
		c.entries = Filter(entries, filter)
	}
	logger.Debug("View computed", "cache", state, "hits", c.hits, "misses", c.misses, "shown", len(c.entries))

	return Result{
		People:  slices.Clone(c.people),
		Entries: slices.Clone(c.entries),
		Overdue: CountOverdue(entries, now),
	}
}
