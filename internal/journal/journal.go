// Package journal is the single mutation path for promises. Every surface
// goes through it so that validation, persistence and logging stay uniform.
package journal

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/keptword/internal/constants"
	apperrors "github.com/julianstephens/keptword/internal/errors"
	"github.com/julianstephens/keptword/internal/logger"
	"github.com/julianstephens/keptword/internal/models"
	"github.com/julianstephens/keptword/internal/storage"
	"github.com/julianstephens/keptword/internal/validation"
	"github.com/julianstephens/keptword/internal/view"
)

// Option configures a Journal
type Option func(*Journal)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// WithIDFunc replaces the UUID generator
func WithIDFunc(newID func() string) Option {
	return func(j *Journal) { j.newID = newID }
}

type Journal struct {
	store     *storage.Store
	promises  *storage.Slot[[]models.PromiseEntry]
	onboarded *storage.Slot[bool]
	cache     *view.Cache

	now   func() time.Time
	newID func() string
}

// New binds the promises and hasOnboarded slots of store
func New(store *storage.Store, opts ...Option) *Journal {
	j := &Journal{
		store:     store,
		promises:  storage.NewSlot(store, constants.KeyPromises, []models.PromiseEntry{}),
		onboarded: storage.NewSlot(store, constants.KeyHasOnboarded, false),
		cache:     view.NewCache(),
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Store returns the underlying store
func (j *Journal) Store() *storage.Store {
	return j.store
}

// Now returns the journal's current time
func (j *Journal) Now() time.Time {
	return j.now()
}

// Entries returns a copy of the collection in storage order
func (j *Journal) Entries() []models.PromiseEntry {
	return slices.Clone(j.promises.Get())
}

func (j *Journal) Count() int {
	return len(j.promises.Get())
}

// Get returns the entry with the given ID
func (j *Journal) Get(id string) (models.PromiseEntry, error) {
	for _, e := range j.promises.Get() {
		if e.ID == id {
			return e, nil
		}
	}
	return models.PromiseEntry{}, fmt.Errorf("%w: %s", apperrors.ErrNotFound, id)
}

// ResolveID expands a unique ID prefix to the full ID
func (j *Journal) ResolveID(prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("%w: empty ID", apperrors.ErrNotFound)
	}

	var matches []string
	for _, e := range j.promises.Get() {
		if e.ID == prefix {
			return e.ID, nil
		}
		if strings.HasPrefix(e.ID, prefix) {
			matches = append(matches, e.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", apperrors.ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ID prefix %q is ambiguous (%d matches)", prefix, len(matches))
	}
}

// View derives the journal view for filter using the current time
func (j *Journal) View(filter models.FilterState) view.Result {
	return j.cache.Compute(j.promises.Get(), filter, j.now())
}

// Save creates a new entry when req has no ID and updates the matching
// entry otherwise. Invalid requests are rejected before anything is written.
//
// A PersistenceWriteError means the change is visible in memory but did not
// reach the backend.
func (j *Journal) Save(req models.SaveRequest) (models.PromiseEntry, error) {
	if err := validation.ValidateRequest(req); err != nil {
		logger.Op(string(OpFor(req))).Warn("Rejected promise", "error", err)
		return models.PromiseEntry{}, err
	}

	if req.IsUpdate() {
		return j.update(req)
	}
	return j.create(req)
}

// OpFor names the operation a save request performs
func OpFor(req models.SaveRequest) Op {
	if req.IsUpdate() {
		return OpUpdate
	}
	return OpCreate
}

func (j *Journal) create(req models.SaveRequest) (models.PromiseEntry, error) {
	now := j.now()
	var saved models.PromiseEntry

	_, err := j.promises.Update(func(current []models.PromiseEntry) ([]models.PromiseEntry, error) {
		saved = models.PromiseEntry{
			ID:        j.uniqueID(current),
			CreatedAt: now.UTC().Format(constants.TimestampFormat),
		}
		applyRequest(&saved, req, now)
		return append(slices.Clone(current), saved), nil
	})
	if err != nil {
		logger.Op(string(OpCreate)).Error("Failed to save promise", "id", saved.ID, "error", err)
		return saved, err
	}

	logger.Op(string(OpCreate)).Info("Promise added", "id", saved.ID, "person", saved.PersonName)
	return saved, nil
}

func (j *Journal) update(req models.SaveRequest) (models.PromiseEntry, error) {
	now := j.now()
	var saved models.PromiseEntry

	_, err := j.promises.Update(func(current []models.PromiseEntry) ([]models.PromiseEntry, error) {
		idx := slices.IndexFunc(current, func(e models.PromiseEntry) bool { return e.ID == req.ID })
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, req.ID)
		}

		next := slices.Clone(current)
		applyRequest(&next[idx], req, now)
		saved = next[idx]
		return next, nil
	})
	if err != nil {
		logger.Op(string(OpUpdate)).Error("Failed to update promise", "id", req.ID, "error", err)
		return saved, err
	}

	logger.Op(string(OpUpdate)).Info("Promise updated", "id", saved.ID, "status", saved.Status)
	return saved, nil
}

// applyRequest copies the mutable fields of req onto e. ID and CreatedAt are
// left alone.
func applyRequest(e *models.PromiseEntry, req models.SaveRequest, now time.Time) {
	e.PersonName = strings.TrimSpace(req.PersonName)
	e.Description = strings.TrimSpace(req.Description)
	e.FollowUpDate = strings.TrimSpace(req.FollowUpDate)
	e.Notes = req.Notes
	e.RemindMe = req.RemindMe

	e.DateMade = strings.TrimSpace(req.DateMade)
	if e.DateMade == "" {
		e.DateMade = now.Format(constants.DateFormat)
	}

	e.Status = req.Status
	if e.Status == "" {
		e.Status = models.StatusPending
	}
}

func (j *Journal) uniqueID(existing []models.PromiseEntry) string {
	for {
		id := j.newID()
		if !slices.ContainsFunc(existing, func(e models.PromiseEntry) bool { return e.ID == id }) {
			return id
		}
		logger.Op(string(OpCreate)).Warn("Generated ID collided with an existing entry, retrying", "id", id)
	}
}

// Delete removes the entry with the given ID
func (j *Journal) Delete(id string) error {
	_, err := j.promises.Update(func(current []models.PromiseEntry) ([]models.PromiseEntry, error) {
		idx := slices.IndexFunc(current, func(e models.PromiseEntry) bool { return e.ID == id })
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, id)
		}
		return slices.Delete(slices.Clone(current), idx, idx+1), nil
	})
	if err != nil {
		logger.Op(string(OpDelete)).Error("Failed to delete promise", "id", id, "error", err)
		return err
	}

	logger.Op(string(OpDelete)).Info("Promise deleted", "id", id)
	return nil
}

// ClearAll empties the collection. The onboarding flag is kept.
func (j *Journal) ClearAll() error {
	if err := j.promises.Reset(); err != nil {
		logger.Op(string(OpClear)).Error("Failed to clear promises", "error", err)
		return err
	}
	logger.Op(string(OpClear)).Info("All promises cleared")
	return nil
}

func (j *Journal) HasOnboarded() bool {
	return j.onboarded.Get()
}

// CompleteOnboarding records that the welcome screen has been dismissed
func (j *Journal) CompleteOnboarding() error {
	if err := j.onboarded.Set(true); err != nil {
		logger.Op(string(OpOnboard)).Error("Failed to record onboarding", "error", err)
		return err
	}
	logger.Op(string(OpOnboard)).Info("Onboarding completed")
	return nil
}
