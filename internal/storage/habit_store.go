package storage

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// ChangeEvent is delivered to listeners whenever the stored collection changes.
type ChangeEvent struct {
	Source constants.ChangeSource
	Habits []models.Habit
}

// Listener receives change events. It is called outside the store lock and may
// call back into the store.
type Listener func(ChangeEvent)

// HabitStore owns the habit collection kept in a single provider slot.
type HabitStore struct {
	mu       sync.Mutex
	provider Provider
	clock    utils.Clock
	key      string
	digest   [sha256.Size]byte
	seen     bool

	listenersMu  sync.Mutex
	listeners    map[int]Listener
	nextListener int
}

func NewHabitStore(provider Provider, clock utils.Clock) *HabitStore {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &HabitStore{
		provider:  provider,
		clock:     clock,
		key:       constants.HabitsStorageKey,
		listeners: make(map[int]Listener),
	}
}

// Provider returns the backend the store persists through
func (s *HabitStore) Provider() Provider {
	return s.provider
}

// LoadAll returns the stored habits in creation order. A missing or malformed
// slot yields an empty collection.
func (s *HabitStore) LoadAll() ([]models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// SaveAll overwrites the stored collection with habits.
func (s *HabitStore) SaveAll(habits []models.Habit) error {
	s.mu.Lock()
	saved, err := s.save(habits)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(constants.ChangeLocal, saved)
	return nil
}

// Get returns the habit with the given id
func (s *HabitStore) Get(id string) (models.Habit, error) {
	habits, err := s.LoadAll()
	if err != nil {
		return models.Habit{}, err
	}
	idx := indexOf(habits, id)
	if idx < 0 {
		return models.Habit{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return habits[idx], nil
}

// Insert assigns identity, creation time and an empty completion set to the
// draft, appends it to the collection and persists.
func (s *HabitStore) Insert(draft models.HabitDraft) (models.Habit, error) {
	s.mu.Lock()
	habits, err := s.load()
	if err != nil {
		s.mu.Unlock()
		return models.Habit{}, err
	}

	habit := models.Habit{
		ID:             NewID(),
		CreatedAt:      s.clock.Now().UTC(),
		CompletedDates: []string{},
	}
	for indexOf(habits, habit.ID) >= 0 {
		habit.ID = NewID()
	}
	habit.ApplyDraft(draft)

	saved, err := s.save(append(habits, habit))
	s.mu.Unlock()
	if err != nil {
		return models.Habit{}, err
	}

	logger.Debug("habit inserted", "id", habit.ID, "name", habit.Name)
	s.notify(constants.ChangeLocal, saved)
	return habit.Clone(), nil
}

// Replace overwrites the stored habit that has h.ID. The stored id and
// creation time are kept.
func (s *HabitStore) Replace(h models.Habit) error {
	s.mu.Lock()
	habits, err := s.load()
	if err != nil {
		s.mu.Unlock()
		return err
	}

	idx := indexOf(habits, h.ID)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, h.ID)
	}

	updated := h.Clone()
	updated.CreatedAt = habits[idx].CreatedAt
	updated.CompletedDates = normalizeDates(updated.ID, updated.CompletedDates)
	habits[idx] = updated

	saved, err := s.save(habits)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	logger.Debug("habit replaced", "id", h.ID)
	s.notify(constants.ChangeLocal, saved)
	return nil
}

// Remove deletes the habit with the given id.
func (s *HabitStore) Remove(id string) error {
	s.mu.Lock()
	habits, err := s.load()
	if err != nil {
		s.mu.Unlock()
		return err
	}

	idx := indexOf(habits, id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	saved, err := s.save(slices.Delete(habits, idx, idx+1))
	s.mu.Unlock()
	if err != nil {
		return err
	}

	logger.Debug("habit removed", "id", id)
	s.notify(constants.ChangeLocal, saved)
	return nil
}

// ToggleCompletion flips today's completion for the habit.
func (s *HabitStore) ToggleCompletion(id string) (models.Habit, bool, error) {
	return s.ToggleCompletionAt(id, s.clock.Now())
}

// ToggleCompletionAt flips completion of the day containing at. The returned
// bool is true when the day is now completed.
func (s *HabitStore) ToggleCompletionAt(id string, at time.Time) (models.Habit, bool, error) {
	s.mu.Lock()
	habits, err := s.load()
	if err != nil {
		s.mu.Unlock()
		return models.Habit{}, false, err
	}

	idx := indexOf(habits, id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Habit{}, false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	day := utils.DayKeyOf(at)
	h := &habits[idx]
	completed := !h.IsCompleted(day)
	if completed {
		h.CompletedDates = append(h.CompletedDates, day)
	} else {
		h.CompletedDates = slices.DeleteFunc(h.CompletedDates, func(d string) bool { return d == day })
	}
	result := h.Clone()

	saved, err := s.save(habits)
	s.mu.Unlock()
	if err != nil {
		return models.Habit{}, false, err
	}

	logger.Debug("habit toggled", "id", id, "day", day, "completed", completed)
	s.notify(constants.ChangeLocal, saved)
	return result, completed, nil
}

// Subscribe registers l for change events and returns a function that
// removes it.
func (s *HabitStore) Subscribe(l Listener) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, id)
			s.listenersMu.Unlock()
		})
	}
}

// Poll re-reads the slot and reports whether it changed since this store last
// read or wrote it. Listeners receive an external change event when it did.
func (s *HabitStore) Poll() (bool, error) {
	s.mu.Lock()
	seen, before := s.seen, s.digest
	habits, err := s.load()
	changed := seen && s.digest != before
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	if changed {
		logger.Debug("habit slot changed externally", "habits", len(habits))
		s.notify(constants.ChangeExternal, habits)
	}
	return changed, nil
}

// IsCompletedOn reports whether h was completed on the day containing at
func IsCompletedOn(h models.Habit, at time.Time) bool {
	return h.IsCompleted(utils.DayKeyOf(at))
}

// load reads and decodes the slot. Must be called with s.mu held.
func (s *HabitStore) load() ([]models.Habit, error) {
	data, ok, err := s.provider.Read(s.key)
	if err == nil || errors.Is(err, ErrStorageUnreadable) {
		s.seen = true
	}
	if err != nil {
		if errors.Is(err, ErrStorageUnreadable) {
			logger.Warn("habit storage unreadable, using empty collection", "error", err)
			s.digest = sha256.Sum256(nil)
			return []models.Habit{}, nil
		}
		return nil, fmt.Errorf("failed to read habits: %w", err)
	}
	if !ok {
		s.digest = sha256.Sum256(nil)
		return []models.Habit{}, nil
	}

	s.digest = sha256.Sum256(data)

	var habits []models.Habit
	if err := json.Unmarshal(data, &habits); err != nil {
		logger.Warn("failed to parse stored habits, using empty collection",
			"error", fmt.Errorf("%w: %v", ErrStorageUnreadable, err))
		return []models.Habit{}, nil
	}
	if habits == nil {
		habits = []models.Habit{}
	}
	for i := range habits {
		if habits[i].CompletedDates == nil {
			habits[i].CompletedDates = []string{}
		}
	}
	return habits, nil
}

// save encodes and writes the slot. Must be called with s.mu held.
func (s *HabitStore) save(habits []models.Habit) ([]models.Habit, error) {
	if habits == nil {
		habits = []models.Habit{}
	}
	data, err := json.Marshal(habits)
	if err != nil {
		return nil, fmt.Errorf("failed to encode habits: %w", err)
	}
	if err := s.provider.Write(s.key, data); err != nil {
		return nil, fmt.Errorf("failed to write habits: %w", err)
	}
	s.digest = sha256.Sum256(data)
	s.seen = true
	return cloneAll(habits), nil
}

func (s *HabitStore) notify(source constants.ChangeSource, habits []models.Habit) {
	s.listenersMu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.listenersMu.Unlock()

	for _, l := range listeners {
		s.deliver(l, ChangeEvent{Source: source, Habits: cloneAll(habits)})
	}
}

func (s *HabitStore) deliver(l Listener, ev ChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("habit change listener panicked", "source", ev.Source, "panic", r)
		}
	}()
	l(ev)
}

func indexOf(habits []models.Habit, id string) int {
	return slices.IndexFunc(habits, func(h models.Habit) bool { return h.ID == id })
}

// normalizeDates drops invalid and duplicate day keys, keeping first
// occurrence order.
func normalizeDates(id string, dates []string) []string {
	out := make([]string, 0, len(dates))
	seen := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		if !utils.ValidateDayKey(d) {
			logger.Warn("dropping invalid completion date", "id", id, "date", d)
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

func cloneAll(habits []models.Habit) []models.Habit {
	out := make([]models.Habit, len(habits))
	for i, h := range habits {
		out[i] = h.Clone()
	}
	return out
}
