// Package service is the entry point presentation code uses to work with
// habits. It composes the store, the streak engine and validation, and
// reports the outcome of every mutation through a Notifier.
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/streak"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

// Notification is a transient, user-facing outcome message
type Notification struct {
	Level       constants.NotificationLevel
	Title       string
	Description string
}

// Notifier delivers outcome messages to the user
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

type discard struct{}

func (discard) Notify(Notification) {}

type HabitService struct {
	store     *storage.HabitStore
	engine    *streak.Engine
	validator *validation.Validator
	notifier  Notifier
	clock     utils.Clock
}

// New builds a service over store. A nil notifier drops notifications and a
// nil clock reads the wall clock.
func New(store *storage.HabitStore, clock utils.Clock, notifier Notifier) *HabitService {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	if notifier == nil {
		notifier = discard{}
	}
	return &HabitService{
		store:     store,
		engine:    streak.New(clock),
		validator: validation.New(),
		notifier:  notifier,
		clock:     clock,
	}
}

// SetNotifier replaces the outcome channel
func (s *HabitService) SetNotifier(n Notifier) {
	if n == nil {
		n = discard{}
	}
	s.notifier = n
}

func (s *HabitService) Store() *storage.HabitStore { return s.store }

func (s *HabitService) Clock() utils.Clock { return s.clock }

func (s *HabitService) Validator() *validation.Validator { return s.validator }

func (s *HabitService) List() ([]models.Habit, error) {
	return s.store.LoadAll()
}

func (s *HabitService) Get(id string) (models.Habit, error) {
	return s.store.Get(id)
}

// Find resolves ref as an exact id, a unique id prefix or a case-insensitive
// name, in that order.
func (s *HabitService) Find(ref string) (models.Habit, error) {
	habits, err := s.store.LoadAll()
	if err != nil {
		return models.Habit{}, err
	}

	ref = strings.TrimSpace(ref)
	for _, h := range habits {
		if h.ID == ref {
			return h, nil
		}
	}

	var matches []models.Habit
	for _, h := range habits {
		if ref != "" && strings.HasPrefix(h.ID, ref) {
			matches = append(matches, h)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) > 1 {
		return models.Habit{}, fmt.Errorf("id prefix %q matches %d habits", ref, len(matches))
	}

	for _, h := range habits {
		if strings.EqualFold(strings.TrimSpace(h.Name), ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return models.Habit{}, fmt.Errorf("%w: %s", storage.ErrNotFound, ref)
	default:
		return models.Habit{}, fmt.Errorf("name %q matches %d habits, use the id instead", ref, len(matches))
	}
}

// Create validates draft and stores it as a new habit
func (s *HabitService) Create(draft models.HabitDraft) (models.Habit, error) {
	if err := s.validator.ValidateDraft(&draft); err != nil {
		s.reject(err)
		return models.Habit{}, err
	}

	h, err := s.store.Insert(draft)
	if err != nil {
		s.fail("create", err)
		return models.Habit{}, err
	}

	logger.Info("habit created", "id", h.ID, "name", h.Name)
	s.notify(constants.LevelSuccess, constants.MsgHabitCreated, "")
	return h, nil
}

// Update replaces every editable field of the stored habit with h's values.
// Identity and creation time are kept from the stored record.
func (s *HabitService) Update(h models.Habit) (models.Habit, error) {
	draft := h.Draft()
	if err := s.validator.ValidateDraft(&draft); err != nil {
		s.reject(err)
		return models.Habit{}, err
	}
	h = h.Clone()
	h.ApplyDraft(draft)

	if err := s.store.Replace(h); err != nil {
		s.fail("update", err)
		return models.Habit{}, err
	}

	updated, err := s.store.Get(h.ID)
	if err != nil {
		s.fail("update", err)
		return models.Habit{}, err
	}

	logger.Info("habit updated", "id", h.ID)
	s.notify(constants.LevelSuccess, constants.MsgHabitUpdated, "")
	return updated, nil
}

func (s *HabitService) Delete(id string) error {
	if err := s.store.Remove(id); err != nil {
		s.fail("delete", err)
		return err
	}

	logger.Info("habit deleted", "id", id)
	s.notify(constants.LevelSuccess, constants.MsgHabitDeleted, "")
	return nil
}

// Toggle flips today's completion for the habit
func (s *HabitService) Toggle(id string) (models.Habit, bool, error) {
	return s.ToggleOn(id, s.clock.Now())
}

// ToggleOn flips completion for the day containing at
func (s *HabitService) ToggleOn(id string, at time.Time) (models.Habit, bool, error) {
	h, completed, err := s.store.ToggleCompletionAt(id, at)
	if err != nil {
		s.fail("toggle", err)
		return models.Habit{}, false, err
	}

	if completed {
		s.notify(constants.LevelSuccess, constants.MsgHabitCompleted, fmt.Sprintf(constants.MsgCompletedDescription, h.Name))
	} else {
		s.notify(constants.LevelInfo, constants.MsgHabitIncomplete, fmt.Sprintf(constants.MsgIncompleteDescription, h.Name))
	}
	return h, completed, nil
}

func (s *HabitService) StatsFor(h models.Habit) models.HabitStats {
	return s.engine.Stats(h)
}

func (s *HabitService) CompletedToday(h models.Habit) bool {
	return storage.IsCompletedOn(h, s.clock.Now())
}

// DayKeysRange returns the last n day keys ending today, oldest first
func (s *HabitService) DayKeysRange(n int) []string {
	return utils.RangeEndingToday(s.clock, n)
}

// Refresh re-reads the store and reports whether it changed outside this process
func (s *HabitService) Refresh() (bool, error) {
	return s.store.Poll()
}

func (s *HabitService) notify(level constants.NotificationLevel, title, description string) {
	s.notifier.Notify(Notification{Level: level, Title: title, Description: description})
}

func (s *HabitService) reject(err error) {
	logger.Debug("habit draft rejected", "error", err)
	msg := strings.TrimPrefix(err.Error(), validation.ErrRejected.Error()+": ")
	if msg == constants.MsgHabitInvalid {
		s.notify(constants.LevelError, constants.MsgHabitInvalid, "")
		return
	}
	s.notify(constants.LevelError, constants.MsgHabitRejected, msg)
}

func (s *HabitService) fail(op string, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		logger.Warn("habit not found", "op", op, "error", err)
		s.notify(constants.LevelError, constants.MsgHabitNotFound, "")
		return
	}
	logger.Error("habit operation failed", "op", op, "error", err)
	s.notify(constants.LevelError, constants.MsgStorageFailed, err.Error())
}
