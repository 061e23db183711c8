package models

import (
	"slices"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// Frequency describes how often a habit is meant to be performed.
// It is stored with the habit but streak and completion statistics ignore it.
type Frequency struct {
	Type           constants.FrequencyType `json:"type" validate:"required,oneof=daily weekly custom"`
	DaysOfWeek     []int                   `json:"daysOfWeek,omitempty" validate:"omitempty,unique,dive,min=0,max=6"`
	CustomInterval int                     `json:"customInterval,omitempty" validate:"omitempty,gt=0"`
}

// DailyFrequency returns a daily frequency covering every day of the week
func DailyFrequency() Frequency {
	return Frequency{
		Type:       constants.FrequencyDaily,
		DaysOfWeek: []int{0, 1, 2, 3, 4, 5, 6},
	}
}

// Habit represents a tracked routine
type Habit struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Icon           string    `json:"icon,omitempty"`
	Color          string    `json:"color"`
	CompletedDates []string  `json:"completedDates"` // YYYY-MM-DD day keys, one entry per day
	CreatedAt      time.Time `json:"createdAt"`
	Frequency      Frequency `json:"frequency"`
}

// HabitDraft holds the caller-editable fields of a habit.
// Identity, creation time and completions are assigned by the store.
type HabitDraft struct {
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty" validate:"omitempty,habiticon"`
	Color       string    `json:"color" validate:"required,habitcolor"`
	Frequency   Frequency `json:"frequency"`
}

// HabitStats holds derived statistics for a habit. It is never persisted.
type HabitStats struct {
	CurrentStreak    int `json:"currentStreak"`
	LongestStreak    int `json:"longestStreak"`
	CompletionRate   int `json:"completionRate"` // percentage, not capped at 100
	TotalCompletions int `json:"totalCompletions"`
}

// Draft returns the editable fields of the habit
func (h Habit) Draft() HabitDraft {
	return HabitDraft{
		Name:        h.Name,
		Description: h.Description,
		Icon:        h.Icon,
		Color:       h.Color,
		Frequency:   h.Frequency,
	}
}

// ApplyDraft overwrites the editable fields of the habit with the draft values
func (h *Habit) ApplyDraft(d HabitDraft) {
	h.Name = d.Name
	h.Description = d.Description
	h.Icon = d.Icon
	h.Color = d.Color
	h.Frequency = d.Frequency
}

// IsCompleted reports whether the given day key is in the completed set
func (h Habit) IsCompleted(day string) bool {
	return slices.Contains(h.CompletedDates, day)
}

// Clone returns a copy of the habit that shares no slices with the original
func (h Habit) Clone() Habit {
	c := h
	c.CompletedDates = slices.Clone(h.CompletedDates)
	c.Frequency.DaysOfWeek = slices.Clone(h.Frequency.DaysOfWeek)
	return c
}
