package validation

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// ConflictType represents the type of problem found in a stored collection
type ConflictType string

const (
	ConflictDuplicateID      ConflictType = "duplicate_id"
	ConflictDuplicateName    ConflictType = "duplicate_name"
	ConflictEmptyName        ConflictType = "empty_name"
	ConflictInvalidDate      ConflictType = "invalid_date"
	ConflictDuplicateDate    ConflictType = "duplicate_date"
	ConflictFutureCompletion ConflictType = "future_completion"
	ConflictUnknownColor     ConflictType = "unknown_color"
)

// Conflict represents a detected problem with one or more habits
type Conflict struct {
	Type        ConflictType
	Description string
	HabitIDs    []string
	Dates       []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// ValidateHabits audits a stored collection. Completions after the day
// containing now are reported as future completions.
func (v *Validator) ValidateHabits(habits []models.Habit, now time.Time) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	today := utils.DayKeyOf(now)

	idCount := make(map[string]int)
	nameIDs := make(map[string][]string)
	var names []string
	for _, h := range habits {
		idCount[h.ID]++
		key := strings.ToLower(strings.TrimSpace(h.Name))
		if key == "" {
			continue
		}
		if _, seen := nameIDs[key]; !seen {
			names = append(names, key)
		}
		nameIDs[key] = append(nameIDs[key], h.ID)
	}

	ids := make([]string, 0, len(idCount))
	for id, n := range idCount {
		if n > 1 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateID,
			Description: fmt.Sprintf("Habit id %s is used by %d habits", id, idCount[id]),
			HabitIDs:    []string{id},
		})
	}

	for _, name := range names {
		if ids := nameIDs[name]; len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateName,
				Description: fmt.Sprintf("Duplicate habit name: %q (IDs: %v)", name, ids),
				HabitIDs:    ids,
			})
		}
	}

	for _, h := range habits {
		if strings.TrimSpace(h.Name) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyName,
				Description: fmt.Sprintf("Habit %s has an empty name", h.ID),
				HabitIDs:    []string{h.ID},
			})
		}

		if !slices.Contains(constants.HabitColors, h.Color) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnknownColor,
				Description: fmt.Sprintf("Habit %q uses unknown color %q", h.Name, h.Color),
				HabitIDs:    []string{h.ID},
			})
		}

		var invalid, dupes, future []string
		seen := make(map[string]bool, len(h.CompletedDates))
		for _, d := range h.CompletedDates {
			switch {
			case !utils.ValidateDayKey(d):
				invalid = append(invalid, d)
			case seen[d]:
				dupes = append(dupes, d)
			case d > today:
				future = append(future, d)
			}
			seen[d] = true
		}

		if len(invalid) > 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Habit %q has invalid completion dates: %v", h.Name, invalid),
				HabitIDs:    []string{h.ID},
				Dates:       invalid,
			})
		}
		if len(dupes) > 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateDate,
				Description: fmt.Sprintf("Habit %q has repeated completion dates: %v", h.Name, dupes),
				HabitIDs:    []string{h.ID},
				Dates:       dupes,
			})
		}
		if len(future) > 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictFutureCompletion,
				Description: fmt.Sprintf("Habit %q is completed on days after today: %v", h.Name, future),
				HabitIDs:    []string{h.ID},
				Dates:       future,
			})
		}
	}

	return result
}

// AutoFixCompletionDates repairs invalid and repeated completion dates by
// writing a cleaned copy of each affected habit through replaceFunc. Other
// conflict types need a human decision and are left alone.
func AutoFixCompletionDates(conflicts []Conflict, habits []models.Habit, replaceFunc func(models.Habit) error) []FixAction {
	actions := []FixAction{}

	byID := make(map[string]models.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}

	for _, c := range conflicts {
		if c.Type != ConflictInvalidDate && c.Type != ConflictDuplicateDate {
			continue
		}

		for _, id := range c.HabitIDs {
			h, ok := byID[id]
			if !ok {
				continue
			}

			cleaned := h.Clone()
			cleaned.CompletedDates = cleanDates(h.CompletedDates)
			if slices.Equal(cleaned.CompletedDates, h.CompletedDates) {
				continue
			}

			if err := replaceFunc(cleaned); err != nil {
				actions = append(actions, FixAction{
					Action:         fmt.Sprintf("Failed to repair completion dates for %q: %v", h.Name, err),
					SourceConflict: c,
				})
				continue
			}

			byID[id] = cleaned
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Repaired completion dates for %q (removed %d)", h.Name, len(h.CompletedDates)-len(cleaned.CompletedDates)),
				SourceConflict: c,
			})
		}
	}

	return actions
}

func cleanDates(dates []string) []string {
	out := make([]string, 0, len(dates))
	seen := make(map[string]bool, len(dates))
	for _, d := range dates {
		if !utils.ValidateDayKey(d) || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}
