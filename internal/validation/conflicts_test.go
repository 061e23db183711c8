package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

var auditNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func habit(id, name string, dates ...string) models.Habit {
	return models.Habit{
		ID:             id,
		Name:           name,
		Color:          "bg-blue-500",
		CompletedDates: dates,
		Frequency:      models.DailyFrequency(),
	}
}

func countType(r ValidationResult, ct ConflictType) int {
	n := 0
	for _, c := range r.Conflicts {
		if c.Type == ct {
			n++
		}
	}
	return n
}

func TestValidateHabitsClean(t *testing.T) {
	r := New().ValidateHabits([]models.Habit{
		habit("1", "Read", "2024-06-14", "2024-06-15"),
		habit("2", "Run"),
	}, auditNow)

	if r.HasConflicts() {
		t.Errorf("unexpected conflicts: %s", r.FormatReport())
	}
	if r.FormatReport() != "No conflicts detected." {
		t.Errorf("FormatReport() = %q", r.FormatReport())
	}
}

func TestValidateHabitsFindsProblems(t *testing.T) {
	bad := habit("3", "Meditate", "2024-06-10", "2024-02-30", "2024-06-10", "2024-06-20")
	bad.Color = "plaid"

	r := New().ValidateHabits([]models.Habit{
		habit("1", "Read"),
		habit("1", "read"),
		bad,
		habit("4", "  "),
	}, auditNow)

	checks := map[ConflictType]int{
		ConflictDuplicateID:      1,
		ConflictDuplicateName:    1,
		ConflictEmptyName:        1,
		ConflictInvalidDate:      1,
		ConflictDuplicateDate:    1,
		ConflictFutureCompletion: 1,
		ConflictUnknownColor:     1,
	}
	for ct, want := range checks {
		if got := countType(r, ct); got != want {
			t.Errorf("%s conflicts = %d, want %d", ct, got, want)
		}
	}
	if !strings.HasPrefix(r.FormatReport(), "Conflicts detected:") {
		t.Errorf("FormatReport() = %q", r.FormatReport())
	}
}

func TestAutoFixCompletionDates(t *testing.T) {
	habits := []models.Habit{
		habit("1", "Read", "2024-06-10", "bogus", "2024-06-10", "2024-06-11"),
		habit("2", "Run", "2024-06-12"),
	}
	v := New()
	r := v.ValidateHabits(habits, auditNow)

	var replaced []models.Habit
	actions := AutoFixCompletionDates(r.Conflicts, habits, func(h models.Habit) error {
		replaced = append(replaced, h)
		return nil
	})

	if len(replaced) != 1 {
		t.Fatalf("replaced %d habits, want 1", len(replaced))
	}
	want := []string{"2024-06-10", "2024-06-11"}
	got := replaced[0].CompletedDates
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("CompletedDates = %v, want %v", got, want)
	}
	if len(actions) != 1 || !strings.Contains(actions[0].Action, "removed 2") {
		t.Errorf("actions = %+v", actions)
	}
	if habits[0].CompletedDates[1] != "bogus" {
		t.Error("input habit was mutated")
	}
}

func TestAutoFixReportsFailures(t *testing.T) {
	habits := []models.Habit{habit("1", "Read", "bogus")}
	r := New().ValidateHabits(habits, auditNow)

	actions := AutoFixCompletionDates(r.Conflicts, habits, func(models.Habit) error {
		return errors.New("disk full")
	})
	if len(actions) != 1 || !strings.Contains(actions[0].Action, "Failed") {
		t.Errorf("actions = %+v, want one failure", actions)
	}
}
