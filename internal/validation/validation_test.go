package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

func TestValidateDraft(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		draft   models.HabitDraft
		wantErr string
	}{
		{
			name:  "minimal daily",
			draft: models.HabitDraft{Name: "Read"},
		},
		{
			name: "weekly with days",
			draft: models.HabitDraft{
				Name:      "Gym",
				Color:     "bg-red-500",
				Icon:      "dumbbell",
				Frequency: models.Frequency{Type: constants.FrequencyWeekly, DaysOfWeek: []int{1, 3, 5}},
			},
		},
		{
			name: "custom interval",
			draft: models.HabitDraft{
				Name:      "Water plants",
				Frequency: models.Frequency{Type: constants.FrequencyCustom, CustomInterval: 3},
			},
		},
		{
			name:    "empty name",
			draft:   models.HabitDraft{Name: ""},
			wantErr: constants.MsgHabitInvalid,
		},
		{
			name:    "whitespace name",
			draft:   models.HabitDraft{Name: "   \t"},
			wantErr: constants.MsgHabitInvalid,
		},
		{
			name:    "unknown color",
			draft:   models.HabitDraft{Name: "Read", Color: "bg-black-900"},
			wantErr: "unknown color",
		},
		{
			name:    "unknown icon",
			draft:   models.HabitDraft{Name: "Read", Icon: "rocket"},
			wantErr: "unknown icon",
		},
		{
			name:    "unknown frequency",
			draft:   models.HabitDraft{Name: "Read", Frequency: models.Frequency{Type: "hourly"}},
			wantErr: "unknown frequency",
		},
		{
			name:    "weekday out of range",
			draft:   models.HabitDraft{Name: "Read", Frequency: models.Frequency{Type: constants.FrequencyWeekly, DaysOfWeek: []int{1, 7}}},
			wantErr: "between 0",
		},
		{
			name:    "repeated weekday",
			draft:   models.HabitDraft{Name: "Read", Frequency: models.Frequency{Type: constants.FrequencyWeekly, DaysOfWeek: []int{2, 2}}},
			wantErr: "must not repeat",
		},
		{
			name:    "weekly without days",
			draft:   models.HabitDraft{Name: "Read", Frequency: models.Frequency{Type: constants.FrequencyWeekly}},
			wantErr: "at least one day",
		},
		{
			name:    "negative interval",
			draft:   models.HabitDraft{Name: "Read", Frequency: models.Frequency{Type: constants.FrequencyCustom, CustomInterval: -2}},
			wantErr: "positive number of days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.draft
			err := v.ValidateDraft(&d)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateDraft() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrRejected) {
				t.Fatalf("ValidateDraft() error = %v, want ErrRejected", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateDraft() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	d := models.HabitDraft{Name: "  Read  ", Description: " before bed "}
	Normalize(&d)

	if d.Name != "Read" || d.Description != "before bed" {
		t.Errorf("text not trimmed: %+v", d)
	}
	if d.Color != constants.DefaultColor {
		t.Errorf("Color = %q, want %q", d.Color, constants.DefaultColor)
	}
	if d.Frequency.Type != constants.FrequencyDaily || len(d.Frequency.DaysOfWeek) != 7 {
		t.Errorf("Frequency = %+v, want daily over all 7 days", d.Frequency)
	}
}
