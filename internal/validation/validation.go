// Package validation checks habit drafts before they reach the store and
// audits a stored collection for damaged records.
package validation

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// ErrRejected is returned when a draft fails validation
var ErrRejected = errors.New("validation rejected")

// Validator validates habit drafts and audits stored habits
type Validator struct {
	validate *validator.Validate
}

// New creates a new Validator
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("habitcolor", func(fl validator.FieldLevel) bool {
		return slices.Contains(constants.HabitColors, fl.Field().String())
	})
	_ = v.RegisterValidation("habiticon", func(fl validator.FieldLevel) bool {
		return slices.Contains(constants.HabitIcons, fl.Field().String())
	})
	return &Validator{validate: v}
}

// Normalize trims text fields and fills presentation defaults in place
func Normalize(d *models.HabitDraft) {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	d.Icon = strings.TrimSpace(d.Icon)
	d.Color = strings.TrimSpace(d.Color)
	if d.Color == "" {
		d.Color = constants.DefaultColor
	}
	if d.Frequency.Type == "" {
		d.Frequency = models.DailyFrequency()
	}
	if d.Frequency.Type == constants.FrequencyDaily && len(d.Frequency.DaysOfWeek) == 0 {
		d.Frequency.DaysOfWeek = models.DailyFrequency().DaysOfWeek
	}
}

// ValidateDraft normalizes d and reports the first rule it breaks, wrapped
// in ErrRejected.
func (v *Validator) ValidateDraft(d *models.HabitDraft) error {
	Normalize(d)

	if err := v.validate.Struct(d); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s", ErrRejected, describe(fieldErrs[0]))
		}
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}

	if d.Frequency.Type == constants.FrequencyWeekly && len(d.Frequency.DaysOfWeek) == 0 {
		return fmt.Errorf("%w: weekly habits need at least one day of the week", ErrRejected)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.StructNamespace() {
	case "HabitDraft.Name":
		return constants.MsgHabitInvalid
	case "HabitDraft.Color":
		return fmt.Sprintf("unknown color %q (choose one of %s)", fe.Value(), strings.Join(constants.HabitColors, ", "))
	case "HabitDraft.Icon":
		return fmt.Sprintf("unknown icon %q (choose one of %s)", fe.Value(), strings.Join(constants.HabitIcons, ", "))
	case "HabitDraft.Frequency.Type":
		return fmt.Sprintf("unknown frequency %q (daily, weekly or custom)", fe.Value())
	case "HabitDraft.Frequency.CustomInterval":
		return "custom interval must be a positive number of days"
	}
	if strings.HasPrefix(fe.StructNamespace(), "HabitDraft.Frequency.DaysOfWeek") {
		if fe.Tag() == "unique" {
			return "days of week must not repeat"
		}
		return "days of week must be between 0 (Sunday) and 6 (Saturday)"
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}
