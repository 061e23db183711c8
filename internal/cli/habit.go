package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

type AddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `short:"D" help:"Optional description."`
	Color       string `short:"c" help:"Palette color (bg-blue-500, bg-green-500, ...)."`
	Icon        string `short:"i" help:"Icon (check, clock, book, dumbbell, brain, heart, coffee, food, water, sleep)."`
	Frequency   string `short:"f" help:"Frequency (daily|weekly|custom)." default:"daily"`
	Days        string `short:"w" help:"Comma-separated weekdays for weekly frequency."`
	Interval    int    `short:"n" help:"Interval in days for custom frequency."`
}

func (c *AddCmd) Run(ctx *Context) error {
	freq, err := buildFrequency(c.Frequency, c.Days, c.Interval)
	if err != nil {
		return err
	}

	h, err := ctx.Service.Create(models.HabitDraft{
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		Frequency:   freq,
	})
	if err != nil {
		return err
	}

	ctx.printf("Added habit: %s (ID: %s)\n", h.Name, h.ID)
	return nil
}

// EditCmd changes only the fields whose flags are given
type EditCmd struct {
	Habit       string `arg:"" help:"Habit id, id prefix or name."`
	Name        string `help:"New name."`
	Description string `short:"D" help:"New description."`
	Color       string `short:"c" help:"New palette color."`
	Icon        string `short:"i" help:"New icon."`
	Frequency   string `short:"f" help:"New frequency (daily|weekly|custom)."`
	Days        string `short:"w" help:"Comma-separated weekdays for weekly frequency."`
	Interval    int    `short:"n" help:"Interval in days for custom frequency."`
}

func (c *EditCmd) Run(ctx *Context) error {
	h, err := ctx.Service.Find(c.Habit)
	if err != nil {
		return err
	}

	if c.Name != "" {
		h.Name = c.Name
	}
	if c.Description != "" {
		h.Description = c.Description
	}
	if c.Color != "" {
		h.Color = c.Color
	}
	if c.Icon != "" {
		h.Icon = c.Icon
	}
	if c.Frequency != "" {
		freq, err := buildFrequency(c.Frequency, c.Days, c.Interval)
		if err != nil {
			return err
		}
		h.Frequency = freq
	}

	updated, err := ctx.Service.Update(h)
	if err != nil {
		return err
	}

	ctx.printf("Updated habit: %s (%s)\n", updated.Name, FormatFrequency(updated.Frequency))
	return nil
}

type DeleteCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
}

func (c *DeleteCmd) Run(ctx *Context) error {
	h, err := ctx.Service.Find(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Service.Delete(h.ID); err != nil {
		return err
	}

	ctx.printf("Deleted habit: %s\n", h.Name)
	return nil
}

// MarkCmd toggles completion for today or a given past day
type MarkCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or name."`
	Date  string `help:"Day to toggle (YYYY-MM-DD). Defaults to today."`
}

func (c *MarkCmd) Run(ctx *Context) error {
	h, err := ctx.Service.Find(c.Habit)
	if err != nil {
		return err
	}

	clock := ctx.Service.Clock()
	at := clock.Now()
	if date := strings.TrimSpace(c.Date); date != "" {
		if !utils.ValidateDayKey(date) {
			return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", date)
		}
		if date > utils.Today(clock) {
			return fmt.Errorf("cannot mark a future day: %s", date)
		}
		day, err := utils.ParseDayKeyInLocation(date, at.Location())
		if err != nil {
			return err
		}
		at = day.Add(12 * time.Hour)
	}

	_, completed, err := ctx.Service.ToggleOn(h.ID, at)
	if err != nil {
		return err
	}

	state := "not done"
	if completed {
		state = "done"
	}
	ctx.printf("%s marked %s for %s\n", h.Name, state, utils.DayKeyOf(at))
	return nil
}
