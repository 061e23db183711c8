package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streak"
	"github.com/julianstephens/habitual/internal/utils"
)

var (
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func swatch(h models.Habit) string {
	code, ok := constants.TerminalColors[h.Color]
	if !ok {
		code = constants.TerminalColors[constants.DefaultColor]
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(code)).Render("●")
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *Context) error {
	habits, err := ctx.Service.List()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.println("No habits found")
		return nil
	}

	ctx.println("Habits:")
	for _, h := range habits {
		mark := mutedStyle.Render("[ ]")
		if ctx.Service.CompletedToday(h) {
			mark = doneStyle.Render("[✓]")
		}
		stats := ctx.Service.StatsFor(h)
		ctx.printf("  %s %s %s - %s (%s)\n", mark, swatch(h), h.Name, streak.Label(stats.CurrentStreak), FormatFrequency(h.Frequency))
		if h.Description != "" {
			ctx.printf("      %s\n", h.Description)
		}
		ctx.printf("      %s\n", mutedStyle.Render("ID: "+h.ID))
	}
	return nil
}

type StatsCmd struct {
	Habit string `arg:"" optional:"" help:"Habit id, id prefix or name. Shows every habit when omitted."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	var habits []models.Habit
	if c.Habit != "" {
		h, err := ctx.Service.Find(c.Habit)
		if err != nil {
			return err
		}
		habits = []models.Habit{h}
	} else {
		all, err := ctx.Service.List()
		if err != nil {
			return err
		}
		habits = all
	}

	if len(habits) == 0 {
		ctx.println("No habits found")
		return nil
	}

	for i, h := range habits {
		if i > 0 {
			ctx.println()
		}
		stats := ctx.Service.StatsFor(h)
		ctx.printf("%s %s\n", swatch(h), h.Name)
		ctx.printf("  Current streak:    %d\n", stats.CurrentStreak)
		ctx.printf("  Longest streak:    %d\n", stats.LongestStreak)
		ctx.printf("  Completion rate:   %d%%\n", stats.CompletionRate)
		ctx.printf("  Total completions: %d\n", stats.TotalCompletions)
	}
	return nil
}

// LogCmd prints a completion grid for the most recent days
type LogCmd struct {
	Days int `help:"Number of days to show." default:"7"`
}

func (c *LogCmd) Validate() error {
	if c.Days < 1 || c.Days > 31 {
		return fmt.Errorf("days must be between 1 and 31")
	}
	return nil
}

func (c *LogCmd) Run(ctx *Context) error {
	habits, err := ctx.Service.List()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.println("No habits found")
		return nil
	}

	days := ctx.Service.DayKeysRange(c.Days)

	width := 0
	for _, h := range habits {
		width = max(width, lipgloss.Width(h.Name))
	}

	var header strings.Builder
	header.WriteString(strings.Repeat(" ", width+2))
	for _, d := range days {
		t, err := utils.ParseDayKey(d)
		if err != nil {
			return err
		}
		header.WriteString(" " + t.Weekday().String()[:2])
	}
	ctx.println(mutedStyle.Render(header.String()))

	for _, h := range habits {
		var row strings.Builder
		row.WriteString(h.Name + strings.Repeat(" ", width-lipgloss.Width(h.Name)+2))
		for _, d := range days {
			if h.IsCompleted(d) {
				row.WriteString(" " + doneStyle.Render("■ "))
			} else {
				row.WriteString(" " + mutedStyle.Render("· "))
			}
		}
		ctx.println(row.String())
	}

	first, _ := utils.ParseDayKey(days[0])
	last, _ := utils.ParseDayKey(days[len(days)-1])
	ctx.printf("\n%s to %s\n", first.Format("Jan 2"), last.Format(time.DateOnly))
	return nil
}
