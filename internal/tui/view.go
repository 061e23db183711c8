package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/streak"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
	"github.com/julianstephens/habitual/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateAddHabit, constants.StateEditHabit:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	case constants.StateStats:
		content = docStyle.Render(m.viewStats())
	default:
		content = docStyle.Render(m.viewHabits())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	now := m.svc.Clock().Now()
	return lipgloss.NewStyle().Padding(1, 2, 0).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headerStyle.Render(utils.Greeting(now)),
			dateStyle.Render(utils.FormatLongDate(now)),
		),
	)
}

func (m Model) viewHabits() string {
	if m.loadErr != nil {
		return dangerStyle.Render(fmt.Sprintf("Could not load habits: %v", m.loadErr))
	}
	return m.habitsModel.View()
}

func (m Model) viewStatus() string {
	n, ok := m.status.get()
	if !ok {
		return ""
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(notifier.Format(n))
}

func (m Model) viewStats() string {
	h := m.statsHabit
	stats := m.svc.StatsFor(h)
	days := m.svc.DayKeysRange(constants.DefaultRecentDays)

	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		habits.Swatch(h.Color)+" "+headerStyle.Render(h.Name),
		"",
		row("Current streak", streak.Label(stats.CurrentStreak)),
		row("Longest streak", fmt.Sprintf("%d days", stats.LongestStreak)),
		row("Completion rate", fmt.Sprintf("%d%%", stats.CompletionRate)),
		row("Total completions", fmt.Sprintf("%d", stats.TotalCompletions)),
		"",
		row("Last 7 days", habits.Strip(h, days)),
	)
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, max(m.height-8, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Are you sure you want to delete this habit?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
