package habits

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/streak"
)

type AddHabitMsg struct{}

type EditHabitMsg struct {
	Habit models.Habit
}

type ToggleHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type StatsHabitMsg struct {
	Habit models.Habit
}

var (
	doneDay    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("■")
	missedDay  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("·")
	flameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

// Item is one habit row with the values derived for display
type Item struct {
	Habit  models.Habit
	Done   bool
	Stats  models.HabitStats
	Recent []string // day keys, oldest first
}

// Swatch renders the habit's palette color as a terminal dot
func Swatch(color string) string {
	code, ok := constants.TerminalColors[color]
	if !ok {
		code = constants.TerminalColors[constants.DefaultColor]
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(code)).Render("●")
}

// Strip renders one cell per day key, filled when the habit was completed
func Strip(h models.Habit, days []string) string {
	var b strings.Builder
	for _, d := range days {
		if h.IsCompleted(d) {
			b.WriteString(doneDay)
		} else {
			b.WriteString(missedDay)
		}
	}
	return b.String()
}

func (i Item) Title() string {
	mark := "○"
	if i.Done {
		mark = "✓"
	}
	return fmt.Sprintf("%s %s %s", mark, Swatch(i.Habit.Color), i.Habit.Name)
}

func (i Item) Description() string {
	parts := []string{Strip(i.Habit, i.Recent)}
	if i.Stats.CurrentStreak > 0 {
		parts = append(parts, flameStyle.Render(streak.Label(i.Stats.CurrentStreak)))
	}
	if i.Habit.Description != "" {
		parts = append(parts, i.Habit.Description)
	}
	return strings.Join(parts, "  ")
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add    key.Binding
	Edit   key.Binding
	Toggle key.Binding
	Delete key.Binding
	Stats  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "m"),
			key.WithHelp("space/m", "toggle today"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Stats: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stats"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []Item, width, height int) Model {
	l := list.New(toListItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Edit, keys.Delete, keys.Stats}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Edit, keys.Delete, keys.Stats}
	}

	return Model{list: l, keys: keys}
}

func toListItems(items []Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// SetItems replaces the rows and keeps the cursor in range
func (m *Model) SetItems(items []Item) {
	m.list.SetItems(toListItems(items))
	if idx := m.list.Index(); idx >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
}

func (m Model) Items() []Item {
	out := make([]Item, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		if i, ok := it.(Item); ok {
			out = append(out, i)
		}
	}
	return out
}

func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: i.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Edit):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return EditHabitMsg{Habit: i.Habit} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: i.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Stats):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return StatsHabitMsg{Habit: i.Habit} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && !m.Filtering() {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
