package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/service"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// header, status line and help take 6 rows
		m.habitsModel.SetSize(msg.Width-4, max(msg.Height-8, 3))
		return m, nil

	case changeMsg:
		m.setHabits(msg.Habits)
		return m, waitForChange(m.events)
	}

	switch m.state {
	case constants.StateAddHabit, constants.StateEditHabit:
		return m.updateForm(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case constants.StateStats:
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, m.keys.Quit):
				m.quitting = true
				return m, tea.Quit
			case key.Matches(msg, m.keys.Back), key.Matches(msg, habits.DefaultKeyMap().Stats):
				m.state = constants.StateHabits
			}
		}
		return m, nil
	}

	if handled, cmd := m.handleHabitMessages(msg); handled {
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.habitsModel.Filtering() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			if _, err := m.svc.Refresh(); err != nil {
				logger.Warn("manual refresh failed", "error", err)
			}
			m.reload()
			if m.loadErr == nil {
				m.status.Notify(service.Notification{Level: constants.LevelInfo, Title: constants.MsgHabitsReloaded})
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.habitsModel, cmd = m.habitsModel.Update(msg)
	return m, cmd
}

func (m *Model) handleHabitMessages(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case habits.AddHabitMsg:
		m.editing = nil
		m.habitForm = newHabitFormModel(nil)
		m.form = newHabitForm(m.habitForm)
		m.state = constants.StateAddHabit
		return true, m.form.Init()

	case habits.EditHabitMsg:
		h := msg.Habit
		m.editing = &h
		m.habitForm = newHabitFormModel(&h)
		m.form = newHabitForm(m.habitForm)
		m.state = constants.StateEditHabit
		return true, m.form.Init()

	case habits.ToggleHabitMsg:
		if _, _, err := m.svc.Toggle(msg.ID); err == nil {
			m.reload()
		}
		return true, nil

	case habits.DeleteHabitMsg:
		m.deleteID = msg.ID
		m.state = constants.StateConfirmDelete
		return true, nil

	case habits.StatsHabitMsg:
		m.statsHabit = msg.Habit
		m.state = constants.StateStats
		return true, nil
	}
	return false, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = constants.StateHabits
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		draft := m.habitForm.Draft()
		var err error
		if m.editing != nil {
			h := m.editing.Clone()
			h.ApplyDraft(draft)
			_, err = m.svc.Update(h)
		} else {
			_, err = m.svc.Create(draft)
		}
		if err != nil {
			// Keep the form open so the values can be corrected
			m.form.State = huh.StateNormal
			break
		}
		m.reload()
		m.state = constants.StateHabits
	case huh.StateAborted:
		m.state = constants.StateHabits
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if err := m.svc.Delete(m.deleteID); err == nil {
			m.reload()
		}
		m.deleteID = ""
		m.state = constants.StateHabits
	case key.Matches(keyMsg, m.keys.Cancel):
		m.deleteID = ""
		m.state = constants.StateHabits
	}
	return m, nil
}
