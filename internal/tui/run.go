package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/service"
)

// Run opens the TUI and blocks until the user quits. The refresh watcher and
// the store subscription live exactly as long as the program.
func Run(svc *service.HabitService, interval time.Duration, extra service.Notifier) error {
	m := NewModel(svc, interval, extra)
	defer m.Close()

	if err := m.Start(); err != nil {
		logger.Warn("periodic refresh disabled", "error", err)
	}

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
