// Package notifier provides the channels habit outcome messages are shown on.
package notifier

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/service"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Console prints styled one-line notifications
type Console struct {
	out io.Writer
}

// NewConsole writes to out, or stdout when out is nil
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

func (c *Console) Notify(n service.Notification) {
	fmt.Fprintln(c.out, Format(n))
}

// Format renders n as a single styled line
func Format(n service.Notification) string {
	var icon string
	var style lipgloss.Style
	switch n.Level {
	case constants.LevelSuccess:
		icon, style = "✓", successStyle
	case constants.LevelError:
		icon, style = "✗", errorStyle
	default:
		icon, style = "•", infoStyle
	}

	line := style.Render(icon + " " + n.Title)
	if n.Description != "" {
		line += " " + detailStyle.Render(n.Description)
	}
	return line
}

// Log records notifications in the application log
type Log struct{}

func (Log) Notify(n service.Notification) {
	switch n.Level {
	case constants.LevelError:
		logger.Warn(n.Title, "description", n.Description)
	default:
		logger.Info(n.Title, "level", n.Level, "description", n.Description)
	}
}

// Multi fans a notification out to several notifiers, skipping nil entries
type Multi []service.Notifier

func (m Multi) Notify(n service.Notification) {
	for _, target := range m {
		if target != nil {
			target.Notify(n)
		}
	}
}
