package cli

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/service"
	"github.com/julianstephens/habitual/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	var extra service.Notifier
	if ctx.Config.TrayNotifications {
		extra = notifier.NewTray()
	}

	if err := tui.Run(ctx.Service, ctx.Config.RefreshInterval, extra); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
