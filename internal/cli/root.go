package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/service"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

type Context struct {
	Config   config.Config
	Provider storage.Provider
	Store    *storage.HabitStore
	Service  *service.HabitService
	Out      io.Writer
	In       io.Reader
}

// NewContext wires the habit store and service over provider. Outcome
// notifications go to out and the log, and to the tray app when enabled.
func NewContext(cfg config.Config, provider storage.Provider, clock utils.Clock, out io.Writer) *Context {
	if out == nil {
		out = os.Stdout
	}

	channels := notifier.Multi{notifier.NewConsole(out), notifier.Log{}}
	if cfg.TrayNotifications {
		channels = append(channels, notifier.NewTray())
	}

	store := storage.NewHabitStore(provider, clock)
	return &Context{
		Config:   cfg,
		Provider: provider,
		Store:    store,
		Service:  service.New(store, clock, channels),
		Out:      out,
		In:       os.Stdin,
	}
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// PerformAutomaticBackup snapshots file-based stores. Failures are logged only.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := backup.ForStore(c.Provider)
	if err != nil {
		if !errors.Is(err, backup.ErrUnsupported) {
			logger.Warn("Automatic backup failed", "error", err)
		}
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ParseWeekdays parses a comma-separated list of day names or numbers
// (0=Sunday, 6=Saturday) into sorted unique weekday indices.
func ParseWeekdays(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := dayMap[part]; ok {
			days = append(days, int(wd))
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		days = append(days, num)
	}

	slices.Sort(days)
	return slices.Compact(days), nil
}

// FormatFrequency renders a frequency for display
func FormatFrequency(f models.Frequency) string {
	switch f.Type {
	case constants.FrequencyDaily:
		return "daily"
	case constants.FrequencyWeekly:
		if len(f.DaysOfWeek) > 0 {
			var days []string
			for _, d := range f.DaysOfWeek {
				days = append(days, time.Weekday(d).String()[:3])
			}
			return fmt.Sprintf("weekly on %s", strings.Join(days, ","))
		}
		return "weekly"
	case constants.FrequencyCustom:
		return fmt.Sprintf("every %d days", f.CustomInterval)
	default:
		return "unknown"
	}
}

// buildFrequency turns frequency flags into a Frequency
func buildFrequency(kind, days string, interval int) (models.Frequency, error) {
	switch constants.FrequencyType(strings.ToLower(strings.TrimSpace(kind))) {
	case constants.FrequencyDaily, "":
		return models.DailyFrequency(), nil
	case constants.FrequencyWeekly:
		wds, err := ParseWeekdays(days)
		if err != nil {
			return models.Frequency{}, err
		}
		return models.Frequency{Type: constants.FrequencyWeekly, DaysOfWeek: wds}, nil
	case constants.FrequencyCustom:
		if interval <= 0 {
			return models.Frequency{}, fmt.Errorf("custom frequency needs --interval greater than 0")
		}
		return models.Frequency{Type: constants.FrequencyCustom, CustomInterval: interval}, nil
	default:
		return models.Frequency{}, fmt.Errorf("invalid frequency: %s (daily|weekly|custom)", kind)
	}
}
