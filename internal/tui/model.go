package tui

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/refresh"
	"github.com/julianstephens/habitual/internal/service"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tui/components/habits"
)

// HabitFormModel backs the add/edit form fields
type HabitFormModel struct {
	Name        string
	Description string
	Color       string
	Icon        string
	Frequency   constants.FrequencyType
	Days        []int
	Interval    string
}

// statusLine keeps the latest notification. The service notifies from
// inside Update, so the value is shared by pointer across model copies.
type statusLine struct {
	mu sync.Mutex
	n  service.Notification
	at time.Time
}

func (s *statusLine) Notify(n service.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n = n
	s.at = time.Now()
}

func (s *statusLine) get() (service.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.n.Title == "" || time.Since(s.at) > constants.NotificationDurationMs*time.Millisecond {
		return service.Notification{}, false
	}
	return s.n, true
}

type changeMsg storage.ChangeEvent

type Model struct {
	svc         *service.HabitService
	watcher     *refresh.Watcher
	events      chan storage.ChangeEvent
	unsubscribe func()
	status      *statusLine

	state       constants.SessionState
	keys        KeyMap
	help        help.Model
	habitsModel habits.Model
	form        *huh.Form
	habitForm   *HabitFormModel
	editing     *models.Habit
	deleteID    string
	statsHabit  models.Habit
	loadErr     error
	quitting    bool
	width       int
	height      int
}

// NewModel builds the TUI over svc. Notifications go to the status line, the
// log and extra when it is not nil.
func NewModel(svc *service.HabitService, interval time.Duration, extra service.Notifier) Model {
	status := &statusLine{}
	svc.SetNotifier(notifier.Multi{status, notifier.Log{}, extra})

	events := make(chan storage.ChangeEvent, 16)
	unsubscribe := svc.Store().Subscribe(func(ev storage.ChangeEvent) {
		select {
		case events <- ev:
		default:
			// The view reloads on the next event anyway
		}
	})

	m := Model{
		svc:         svc,
		watcher:     refresh.NewWatcher(svc.Store(), interval),
		events:      events,
		unsubscribe: unsubscribe,
		status:      status,
		state:       constants.StateHabits,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		habitsModel: habits.New(nil, 0, 0),
	}
	m.reload()
	return m
}

// Start begins periodic refresh
func (m Model) Start() error {
	return m.watcher.Start()
}

// Close stops the refresh watcher and drops the change subscription
func (m Model) Close() {
	m.watcher.Stop()
	m.unsubscribe()
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.events)
}

func waitForChange(events <-chan storage.ChangeEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return changeMsg(ev)
	}
}

// reload rebuilds the list from the store
func (m *Model) reload() {
	list, err := m.svc.List()
	if err != nil {
		logger.Error("failed to load habits", "error", err)
		m.loadErr = err
		return
	}
	m.loadErr = nil
	m.setHabits(list)
}

func (m *Model) setHabits(list []models.Habit) {
	days := m.svc.DayKeysRange(constants.DefaultRecentDays)
	items := make([]habits.Item, len(list))
	for i, h := range list {
		items[i] = habits.Item{
			Habit:  h,
			Done:   m.svc.CompletedToday(h),
			Stats:  m.svc.StatsFor(h),
			Recent: days,
		}
	}
	m.habitsModel.SetItems(items)
	if m.statsHabit.ID != "" {
		for _, h := range list {
			if h.ID == m.statsHabit.ID {
				m.statsHabit = h
			}
		}
	}
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case constants.StateConfirmDelete:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	case constants.StateStats:
		return []key.Binding{m.keys.Back, m.keys.Quit}
	}
	hk := habits.DefaultKeyMap()
	return []key.Binding{hk.Add, hk.Toggle, hk.Edit, hk.Delete, hk.Stats, m.keys.Refresh, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	hk := habits.DefaultKeyMap()
	return [][]key.Binding{
		{m.keys.Refresh, m.keys.Back, m.keys.Quit, m.keys.Help},
		{m.keys.Up, m.keys.Down},
		{hk.Add, hk.Toggle, hk.Edit, hk.Delete, hk.Stats},
	}
}

func newHabitFormModel(h *models.Habit) *HabitFormModel {
	fm := &HabitFormModel{
		Color:     constants.DefaultColor,
		Icon:      constants.DefaultIcon,
		Frequency: constants.FrequencyDaily,
	}
	if h == nil {
		return fm
	}
	fm.Name = h.Name
	fm.Description = h.Description
	if h.Color != "" {
		fm.Color = h.Color
	}
	if h.Icon != "" {
		fm.Icon = h.Icon
	}
	if h.Frequency.Type != "" {
		fm.Frequency = h.Frequency.Type
	}
	fm.Days = append([]int(nil), h.Frequency.DaysOfWeek...)
	if h.Frequency.CustomInterval > 0 {
		fm.Interval = strconv.Itoa(h.Frequency.CustomInterval)
	}
	return fm
}

// Draft converts the form values into a habit draft
func (fm *HabitFormModel) Draft() models.HabitDraft {
	freq := models.Frequency{Type: fm.Frequency}
	switch fm.Frequency {
	case constants.FrequencyWeekly:
		freq.DaysOfWeek = append([]int(nil), fm.Days...)
	case constants.FrequencyCustom:
		freq.CustomInterval, _ = strconv.Atoi(strings.TrimSpace(fm.Interval))
	default:
		freq = models.DailyFrequency()
	}
	return models.HabitDraft{
		Name:        fm.Name,
		Description: fm.Description,
		Icon:        fm.Icon,
		Color:       fm.Color,
		Frequency:   freq,
	}
}

func newHabitForm(fm *HabitFormModel) *huh.Form {
	colors := make([]huh.Option[string], 0, len(constants.HabitColors))
	for _, c := range constants.HabitColors {
		label := strings.TrimSuffix(strings.TrimPrefix(c, "bg-"), "-500")
		colors = append(colors, huh.NewOption(habits.Swatch(c)+" "+label, c))
	}

	icons := make([]huh.Option[string], 0, len(constants.HabitIcons))
	for _, i := range constants.HabitIcons {
		icons = append(icons, huh.NewOption(constants.IconLabels[i], i))
	}

	days := make([]huh.Option[int], 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		days = append(days, huh.NewOption(d.String(), int(d)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("%s", constants.MsgHabitInvalid)
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&fm.Description),
			huh.NewSelect[string]().
				Title("Color").
				Options(colors...).
				Value(&fm.Color),
			huh.NewSelect[string]().
				Title("Icon").
				Options(icons...).
				Value(&fm.Icon),
			huh.NewSelect[constants.FrequencyType]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", constants.FrequencyDaily),
					huh.NewOption("Weekly", constants.FrequencyWeekly),
					huh.NewOption("Every N days", constants.FrequencyCustom),
				).
				Value(&fm.Frequency),
		),
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Days of week").
				Description("For weekly habits").
				Options(days...).
				Value(&fm.Days),
			huh.NewInput().
				Title("Interval (days)").
				Description("For 'Every N days' habits").
				Value(&fm.Interval).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					i, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || i <= 0 {
						return fmt.Errorf("interval must be a positive number of days")
					}
					return nil
				}),
		).WithHideFunc(func() bool {
			return fm.Frequency == constants.FrequencyDaily
		}),
	)
}
