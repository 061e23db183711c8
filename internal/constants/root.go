package constants

import "time"

// FrequencyType represents the cadence a habit is tracked at
type FrequencyType string

// NotificationLevel represents the severity of a user-facing outcome
type NotificationLevel string

// ChangeSource identifies where a stored collection change originated
type ChangeSource string

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "habitual"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitual/habitual.db"
	Version            = "v0.1.0"

	// KeyringStoreValue selects a PostgreSQL connection string stored in the OS keyring
	KeyringStoreValue = "keyring"

	// HabitsStorageKey is the name of the single persisted slot holding the habit collection
	HabitsStorageKey = "habit-tracker-habits"

	// DateFormat is the canonical day key format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MaxStreakLookback bounds the backward walk of the current streak calculation.
	// A streak ending today can be reported as at most MaxStreakLookback+1 days.
	MaxStreakLookback = 366

	// DefaultRecentDays is the number of day indicators shown per habit
	DefaultRecentDays = 7

	// DefaultRefreshInterval is how often views re-read the store to pick up outside changes
	DefaultRefreshInterval = time.Minute

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitual-"

	// Notify constants
	NotifierLockfileName   = "habitual-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.habitual"

	// Frequency constants
	FrequencyDaily  FrequencyType = "daily"
	FrequencyWeekly FrequencyType = "weekly"
	FrequencyCustom FrequencyType = "custom"

	// Notification levels
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
	LevelInfo    NotificationLevel = "info"

	// Change sources
	ChangeLocal    ChangeSource = "local"
	ChangeExternal ChangeSource = "external"
)

// Session States
const (
	StateHabits SessionState = iota
	StateStats
	StateAddHabit
	StateEditHabit
	StateConfirmDelete
)

// DefaultColor is the palette entry new habits get when none is chosen
const DefaultColor = "bg-blue-500"

// DefaultIcon is the icon new habits get when none is chosen
const DefaultIcon = "check"

// HabitColors is the known palette of habit color tokens, in display order
var HabitColors = []string{
	"bg-blue-500",
	"bg-green-500",
	"bg-red-500",
	"bg-yellow-500",
	"bg-purple-500",
	"bg-pink-500",
	"bg-indigo-500",
	"bg-teal-500",
	"bg-orange-500",
	"bg-lime-500",
}

// TerminalColors maps palette tokens to ANSI 256 color codes for terminal rendering
var TerminalColors = map[string]string{
	"bg-blue-500":   "33",
	"bg-green-500":  "34",
	"bg-red-500":    "196",
	"bg-yellow-500": "220",
	"bg-purple-500": "135",
	"bg-pink-500":   "205",
	"bg-indigo-500": "63",
	"bg-teal-500":   "37",
	"bg-orange-500": "208",
	"bg-lime-500":   "154",
}

// HabitIcons lists the icon tokens a habit may carry, default first
var HabitIcons = []string{
	"check",
	"clock",
	"book",
	"dumbbell",
	"brain",
	"heart",
	"coffee",
	"food",
	"water",
	"sleep",
}

// IconLabels holds the display label for each icon token
var IconLabels = map[string]string{
	"check":    "Default",
	"clock":    "Clock",
	"book":     "Book",
	"dumbbell": "Exercise",
	"brain":    "Brain",
	"heart":    "Heart",
	"coffee":   "Coffee",
	"food":     "Food",
	"water":    "Water",
	"sleep":    "Sleep",
}
