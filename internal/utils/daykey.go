package utils

import (
	"math"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

const day = 24 * time.Hour

// DayKeyOf returns the YYYY-MM-DD day key of t in t's own location.
func DayKeyOf(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// Today returns the day key for the clock's current instant.
func Today(c Clock) string {
	return DayKeyOf(c.Now())
}

// DaysAgo returns the day key n calendar days before today (n=0 is today).
// The subtraction is done on calendar fields so DST transitions never skip or repeat a day.
func DaysAgo(c Clock, n int) string {
	return DayKeyOf(c.Now().AddDate(0, 0, -n))
}

// RangeEndingToday returns days consecutive day keys ending today, oldest first.
func RangeEndingToday(c Clock, days int) []string {
	if days <= 0 {
		return []string{}
	}
	now := c.Now()
	keys := make([]string, 0, days)
	for i := days - 1; i >= 0; i-- {
		keys = append(keys, DayKeyOf(now.AddDate(0, 0, -i)))
	}
	return keys
}

// ParseDayKey parses a YYYY-MM-DD day key to midnight UTC of that day.
func ParseDayKey(key string) (time.Time, error) {
	return time.Parse(constants.DateFormat, key)
}

// ParseDayKeyInLocation parses a YYYY-MM-DD day key to midnight of that day in loc.
func ParseDayKeyInLocation(key string, loc *time.Location) (time.Time, error) {
	t, err := ParseDayKey(key)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ValidateDayKey checks if the string is a canonical day key.
func ValidateDayKey(key string) bool {
	t, err := ParseDayKey(key)
	return err == nil && DayKeyOf(t) == key
}

// DaysBetween returns the whole number of days separating two day keys,
// rounding the absolute difference up to the next whole day.
func DaysBetween(a, b string) (int, error) {
	ta, err := ParseDayKey(a)
	if err != nil {
		return 0, err
	}
	tb, err := ParseDayKey(b)
	if err != nil {
		return 0, err
	}
	diff := tb.Sub(ta)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff) / float64(day))), nil
}

// Greeting returns a salutation for the hour of t.
func Greeting(t time.Time) string {
	switch hour := t.Hour(); {
	case hour < 12:
		return "Good morning"
	case hour < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// FormatLongDate renders t the way the header shows it, e.g. "Wednesday, October 14".
func FormatLongDate(t time.Time) string {
	return t.Format("Monday, January 2")
}
