package notifier

import (
	"bytes"
	"strings"
	"testing"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/service"
)

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.Notify(service.Notification{Level: constants.LevelSuccess, Title: constants.MsgHabitCreated})
	c.Notify(service.Notification{Level: constants.LevelError, Title: constants.MsgHabitNotFound})
	c.Notify(service.Notification{Level: constants.LevelInfo, Title: constants.MsgHabitIncomplete, Description: "details"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), buf.String())
	}
	for i, want := range []string{constants.MsgHabitCreated, constants.MsgHabitNotFound, "details"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], want)
		}
	}
}

func TestFormatIcons(t *testing.T) {
	tests := []struct {
		level constants.NotificationLevel
		icon  string
	}{
		{constants.LevelSuccess, "✓"},
		{constants.LevelError, "✗"},
		{constants.LevelInfo, "•"},
	}
	for _, tt := range tests {
		if got := Format(service.Notification{Level: tt.level, Title: "x"}); !strings.Contains(got, tt.icon) {
			t.Errorf("Format(%s) = %q, want icon %s", tt.level, got, tt.icon)
		}
	}
}

type counter struct{ n int }

func (c *counter) Notify(service.Notification) { c.n++ }

func TestMulti(t *testing.T) {
	a, b := &counter{}, &counter{}
	m := Multi{a, nil, b}

	m.Notify(service.Notification{Title: "x"})
	m.Notify(service.Notification{Title: "y"})

	if a.n != 2 || b.n != 2 {
		t.Errorf("counts = %d, %d; want 2, 2", a.n, b.n)
	}
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	logger.UseWriter(&buf, false)
	t.Cleanup(func() { logger.Logger = nil })

	Log{}.Notify(service.Notification{Level: constants.LevelError, Title: constants.MsgHabitNotFound})
	Log{}.Notify(service.Notification{Level: constants.LevelSuccess, Title: constants.MsgHabitCreated})

	out := buf.String()
	if !strings.Contains(out, constants.MsgHabitNotFound) || !strings.Contains(out, constants.MsgHabitCreated) {
		t.Errorf("log output = %q", out)
	}
}
