package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

var cliNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func setupTestContext(t *testing.T, provider storage.Provider) (*Context, *bytes.Buffer) {
	t.Helper()
	if provider == nil {
		provider = storage.NewMemoryStore()
	}
	var out bytes.Buffer
	ctx := NewContext(config.Config{Store: provider.GetConfigPath()}, provider, utils.NewFixedClock(cliNow), &out)
	return ctx, &out
}

func mustRun(t *testing.T, ctx *Context, cmd interface{ Run(*Context) error }) {
	t.Helper()
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("%T failed: %v", cmd, err)
	}
}

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{"", nil, false},
		{"mon,wed,fri", []int{1, 3, 5}, false},
		{"Sunday, saturday", []int{0, 6}, false},
		{"3,1,3", []int{1, 3}, false},
		{"funday", nil, true},
		{"7", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWeekdays(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekdays(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseWeekdays(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatFrequency(t *testing.T) {
	tests := []struct {
		name string
		freq models.Frequency
		want string
	}{
		{"daily", models.DailyFrequency(), "daily"},
		{"weekly with days", models.Frequency{Type: constants.FrequencyWeekly, DaysOfWeek: []int{1, 3}}, "weekly on Mon,Wed"},
		{"weekly without days", models.Frequency{Type: constants.FrequencyWeekly}, "weekly"},
		{"custom", models.Frequency{Type: constants.FrequencyCustom, CustomInterval: 3}, "every 3 days"},
		{"unknown", models.Frequency{Type: "monthly"}, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatFrequency(tt.freq); got != tt.want {
				t.Errorf("FormatFrequency() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildFrequencyErrors(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		days     string
		interval int
	}{
		{"unknown kind", "monthly", "", 0},
		{"bad weekday", "weekly", "mon,noday", 0},
		{"custom without interval", "custom", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := buildFrequency(tt.kind, tt.days, tt.interval); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestAddListStatsWorkflow(t *testing.T) {
	ctx, out := setupTestContext(t, nil)

	mustRun(t, ctx, &AddCmd{Name: "Read", Color: "bg-green-500", Frequency: "daily"})
	if !strings.Contains(out.String(), "Added habit: Read") || !strings.Contains(out.String(), constants.MsgHabitCreated) {
		t.Fatalf("unexpected add output:\n%s", out.String())
	}

	out.Reset()
	mustRun(t, ctx, &MarkCmd{Habit: "read"})
	if !strings.Contains(out.String(), "Read marked done for 2024-06-15") {
		t.Errorf("unexpected mark output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), constants.MsgHabitCompleted) {
		t.Errorf("expected completion notification:\n%s", out.String())
	}

	out.Reset()
	mustRun(t, ctx, &ListCmd{})
	for _, want := range []string{"Read", "1 day streak", "daily"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("list output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	mustRun(t, ctx, &StatsCmd{Habit: "Read"})
	for _, want := range []string{"Current streak:    1", "Longest streak:    1", "Total completions: 1", "Completion rate:   100%"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("stats output missing %q:\n%s", want, out.String())
		}
	}
}

func TestAddRejectsInvalidDraft(t *testing.T) {
	tests := []struct {
		name string
		cmd  AddCmd
	}{
		{"blank name", AddCmd{Name: "   "}},
		{"unknown color", AddCmd{Name: "Read", Color: "bg-black-900"}},
		{"unknown icon", AddCmd{Name: "Read", Icon: "rocket"}},
		{"weekly without days", AddCmd{Name: "Read", Frequency: "weekly"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestContext(t, nil)
			err := tt.cmd.Run(ctx)
			if !errors.Is(err, validation.ErrRejected) {
				t.Fatalf("expected ErrRejected, got %v", err)
			}
			habits, _ := ctx.Service.List()
			if len(habits) != 0 {
				t.Errorf("expected no habits stored, got %d", len(habits))
			}
		})
	}
}

func TestEditKeepsUnsetFields(t *testing.T) {
	ctx, out := setupTestContext(t, nil)
	mustRun(t, ctx, &AddCmd{Name: "Read", Description: "20 pages", Color: "bg-red-500"})

	out.Reset()
	mustRun(t, ctx, &EditCmd{Habit: "Read", Name: "Read more", Frequency: "custom", Interval: 2})
	if !strings.Contains(out.String(), "Updated habit: Read more (every 2 days)") {
		t.Errorf("unexpected edit output:\n%s", out.String())
	}

	h, err := ctx.Service.Find("read more")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if h.Description != "20 pages" || h.Color != "bg-red-500" {
		t.Errorf("unset fields changed: %+v", h)
	}
}

func TestMarkDate(t *testing.T) {
	ctx, _ := setupTestContext(t, nil)
	mustRun(t, ctx, &AddCmd{Name: "Read"})

	mustRun(t, ctx, &MarkCmd{Habit: "Read", Date: "2024-06-10"})
	h, _ := ctx.Service.Find("Read")
	if !h.IsCompleted("2024-06-10") {
		t.Errorf("expected 2024-06-10 to be completed, got %v", h.CompletedDates)
	}

	tests := []struct {
		name string
		date string
	}{
		{"future day", "2024-06-16"},
		{"bad format", "06/10/2024"},
		{"impossible day", "2024-02-30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := (&MarkCmd{Habit: "Read", Date: tt.date}).Run(ctx); err == nil {
				t.Errorf("expected error for %s", tt.date)
			}
		})
	}
}

func TestDeleteCmd(t *testing.T) {
	ctx, out := setupTestContext(t, nil)
	mustRun(t, ctx, &AddCmd{Name: "Read"})

	mustRun(t, ctx, &DeleteCmd{Habit: "Read"})
	if !strings.Contains(out.String(), constants.MsgHabitDeleted) {
		t.Errorf("expected delete notification:\n%s", out.String())
	}

	if err := (&DeleteCmd{Habit: "Read"}).Run(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEmptyCollectionOutput(t *testing.T) {
	ctx, out := setupTestContext(t, nil)

	for _, cmd := range []interface{ Run(*Context) error }{&ListCmd{}, &StatsCmd{}, &LogCmd{Days: 7}} {
		out.Reset()
		mustRun(t, ctx, cmd)
		if !strings.Contains(out.String(), "No habits found") {
			t.Errorf("%T: unexpected output %q", cmd, out.String())
		}
	}
}

func TestLogCmd(t *testing.T) {
	ctx, out := setupTestContext(t, nil)
	mustRun(t, ctx, &AddCmd{Name: "Read"})
	mustRun(t, ctx, &MarkCmd{Habit: "Read", Date: "2024-06-14"})

	cmd := &LogCmd{Days: 3}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	out.Reset()
	mustRun(t, ctx, cmd)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) < 2 {
		t.Fatalf("unexpected log output:\n%s", out.String())
	}
	for _, day := range []string{"Th", "Fr", "Sa"} {
		if !strings.Contains(lines[0], day) {
			t.Errorf("header missing %s: %q", day, lines[0])
		}
	}
	if strings.Count(lines[1], "■") != 1 || strings.Count(lines[1], "·") != 2 {
		t.Errorf("unexpected habit row %q", lines[1])
	}
	if !strings.Contains(out.String(), "Jun 13 to 2024-06-15") {
		t.Errorf("missing date range:\n%s", out.String())
	}

	if err := (&LogCmd{Days: 0}).Validate(); err == nil {
		t.Error("expected error for zero days")
	}
}

func TestValidateCmdFix(t *testing.T) {
	provider := storage.NewMemoryStore()
	raw := `[{"id":"a","name":"Read","color":"bg-blue-500","completedDates":["2024-06-10","2024-06-10","bad"],"createdAt":"2024-06-01T00:00:00Z","frequency":{"type":"daily"}}]`
	if err := provider.Write(constants.HabitsStorageKey, []byte(raw)); err != nil {
		t.Fatal(err)
	}
	ctx, out := setupTestContext(t, provider)

	mustRun(t, ctx, &ValidateCmd{})
	if !strings.Contains(out.String(), "Conflicts detected") {
		t.Fatalf("expected conflicts:\n%s", out.String())
	}

	out.Reset()
	mustRun(t, ctx, &ValidateCmd{Fix: true})
	if !strings.Contains(out.String(), "Repaired completion dates") {
		t.Errorf("expected a repair action:\n%s", out.String())
	}

	h, err := ctx.Service.Get("a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !reflect.DeepEqual(h.CompletedDates, []string{"2024-06-10"}) {
		t.Errorf("CompletedDates = %v", h.CompletedDates)
	}

	out.Reset()
	mustRun(t, ctx, &ValidateCmd{})
	if !strings.Contains(out.String(), "No conflicts detected.") {
		t.Errorf("expected clean collection after fix:\n%s", out.String())
	}
}

func TestInitCmdJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits.json")
	ctx, out := setupTestContext(t, storage.NewJSONStore(path))

	mustRun(t, ctx, &InitCmd{})
	if !strings.Contains(out.String(), path) {
		t.Errorf("expected path in output:\n%s", out.String())
	}
	if err := (&InitCmd{}).Run(ctx); err == nil {
		t.Error("expected error initializing twice")
	}
}

func TestBackupCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits.json")
	provider := storage.NewJSONStore(path)
	if err := provider.Init(); err != nil {
		t.Fatal(err)
	}
	ctx, out := setupTestContext(t, provider)
	mustRun(t, ctx, &AddCmd{Name: "Read"})

	out.Reset()
	mustRun(t, ctx, &BackupCreateCmd{})
	if !strings.Contains(out.String(), "Backup created: habitual-") {
		t.Fatalf("unexpected backup output:\n%s", out.String())
	}
	name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(out.String()), "✓ Backup created:"))

	out.Reset()
	mustRun(t, ctx, &BackupListCmd{})
	if !strings.Contains(out.String(), name) {
		t.Errorf("backup list missing %s:\n%s", name, out.String())
	}

	mustRun(t, ctx, &DeleteCmd{Habit: "Read"})

	ctx.In = strings.NewReader("n\n")
	out.Reset()
	mustRun(t, ctx, &BackupRestoreCmd{BackupFile: name})
	if !strings.Contains(out.String(), "Restore cancelled.") {
		t.Errorf("expected cancellation:\n%s", out.String())
	}

	ctx.In = strings.NewReader("yes\n")
	mustRun(t, ctx, &BackupRestoreCmd{BackupFile: name})

	if err := provider.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := ctx.Service.Find("Read"); err != nil {
		t.Errorf("expected restored habit, got %v", err)
	}
}

func TestBackupUnsupportedStore(t *testing.T) {
	ctx, _ := setupTestContext(t, nil)
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("expected error backing up a memory store")
	}
	// Automatic backups stay silent
	ctx.PerformAutomaticBackup()
}

func TestDoctorCmd(t *testing.T) {
	ctx, out := setupTestContext(t, nil)
	mustRun(t, ctx, &AddCmd{Name: "Read"})

	out.Reset()
	mustRun(t, ctx, &DoctorCmd{})
	for _, want := range []string{"✓ Store readable: OK", "✓ Schema version: OK", "⚠ Backups present: WARNING", "✓ Data validation: OK", "All diagnostics passed!"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("doctor output missing %q:\n%s", want, out.String())
		}
	}
}
