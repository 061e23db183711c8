package e2e

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testCommandTimeout = 30 * time.Second

// findBinary locates the habitual binary from HABITUAL_BIN_DIR or ../../bin
func findBinary(t *testing.T) string {
	t.Helper()

	binDir := os.Getenv("HABITUAL_BIN_DIR")
	if binDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			t.Fatalf("Failed to get cwd: %v", err)
		}
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)

	cliPath := filepath.Join(binDir, "habitual")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s. Build it with 'go build -o bin/habitual ./cmd/habitual'.", cliPath)
	}
	return cliPath
}

// isolatedEnv points HOME and the store at tempDir
func isolatedEnv(tempDir, store string) []string {
	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "XDG_CONFIG_HOME=") || strings.HasPrefix(e, "HABITUAL_") {
			continue
		}
		env = append(env, e)
	}
	return append(env,
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("XDG_CONFIG_HOME=%s", tempDir),
		fmt.Sprintf("HABITUAL_STORE=%s", store),
	)
}

func TestEndToEndWorkflow(t *testing.T) {
	for _, tc := range []struct {
		name  string
		store string
	}{
		{"sqlite", "habitual.db"},
		{"json", "habits.json"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cliPath := findBinary(t)
			tempDir := t.TempDir()
			env := isolatedEnv(tempDir, filepath.Join(tempDir, "habitual", tc.store))

			t.Log("Initializing CLI...")
			runCmd(t, cliPath, env, "init")

			t.Log("Adding habits...")
			out := runCmd(t, cliPath, env, "add", "Read", "--color", "bg-green-500", "--icon", "book")
			if !strings.Contains(out, "Habit created successfully") {
				t.Errorf("expected creation notification, got:\n%s", out)
			}
			runCmd(t, cliPath, env, "add", "Stretch", "--frequency", "weekly", "--days", "mon,wed,fri")

			t.Log("Marking today...")
			out = runCmd(t, cliPath, env, "mark", "read")
			if !strings.Contains(out, "Habit completed!") {
				t.Errorf("expected completion notification, got:\n%s", out)
			}

			out = runCmd(t, cliPath, env, "stats", "Read")
			if !strings.Contains(out, "Current streak:    1") {
				t.Errorf("expected a one day streak, got:\n%s", out)
			}

			out = runCmd(t, cliPath, env, "list")
			if !strings.Contains(out, "weekly on Mon,Wed,Fri") {
				t.Errorf("expected weekly frequency in list, got:\n%s", out)
			}

			t.Log("Unmarking today...")
			out = runCmd(t, cliPath, env, "mark", "Read")
			if !strings.Contains(out, "Habit marked as incomplete") {
				t.Errorf("expected incomplete notification, got:\n%s", out)
			}

			t.Log("Backing up...")
			out = runCmd(t, cliPath, env, "backup", "create")
			if !strings.Contains(out, "Backup created") {
				t.Errorf("expected backup confirmation, got:\n%s", out)
			}

			out = runCmd(t, cliPath, env, "validate")
			if !strings.Contains(out, "No conflicts detected.") {
				t.Errorf("expected a clean collection, got:\n%s", out)
			}

			runCmd(t, cliPath, env, "delete", "Stretch")

			if _, err := runCmdErr(cliPath, env, "delete", "Stretch"); err == nil {
				t.Errorf("expected deleting a missing habit to fail")
			}
		})
	}
}

func runCmd(t *testing.T, path string, env []string, args ...string) string {
	t.Helper()
	out, err := runCmdErr(path, env, args...)
	if err != nil {
		t.Fatalf("Command %v failed: %v\nOutput:\n%s", args, err, out)
	}
	return out
}

func runCmdErr(path string, env []string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), testCommandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Env = env
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return buf.String(), err
}
