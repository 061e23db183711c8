// Package errors formats command failures for the terminal.
package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/validation"
)

var stderr io.Writer = os.Stderr

var hints = []struct {
	target error
	hint   string
}{
	{storage.ErrNotFound, "run 'habitual list' to see habit ids and names"},
	{storage.ErrNotLoaded, "run 'habitual init' to create the store"},
	{validation.ErrRejected, "run 'habitual add --help' for accepted values"},
	{keyring.ErrNotFound, "run 'habitual keyring set <connection-string>' first"},
	{keyring.ErrKeyringUnavailable, "pass a connection string with --store instead of 'keyring'"},
	{postgres.ErrEmbeddedCredentials, "remove the password and use .pgpass, PGPASSWORD or 'habitual keyring set'"},
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix
func Formatf(format string, args ...any) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a follow-up suggestion for known failures, or ""
func Hint(err error) string {
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Report writes the formatted error and its hint to stderr
func Report(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(stderr, Format(err))
	if hint := Hint(err); hint != "" {
		fmt.Fprintf(stderr, "Hint: %s\n", hint)
	}
}

// Fatal logs and reports err, then exits with status 1. A nil err is a no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("command execution failed", "error", err)
	Report(err)
	_ = logger.Close()
	os.Exit(1)
}

// Fatalf is Fatal with a formatted message
func Fatalf(format string, args ...any) {
	Fatal(fmt.Errorf(format, args...))
}
