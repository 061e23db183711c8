package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/constants"
)

// schemaVersioned is implemented by the database-backed slot stores
type schemaVersioned interface {
	SchemaVersions() (current, latest int, err error)
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	reachable := false

	if err := checkStoreReadable(ctx); err != nil {
		ctx.printf("❌ Store readable: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Store readable: OK\n")
		reachable = true
	}

	if err := checkSchemaVersion(ctx); err != nil {
		ctx.printf("❌ Schema version: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Schema version: OK\n")
	}

	if err := checkBackupsPresent(ctx); err != nil {
		ctx.printf("⚠ Backups present: WARNING\n   %v\n", err)
	} else {
		ctx.printf("✓ Backups present: OK\n")
	}

	if reachable {
		if err := checkValidation(ctx); err != nil {
			ctx.printf("❌ Data validation: FAIL\n   Error: %v\n", err)
			hasError = true
		} else {
			ctx.printf("✓ Data validation: OK\n")
		}
	} else {
		ctx.printf("⊘ Data validation: SKIPPED (store not readable)\n")
	}

	if err := checkClock(ctx); err != nil {
		ctx.printf("❌ Clock/timezone: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Clock/timezone: OK\n")
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.println("All diagnostics passed!")
	return nil
}

func checkStoreReadable(ctx *Context) error {
	if _, _, err := ctx.Provider.Read(constants.HabitsStorageKey); err != nil {
		return fmt.Errorf("failed to read habits: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	db, ok := ctx.Provider.(schemaVersioned)
	if !ok {
		// File and memory stores carry no schema
		return nil
	}

	current, latest, err := db.SchemaVersions()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr, err := backup.ForStore(ctx.Provider)
	if errors.Is(err, backup.ErrUnsupported) {
		return fmt.Errorf("backups are not kept for %s stores", ctx.Provider.GetConfigPath())
	}
	if err != nil {
		return err
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitual backup create'")
	}
	return nil
}

func checkValidation(ctx *Context) error {
	habits, err := ctx.Service.List()
	if err != nil {
		return err
	}

	result := ctx.Service.Validator().ValidateHabits(habits, ctx.Service.Clock().Now())
	if result.HasConflicts() {
		return fmt.Errorf("%d conflicts found - run 'habitual validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkClock(ctx *Context) error {
	now := ctx.Service.Clock().Now()

	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	if now.Location() == time.UTC {
		ctx.printf("   Note: timezone is UTC, days roll over at UTC midnight\n")
	}
	return nil
}
