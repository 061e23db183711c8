package cli

import (
	"errors"

	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/storage/postgres"
)

type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string. Credentials are allowed here."`
}

func (c *KeyringSetCmd) Run(ctx *Context) error {
	if err := postgres.ValidateConnString(c.ConnectionString); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
		return err
	}
	if err := keyring.SetConnectionString(c.ConnectionString); err != nil {
		return err
	}
	ctx.println("✓ Connection string stored in the OS keyring")
	ctx.println("Use it with: habitual --store keyring")
	return nil
}

type KeyringStatusCmd struct{}

func (c *KeyringStatusCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		ctx.println("⚠ OS keyring is not available")
		return nil
	}

	_, err := keyring.GetConnectionString()
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		ctx.println("No connection string stored")
	case err != nil:
		return err
	default:
		ctx.println("✓ Connection string stored")
	}
	return nil
}

type KeyringDeleteCmd struct{}

func (c *KeyringDeleteCmd) Run(ctx *Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		return err
	}
	ctx.println("✓ Connection string removed from the OS keyring")
	return nil
}
