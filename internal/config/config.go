// Package config resolves runtime settings from the environment and picks the
// slot backend the store location points at.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/utils"
)

// StoreKind is the backend a store location selects
type StoreKind string

const (
	KindJSON     StoreKind = "json"
	KindSQLite   StoreKind = "sqlite"
	KindPostgres StoreKind = "postgres"
	KindKeyring  StoreKind = "keyring"
)

// ErrMinInterval is returned when the refresh interval is below one second
var ErrMinInterval = errors.New("refresh interval must be at least 1s")

type Config struct {
	Store             string        `env:"HABITUAL_STORE" envDefault:"~/.config/habitual/habitual.db"`
	Debug             bool          `env:"HABITUAL_DEBUG"`
	RefreshInterval   time.Duration `env:"HABITUAL_REFRESH_INTERVAL" envDefault:"1m"`
	TrayNotifications bool          `env:"HABITUAL_TRAY_NOTIFICATIONS"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Store) == "" {
		return errors.New("store location must not be empty")
	}
	if c.RefreshInterval < time.Second {
		return fmt.Errorf("%w, got %s", ErrMinInterval, c.RefreshInterval)
	}
	return nil
}

// Kind reports which backend the store location selects.
func (c Config) Kind() StoreKind {
	return KindOf(c.Store)
}

func KindOf(location string) StoreKind {
	switch {
	case location == constants.KeyringStoreValue:
		return KindKeyring
	case postgres.IsConnString(location):
		return KindPostgres
	case strings.EqualFold(filepath.Ext(location), ".json"):
		return KindJSON
	default:
		return KindSQLite
	}
}

// ConfigDir is the directory holding the store, logs and backups. Database
// backends fall back to the default location's directory.
func (c Config) ConfigDir() (string, error) {
	location := c.Store
	if kind := c.Kind(); kind == KindPostgres || kind == KindKeyring {
		location = constants.DefaultConfigPath
	}
	path, err := utils.ExpandPath(location)
	if err != nil {
		return "", fmt.Errorf("failed to expand store path: %w", err)
	}
	return filepath.Dir(path), nil
}

// OpenProvider builds the slot backend for the configured store location. The
// provider is returned unloaded.
func OpenProvider(c Config) (storage.Provider, error) {
	switch c.Kind() {
	case KindKeyring:
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return nil, fmt.Errorf("failed to read connection string from keyring: %w", err)
		}
		// The keyring is where credentials are allowed to live
		if err := postgres.ValidateConnString(connStr); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, err
		}
		return postgres.New(connStr), nil
	case KindPostgres:
		if err := postgres.ValidateConnString(c.Store); err != nil {
			return nil, err
		}
		return postgres.New(c.Store), nil
	}

	path, err := utils.ExpandPath(c.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to expand store path: %w", err)
	}
	if c.Kind() == KindJSON {
		return storage.NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}
