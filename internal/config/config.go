// Package config reads the runtime configuration from the environment and
// builds the logger and game store it describes.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"connect4/internal/history"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
)

type StoreKind string

const (
	StoreJSON     StoreKind = "json"
	StoreSQLite   StoreKind = "sqlite"
	StorePostgres StoreKind = "postgres"
)

const DefaultListen = ":8044"

type Config struct {
	Store       StoreKind
	DataPath    string
	DatabaseURL string
	LogPath     string
	LogLevel    string
	Listen      string
}

// Load reads an optional .env file, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, filling in defaults under
// ~/.config/connect4.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Store:       StoreKind(getenv("CONNECT4_STORE")),
		DataPath:    getenv("CONNECT4_DATA"),
		DatabaseURL: getenv("DATABASE_URL"),
		LogPath:     getenv("CONNECT4_LOG"),
		LogLevel:    getenv("CONNECT4_LOG_LEVEL"),
		Listen:      getenv("CONNECT4_LISTEN"),
	}
	if cfg.Store == "" {
		cfg.Store = StoreJSON
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}

	switch cfg.Store {
	case StoreJSON, StoreSQLite:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set for the %s store", cfg.Store)
		}
	default:
		return Config{}, fmt.Errorf("unknown CONNECT4_STORE %q (use json, sqlite or postgres)", cfg.Store)
	}

	if cfg.DataPath == "" || cfg.LogPath == "" {
		dir, err := Dir()
		if err != nil {
			return Config{}, err
		}
		if cfg.DataPath == "" {
			name := "games.json"
			if cfg.Store == StoreSQLite {
				name = "games.db"
			}
			cfg.DataPath = filepath.Join(dir, name)
		}
		if cfg.LogPath == "" {
			cfg.LogPath = filepath.Join(dir, "connect4.log")
		}
	}
	return cfg, nil
}

// Dir is ~/.config/connect4.
func Dir() (string, error) {
	path, err := history.DefaultPath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// NewLogger writes JSON lines to path. "stderr" and "stdout" are accepted
// as paths.
func NewLogger(path, level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if path != "stderr" && path != "stdout" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("error creating log directory: %w", err)
		}
	}

	zc := zap.NewProductionConfig()
	zc.Level = lvl
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	return zc.Build()
}

// OpenStore builds the configured store. The returned func releases it.
func OpenStore(cfg Config) (history.Store, func() error, error) {
	switch cfg.Store {
	case StoreSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.DataPath), 0755); err != nil {
			return nil, nil, fmt.Errorf("error creating data directory: %w", err)
		}
		s, err := history.OpenGormStore(sqlite.Open(cfg.DataPath))
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case StorePostgres:
		s, err := history.OpenGormStore(postgres.Open(cfg.DatabaseURL))
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return history.NewJSONFileStore(cfg.DataPath), func() error { return nil }, nil
	}
}
