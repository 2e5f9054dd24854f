// Package config reads muster settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const Prefix = "MUSTER_"

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

type Config struct {
	SocketPath      string `env:"SOCKET_PATH" envDefault:"/tmp/muster.sock"`
	HTTPAddr        string `env:"HTTP_ADDR" envDefault:":8088"`
	CatalogDir      string `env:"CATALOG_DIR" envDefault:"data"`
	RulebookVersion string `env:"RULEBOOK_VERSION" envDefault:"v1"`

	Store           string        `env:"STORE" envDefault:"memory"`
	SQLitePath      string        `env:"SQLITE_PATH" envDefault:"data/muster.db"`
	RedisAddr       string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	RedisTTL        time.Duration `env:"REDIS_TTL" envDefault:"0s"`
	PersistCompiled bool          `env:"PERSIST_COMPILED" envDefault:"true"`

	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	OtelEndpoint string `env:"OTEL_ENDPOINT"`
}

// Load reads an optional .env file from dotenv, then the MUSTER_ variables.
// Variables already set in the environment win over the file.
func Load(dotenv string) (Config, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreSQLite, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q (want memory, sqlite or redis)", c.Store)
	}
	if c.RulebookVersion == "" {
		return errors.New("rulebook version must not be empty")
	}
	if c.RedisTTL < 0 {
		return fmt.Errorf("redis ttl %s is negative", c.RedisTTL)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level; Validate has already vetted it.
func (c Config) Level() slog.Level {
	lvl, _ := ParseLevel(c.LogLevel)
	return lvl
}

func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}
