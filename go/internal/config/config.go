package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config is the full draftpilot configuration. Values come from the YAML
// file, then environment variables override them.
type Config struct {
	Sleeper     SleeperConfig     `yaml:"sleeper"`
	Draft       DraftConfig       `yaml:"draft"`
	Projections ProjectionsConfig `yaml:"projections"`
	Players     PlayersConfig     `yaml:"players"`
	Server      ServerConfig      `yaml:"server"`
	NATS        NATSConfig        `yaml:"nats"`
	Database    Database          `yaml:"database"`
	Log         LogConfig         `yaml:"log"`
}

type SleeperConfig struct {
	BaseURL         string        `yaml:"base_url"`
	Timeout         time.Duration `yaml:"timeout"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	Burst           int           `yaml:"burst"`
}

type DraftConfig struct {
	ID            string        `yaml:"id"`
	RosterID      int           `yaml:"roster_id"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	StopTimeout   time.Duration `yaml:"stop_timeout"`
	FailureBudget int           `yaml:"failure_budget"`
	MaxBackoff    time.Duration `yaml:"max_backoff"`
}

type ProjectionsConfig struct {
	Path string `yaml:"path"`
}

type PlayersConfig struct {
	Sport string        `yaml:"sport"`
	TTL   time.Duration `yaml:"ttl"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// NATSConfig enables the JetStream event stream when URL is set.
type NATSConfig struct {
	URL string `yaml:"url"`
}

func (n NATSConfig) Enabled() bool { return n.URL != "" }

// Database holds Postgres connection settings for the pick archive. The
// archive is disabled when Host is empty.
type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

func (d Database) Enabled() bool { return d.Host != "" }

// DSN returns the Postgres connection URL.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
	)
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Sleeper: SleeperConfig{
			BaseURL:         "https://api.sleeper.app/v1",
			Timeout:         10 * time.Second,
			RateLimitPerSec: 5,
			Burst:           2,
		},
		Draft: DraftConfig{
			PollInterval:  3 * time.Second,
			StopTimeout:   5 * time.Second,
			FailureBudget: 5,
			MaxBackoff:    2 * time.Minute,
		},
		Players: PlayersConfig{
			Sport: "nfl",
			TTL:   24 * time.Hour,
		},
		Server: ServerConfig{Port: "8080"},
		Database: Database{
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "draftpilot",
			SSLMode:  "disable",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error. A .env file in the working directory is
// loaded first when present.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			log.Debug().Str("path", path).Msg("config file not found, using defaults")
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Sleeper.BaseURL = getEnv("SLEEPER_BASE_URL", c.Sleeper.BaseURL)
	c.Draft.ID = getEnv("DRAFT_ID", c.Draft.ID)
	c.Draft.RosterID = getEnvAsInt("ROSTER_ID", c.Draft.RosterID)
	c.Draft.PollInterval = getEnvAsDuration("POLL_INTERVAL", c.Draft.PollInterval)
	c.Projections.Path = getEnv("PROJECTIONS_PATH", c.Projections.Path)
	c.NATS.URL = getEnv("NATS_URL", c.NATS.URL)
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)

	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvAsInt("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Database = getEnv("DB_NAME", c.Database.Database)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
}

// Validate rejects values the manager and client cannot run with.
func (c Config) Validate() error {
	if c.Draft.PollInterval <= 0 {
		return fmt.Errorf("draft.poll_interval must be positive, got %s", c.Draft.PollInterval)
	}
	if c.Sleeper.RateLimitPerSec < 0 {
		return fmt.Errorf("sleeper.rate_limit_per_sec must not be negative")
	}
	if c.Draft.RosterID < 0 {
		return fmt.Errorf("draft.roster_id must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Warn().Str("key", key).Str("value", v).Msg("ignoring non-integer environment value")
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Warn().Str("key", key).Str("value", v).Msg("ignoring invalid duration environment value")
	}
	return fallback
}
