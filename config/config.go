// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	DBDriver    string `env:"DB_DRIVER"    envDefault:"sqlite"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"data/game.db"`

	HTTPAddr       string   `env:"HTTP_ADDR"       envDefault:":5200"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFile   string `env:"LOG_FILE"   envDefault:"logs/app.log"`
	LogStderr bool   `env:"LOG_STDERR" envDefault:"true"`

	// Matches left IN_PROGRESS longer than StaleMatchAge are abandoned by the sweeper.
	StaleMatchAge time.Duration `env:"STALE_MATCH_AGE" envDefault:"1h"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL"  envDefault:"5m"`

	ExportInterval time.Duration `env:"STATS_EXPORT_INTERVAL" envDefault:"15m"`
	R2             R2Config      `envPrefix:"R2_"`
}

// R2Config points the stats exporter at a Cloudflare R2 (S3-compatible) bucket.
type R2Config struct {
	AccountID       string `env:"ACCOUNT_ID"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	AccessKeySecret string `env:"ACCESS_KEY_SECRET"`
	Bucket          string `env:"BUCKET_NAME"`
	// Endpoint overrides the account endpoint, e.g. for a local S3 emulator.
	Endpoint string `env:"ENDPOINT"`
}

// Enabled reports whether enough is set to talk to the bucket.
func (c R2Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.AccessKeySecret != "" &&
		(c.AccountID != "" || c.Endpoint != "")
}

// Load reads an optional .env file, then parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}
	return Parse()
}

// Parse reads the environment only.
func Parse() (Config, error) {
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
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", c.DBDriver, DriverSQLite, DriverPostgres)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if c.StaleMatchAge <= 0 {
		return fmt.Errorf("STALE_MATCH_AGE must be positive, got %s", c.StaleMatchAge)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive, got %s", c.SweepInterval)
	}
	if c.ExportInterval <= 0 {
		return fmt.Errorf("STATS_EXPORT_INTERVAL must be positive, got %s", c.ExportInterval)
	}
	return nil
}
