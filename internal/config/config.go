package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-based settings. DatabaseURL, BotToken and
// RedisAddress are all optional: without a database the service is a
// read-only schedule viewer, without a token the bot surface stays off,
// without redis every request hits the provider directly.
type Config struct {
	Environment    string
	ServerAddress  string
	DatabaseURL    string
	MigrationsPath string
	RedisAddress   string
	RedisUsername  string
	RedisPassword  string
	BotToken       string
	BotMode        string // polling | webhook
	WebhookURL     string
	CronSecret     string
	CronSchedule   string
	Timezone       string
	Location       *time.Location
}

// Load reads configuration from the environment, honoring a local .env file
// when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment:    os.Getenv("APP_ENV"),
		ServerAddress:  os.Getenv("SERVER_ADDRESS"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		RedisAddress:   os.Getenv("REDIS_ADDRESS"),
		RedisUsername:  os.Getenv("REDIS_USERNAME"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		BotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		BotMode:        os.Getenv("BOT_MODE"),
		WebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		CronSecret:     os.Getenv("CRON_SECRET"),
		CronSchedule:   os.Getenv("CRON_SCHEDULE"),
		Timezone:       os.Getenv("TIMEZONE"),
	}

	if cfg.ServerAddress == "" {
		cfg.ServerAddress = ":8080"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "./migrations"
	}
	if cfg.BotMode == "" {
		cfg.BotMode = "webhook"
	}
	if cfg.BotMode != "webhook" && cfg.BotMode != "polling" {
		return nil, fmt.Errorf("BOT_MODE must be webhook or polling, got %q", cfg.BotMode)
	}
	if cfg.CronSchedule == "" {
		cfg.CronSchedule = "*/5 * * * *"
	}
	// Provider schedules are Kyiv wall clock, so every "now" comparison
	// happens in this zone regardless of the host timezone.
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Kyiv"
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc
	return cfg, nil
}

// PersistenceAvailable reports whether a database was configured. Every
// store operation degrades to a no-op when it was not.
func (c *Config) PersistenceAvailable() bool {
	return c.DatabaseURL != ""
}

// BotConfigured reports whether the Telegram surface should be constructed.
func (c *Config) BotConfigured() bool {
	return c.BotToken != ""
}
