package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string
	HTTPAddr      string
	DBMaxConns    int32

	// Фоновые задачи
	ReminderLead time.Duration // за сколько до начала напоминать о занятии
	ReminderCron string
	ExpiryCron   string
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	// Отсутствие .env не ошибка: в контейнере всё приходит из окружения
	_ = godotenv.Load(".env")

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		Environment:   getEnv("ENV", "development"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		ReminderCron:  getEnv("REMINDER_CRON", "@every 5m"),
		ExpiryCron:    getEnv("EXPIRY_CRON", "@every 15m"),
	}

	var err error
	if cfg.ReminderLead, err = time.ParseDuration(getEnv("REMINDER_LEAD", "1h")); err != nil {
		return nil, fmt.Errorf("REMINDER_LEAD: %w", err)
	}
	if cfg.ReminderLead <= 0 {
		return nil, errors.New("REMINDER_LEAD must be positive")
	}

	maxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "10"), 10, 32)
	if err != nil || maxConns < 1 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be a positive integer")
	}
	cfg.DBMaxConns = int32(maxConns)

	if cfg.DBDSN == "" {
		return nil, errors.New("DB_DSN is required but not set")
	}

	return cfg, nil
}

// RequireTelegram checks the settings only the bot needs.
func (c *Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required but not set")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
