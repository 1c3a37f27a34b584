package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, k := range []string{"DB_DSN", "TELEGRAM_TOKEN", "ENV", "HTTP_ADDR", "REMINDER_LEAD", "REMINDER_CRON", "EXPIRY_CRON", "DB_MAX_CONNS"} {
		t.Setenv(k, "")
	}
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, map[string]string{"DB_DSN": "postgres://localhost/tutoring"})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, time.Hour, cfg.ReminderLead)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, "@every 5m", cfg.ReminderCron)
	assert.False(t, cfg.IsProduction())
	assert.Error(t, cfg.RequireTelegram())
}

func TestLoadOverrides(t *testing.T) {
	setEnv(t, map[string]string{
		"DB_DSN":         "postgres://localhost/tutoring",
		"ENV":            "production",
		"TELEGRAM_TOKEN": "123:abc",
		"REMINDER_LEAD":  "30m",
		"DB_MAX_CONNS":   "4",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Minute, cfg.ReminderLead)
	assert.Equal(t, int32(4), cfg.DBMaxConns)
	assert.NoError(t, cfg.RequireTelegram())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing dsn", map[string]string{}},
		{"bad lead", map[string]string{"DB_DSN": "x", "REMINDER_LEAD": "soon"}},
		{"negative lead", map[string]string{"DB_DSN": "x", "REMINDER_LEAD": "-5m"}},
		{"bad max conns", map[string]string{"DB_DSN": "x", "DB_MAX_CONNS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
