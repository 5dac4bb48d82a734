package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"SERVER_PORT", "PORT", "DB_PATH", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
	"RABBITMQ_URL", "LEDGER_EVENT_EXCHANGE", "AUDIT_SCHEDULE", "CORS_ALLOWED_ORIGINS",
	"METRICS_ENABLED", "REQUEST_TIMEOUT", "SHUTDOWN_TIMEOUT",
}

func resetEnv(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	for _, key := range configKeys {
		unsetEnvWithCleanup(t, key)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetEnv(t)

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.ServerPort)
	assert.Equal(t, "db.json", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "klix.events", cfg.EventExchange)
	assert.Equal(t, "@every 1h", cfg.AuditSchedule)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins())
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoadConfig_PortOverridesServerPort(t *testing.T) {
	resetEnv(t)
	setEnvWithCleanup(t, "SERVER_PORT", "5000")
	setEnvWithCleanup(t, "PORT", " 7070 ")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.ServerPort)
}

func TestLoadConfig_InvalidDurationFallsBack(t *testing.T) {
	resetEnv(t)
	setEnvWithCleanup(t, "REQUEST_TIMEOUT", "soon")
	setEnvWithCleanup(t, "SHUTDOWN_TIMEOUT", "3s")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfig_ReadsDotEnvFile(t *testing.T) {
	resetEnv(t)
	dir := t.TempDir()
	content := "DB_PATH=/var/lib/klix/db.json\nCORS_ALLOWED_ORIGINS=https://a.example, https://b.example\nMETRICS_ENABLED=false\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/klix/db.json", cfg.DBPath)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}

func TestLoadConfig_EmptyAuditScheduleDisablesJob(t *testing.T) {
	resetEnv(t)
	setEnvWithCleanup(t, "AUDIT_SCHEDULE", "")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.AuditSchedule)
}

func setEnvWithCleanup(t *testing.T, key string, value string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}

func unsetEnvWithCleanup(t *testing.T, key string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
		}
	})
}
