package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("IMPORT_BATCH_DELAY", "1s")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, time.Second, cfg.Import.BatchDelay)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 5, cfg.Import.BatchSize)
	assert.Equal(t, 100, cfg.Import.MaxUsers)
	assert.Equal(t, 6, cfg.Auth.MinPasswordLength)
	assert.Equal(t, 10, cfg.RateLimit.CreateUserPerMinute)
	assert.Equal(t, 5, cfg.RateLimit.DeleteUserPerMinute)
	assert.Equal(t, LogTypeConsole, cfg.Logger.Type)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_DURATION_VAR"

	os.Setenv(key, "250ms")
	assert.Equal(t, 250*time.Millisecond, getEnvDuration(key, time.Second))

	os.Setenv(key, "soon")
	assert.Equal(t, time.Second, getEnvDuration(key, time.Second))

	os.Unsetenv(key)
	assert.Equal(t, time.Second, getEnvDuration(key, time.Second))
}

func TestLoggerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LoggerConfig
		wantErr bool
	}{
		{name: "console", cfg: LoggerConfig{Level: LogLevelInfo, Type: LogTypeConsole}},
		{name: "file", cfg: LoggerConfig{Level: LogLevelDebug, Type: LogTypeFile, FilePath: "/tmp/app.log", MaxSizeMB: 10, MaxBackups: 1, MaxAgeDays: 7}},
		{name: "unknown level", cfg: LoggerConfig{Level: "loud", Type: LogTypeConsole}, wantErr: true},
		{name: "unknown type", cfg: LoggerConfig{Level: LogLevelInfo, Type: "syslog"}, wantErr: true},
		{name: "file without path", cfg: LoggerConfig{Level: LogLevelInfo, Type: LogTypeFile, MaxSizeMB: 10}, wantErr: true},
		{name: "file with zero size", cfg: LoggerConfig{Level: LogLevelInfo, Type: LogTypeFile, FilePath: "/tmp/app.log"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := &AppConfig{Timezone: "Europe/Rome"}
	assert.Equal(t, "Europe/Rome", cfg.Location().String())

	cfg.Timezone = "Nowhere/Atlantis"
	assert.Equal(t, time.UTC, cfg.Location())
}
