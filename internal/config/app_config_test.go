package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		want     slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"upper case", "WARN", slog.LevelWarn},
		{"unknown defaults to info", "unknown", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &AppConfig{LogLevel: tt.logLevel}
			assert.Equal(t, tt.want, c.SlogLevel())
		})
	}
}

func TestAppConfig_AllowedOrigins(t *testing.T) {
	tests := []struct {
		name      string
		clientURL string
		want      []string
	}{
		{
			name: "client url unset",
			want: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		{
			name:      "blank client url is filtered",
			clientURL: "   ",
			want:      []string{"http://localhost:3000", "http://localhost:5173"},
		},
		{
			name:      "client url appended without trailing slash",
			clientURL: "https://jobs.example.com/",
			want:      []string{"http://localhost:3000", "http://localhost:5173", "https://jobs.example.com"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &AppConfig{ClientURL: tt.clientURL}
			assert.Equal(t, tt.want, c.AllowedOrigins())
		})
	}
}

func TestAppConfig_ListenAddr(t *testing.T) {
	c := &AppConfig{Port: 5000}
	assert.Equal(t, "0.0.0.0:5000", c.ListenAddr())
}

func TestAppConfig_SenderAddress(t *testing.T) {
	c := &AppConfig{EmailUser: "hr@example.com"}
	assert.Equal(t, "Job Portal HR <hr@example.com>", c.SenderAddress())
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "MONGODB_URI", "MONGODB_DATABASE", "CLIENT_URL", "EMAIL_USER", "EMAIL_PASS",
		"SMTP_HOST", "SMTP_PORT", "SMTP_ENCRYPTION", "EMAIL_SEND_TIMEOUT", "DB_RETRY_INTERVAL",
		"DB_CONNECT_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
	} {
		// Setenv registers the restore; the variable must be absent for defaults to apply.
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "starttls", cfg.SMTPEncryption)
	assert.Equal(t, 30*time.Second, cfg.EmailSendTimeout)
	assert.Equal(t, 5*time.Second, cfg.DBRetryInterval)
	assert.Equal(t, 10*time.Second, cfg.DBConnectTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.MongoURI)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MONGODB_URI", "mongodb://db:27017/portal")
	t.Setenv("CLIENT_URL", "https://portal.example.com")
	t.Setenv("EMAIL_USER", "hr@example.com")
	t.Setenv("EMAIL_PASS", "secret")
	t.Setenv("DB_RETRY_INTERVAL", "2s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "mongodb://db:27017/portal", cfg.MongoURI)
	assert.Equal(t, "hr@example.com", cfg.EmailUser)
	assert.Equal(t, "secret", cfg.EmailPass)
	assert.Equal(t, 2*time.Second, cfg.DBRetryInterval)
	assert.Contains(t, cfg.AllowedOrigins(), "https://portal.example.com")
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "70000")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("PORT", "not-a-number")
	_, err = Load()
	assert.Error(t, err)
}
