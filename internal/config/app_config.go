package config

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Origins that are always allowed to call the API from a browser.
var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// AppConfig holds all application-level configuration loaded from environment variables.
type AppConfig struct {
	// Port is the HTTP server port. Defaults to 5000.
	Port int `envconfig:"PORT" default:"5000"`

	// MongoURI is the MongoDB connection string. It is not validated here;
	// a bad value shows up as a failed connection attempt.
	MongoURI string `envconfig:"MONGODB_URI"`

	// MongoDatabase overrides the database named in MongoURI.
	MongoDatabase string `envconfig:"MONGODB_DATABASE"`

	// ClientURL is the deployed frontend origin, added to the CORS allow-list when set.
	ClientURL string `envconfig:"CLIENT_URL"`

	// EmailUser and EmailPass are the SMTP credentials. EmailUser is also the sender address.
	EmailUser string `envconfig:"EMAIL_USER"`
	EmailPass string `envconfig:"EMAIL_PASS"`

	SMTPHost       string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort       int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPEncryption string `envconfig:"SMTP_ENCRYPTION" default:"starttls"` // "none", "starttls", "ssl_tls"

	// EmailSendTimeout bounds a single delivery attempt.
	EmailSendTimeout time.Duration `envconfig:"EMAIL_SEND_TIMEOUT" default:"30s"`

	// DBRetryInterval is the fixed delay between database connection attempts.
	DBRetryInterval time.Duration `envconfig:"DB_RETRY_INTERVAL" default:"5s"`

	// DBConnectTimeout bounds a single database connection attempt.
	DBConnectTimeout time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"10s"`

	// LogLevel sets the minimum log level (debug, info, warn, error). Defaults to info.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// LogFormat is "json" or "text".
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// LogFile, when set, sends logs to a rotated file instead of stderr.
	LogFile string `envconfig:"LOG_FILE"`
}

// Load reads AppConfig from environment variables using envconfig.
func Load() (*AppConfig, error) {
	var c AppConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return nil, fmt.Errorf("loading config: invalid PORT %d", c.Port)
	}
	return &c, nil
}

// SlogLevel converts the LogLevel string to a slog.Level.
// Unknown values default to slog.LevelInfo.
func (c *AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// AllowedOrigins returns the CORS allow-list: the local dev frontends plus
// ClientURL when it is set.
func (c *AppConfig) AllowedOrigins() []string {
	origins := make([]string, 0, len(defaultAllowedOrigins)+1)
	origins = append(origins, defaultAllowedOrigins...)
	if u := strings.TrimRight(strings.TrimSpace(c.ClientURL), "/"); u != "" {
		origins = append(origins, u)
	}
	return origins
}

// ListenAddr returns the address the HTTP server binds to (all interfaces).
func (c *AppConfig) ListenAddr() string {
	return net.JoinHostPort("0.0.0.0", strconv.Itoa(c.Port))
}

// SenderAddress is the From header used for outgoing email.
func (c *AppConfig) SenderAddress() string {
	return fmt.Sprintf("Job Portal HR <%s>", c.EmailUser)
}
