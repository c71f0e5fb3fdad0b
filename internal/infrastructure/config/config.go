// internal/infrastructure/config/config.go
package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string `envconfig:"APP_VERSION" default:"1.0.0"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`

	// Server
	Port         string        `envconfig:"PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
	CORSOrigins  []string      `envconfig:"CORS_ORIGINS" default:"*"`

	// MongoDB
	MongoURI      string `envconfig:"MONGODB_DSN" default:"mongodb://localhost:27017"`
	MongoDB       string `envconfig:"MONGO_DB" default:"bookingdesk"`
	MongoUser     string `envconfig:"MONGO_USER"`
	MongoPassword string `envconfig:"MONGO_PASSWORD"`

	// PostgreSQL airline directory, disabled when empty
	PostgresURI string `envconfig:"POSTGRES_DSN"`

	// Auth
	JWTSecret          string        `envconfig:"JWT_SECRET"`
	JWTIssuer          string        `envconfig:"JWT_ISSUER" default:"bookingdesk"`
	TokenTTL           time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	LoginRatePerSecond float64       `envconfig:"LOGIN_RATE_PER_SECOND" default:"1"`
	LoginRateBurst     int           `envconfig:"LOGIN_RATE_BURST" default:"5"`
	TrustedProxies     []string      `envconfig:"TRUSTED_PROXIES"`

	// Workflow
	StrictTransitions bool `envconfig:"STRICT_TRANSITIONS" default:"false"`

	// Gmail
	GmailClientID     string `envconfig:"GMAIL_CLIENT_ID"`
	GmailClientSecret string `envconfig:"GMAIL_CLIENT_SECRET"`
	GmailRefreshToken string `envconfig:"GMAIL_REFRESH_TOKEN"`

	// Notifications
	NotificationSender     string        `envconfig:"NOTIFICATION_SENDER"`
	NotificationRecipients []string      `envconfig:"NOTIFICATION_RECIPIENTS"`
	NotificationTimeout    time.Duration `envconfig:"NOTIFICATION_TIMEOUT" default:"10s"`

	// Metrics
	MetricsNamespace string `envconfig:"METRICS_NAMESPACE" default:"bookingdesk"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the API server cannot run without
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

// GmailEnabled reports whether notices go out through Gmail
func (c *Config) GmailEnabled() bool {
	return c.GmailClientID != "" && c.GmailClientSecret != "" && c.GmailRefreshToken != ""
}
