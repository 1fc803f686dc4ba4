package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for the fitsync service.
// Environment variables are parsed from the FITSYNC_ prefix.
type Config struct {
	// Fitbit OAuth application credentials
	ClientID     string `envconfig:"CLIENT_ID" required:"true"`
	ClientSecret string `envconfig:"CLIENT_SECRET" required:"true"`
	RedirectURI  string `envconfig:"REDIRECT_URI" required:"true"`

	// Space-delimited OAuth scopes requested at authorization and
	// required of every enrolled user.
	Scopes string `envconfig:"SCOPES" required:"true"`

	// Fitbit API base URLs. Overridable for tests.
	APIBaseURL       string `envconfig:"API_BASE_URL" default:"https://api.fitbit.com"`
	AuthorizeBaseURL string `envconfig:"AUTHORIZE_BASE_URL" default:"https://www.fitbit.com"`

	// Postgres Configuration
	PostgresDSN string `envconfig:"POSTGRES_DSN" required:"true"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"3000"`

	// Cron expressions (UTC). CronReport may be empty to disable reporting.
	CronImport string `envconfig:"CRON_IMPORT" required:"true"`
	CronReport string `envconfig:"CRON_REPORT" default:""`

	// Rolling import window for the scheduled job: the batch imports
	// NumDays consecutive days ending DaysPrior days before today.
	DaysPrior int `envconfig:"IMPORT_DAYS_PRIOR" default:"1"`
	NumDays   int `envconfig:"IMPORT_NUM_DAYS" default:"2"`

	// Outbound request timeout for Fitbit API calls.
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`

	// Minimum level emitted by the service loggers.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// SMTP alerting. Alerts are disabled when SMTPHost is empty.
	SMTPHost string `envconfig:"SMTP_HOST" default:""`
	SMTPPort int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser string `envconfig:"SMTP_USER" default:""`
	SMTPPass string `envconfig:"SMTP_PASS" default:""`
	AlertTo  string `envconfig:"ALERT_TO" default:""`
}

// New loads configuration from the environment.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("fitsync", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks derived constraints that envconfig tags cannot express.
func (c *Config) Validate() error {
	if c.DaysPrior < 0 {
		return fmt.Errorf("IMPORT_DAYS_PRIOR must be >= 0, got %d", c.DaysPrior)
	}
	if c.NumDays < 1 {
		return fmt.Errorf("IMPORT_NUM_DAYS must be >= 1, got %d", c.NumDays)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	return nil
}
