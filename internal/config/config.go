package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Transaction modes for order persistence.
const (
	TxModeRequired   = "required"
	TxModeBestEffort = "best-effort"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Auth      AuthConfig
	Orders    OrdersConfig
	Reporting ReportingConfig
	Sheets    SheetsConfig
	Notify    NotifyConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
	Env  string // "production" or "development"
}

// Production reports whether the server runs in production mode. Outside
// production, 500 responses include internal error detail.
func (s ServerConfig) Production() bool {
	return s.Env == "production"
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// AuthConfig holds session token and registration settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  int // hours
	AdminCode string
}

// OrdersConfig controls the order-placement persistence strategy.
// TxMode "required" surfaces transaction failures; "best-effort" falls back
// to sequential non-atomic writes when the deployment lacks transactions.
type OrdersConfig struct {
	TxMode string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// SheetsConfig contains configuration required to export daily reports to
// Google Sheets. Export is disabled when either field is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether spreadsheet export is configured.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// NotifyConfig holds the outbound alert webhook settings. Alerts are
// disabled when the URL is empty.
type NotifyConfig struct {
	WebhookURL string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	ttl, err := strconv.Atoi(getenvWithDefault("JWT_TTL_HOURS", "720"))
	if err != nil {
		return nil, fmt.Errorf("JWT_TTL_HOURS must be an integer: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
			Env:  getenvWithDefault("APP_ENV", "development"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "bakery"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  ttl,
			AdminCode: os.Getenv("ADMIN_REGISTRATION_CODE"),
		},
		Orders: OrdersConfig{
			TxMode: getenvWithDefault("ORDER_TX_MODE", TxModeBestEffort),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Local"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Notify: NotifyConfig{
			WebhookURL: os.Getenv("ALERT_WEBHOOK_URL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided")
	}

	if c.Auth.TokenTTL <= 0 {
		return errors.New("JWT_TTL_HOURS must be positive")
	}

	if c.Auth.AdminCode == "" {
		return errors.New("ADMIN_REGISTRATION_CODE must be provided")
	}

	switch c.Orders.TxMode {
	case TxModeRequired, TxModeBestEffort:
	default:
		return fmt.Errorf("ORDER_TX_MODE must be %q or %q", TxModeRequired, TxModeBestEffort)
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
