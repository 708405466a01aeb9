package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendMongoDB = "mongodb"
	BackendMemory  = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	WhatsApp  WhatsAppConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	MongoDB   MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// StoreConfig selects the record store implementation.
type StoreConfig struct {
	Backend string
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
// Notifications are disabled when AccessToken is empty.
type WhatsAppConfig struct {
	AccessToken     string
	PhoneNumberID   string
	BaseURL         string
	APIVersion      string
	ReportRecipient string
}

// Enabled reports whether outbound messages can be sent.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != ""
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	ExportRange     string
	ImportRange     string
}

// Enabled reports whether a spreadsheet is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	MonthlyCron string
	UnpaidCron  string
	Timezone    string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI          string
	DBName       string
	Collection   string
	PollInterval time.Duration
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
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	pollInterval, err := time.ParseDuration(getenvWithDefault("MONGODB_POLL_INTERVAL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONGODB_POLL_INTERVAL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getenvWithDefault("STORE_BACKEND", BackendMongoDB)),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:     os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID:   os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:         getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:      getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			ReportRecipient: os.Getenv("WHATSAPP_REPORT_RECIPIENT"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_ID"),
			ExportRange:     getenvWithDefault("GOOGLE_SHEET_EXPORT_RANGE", "Reports!A1"),
			ImportRange:     getenvWithDefault("GOOGLE_SHEET_IMPORT_RANGE", "Ledger!A2:L"),
		},
		Reporting: ReportingConfig{
			MonthlyCron: getenvWithDefault("REPORT_MONTHLY_CRON", "0 8 1 * *"),
			UnpaidCron:  getenvWithDefault("REPORT_UNPAID_CRON", "0 20 * * 5"),
			Timezone:    getenvWithDefault("TIMEZONE", "Asia/Seoul"),
		},
		MongoDB: MongoDBConfig{
			URI:          getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName:       getenvWithDefault("MONGODB_DB_NAME", "freightledger"),
			Collection:   getenvWithDefault("MONGODB_COLLECTION", "records"),
			PollInterval: pollInterval,
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

	switch c.Store.Backend {
	case BackendMongoDB:
		switch {
		case c.MongoDB.URI == "":
			return errors.New("MONGODB_URI must be provided")
		case c.MongoDB.DBName == "":
			return errors.New("MONGODB_DB_NAME must be provided")
		case c.MongoDB.Collection == "":
			return errors.New("MONGODB_COLLECTION must be provided")
		case c.MongoDB.PollInterval <= 0:
			return errors.New("MONGODB_POLL_INTERVAL must be positive")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendMongoDB, BackendMemory, c.Store.Backend)
	}

	if c.WhatsApp.AccessToken != "" {
		if c.WhatsApp.PhoneNumberID == "" {
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided when WHATSAPP_TOKEN is set")
		}
		if c.WhatsApp.BaseURL == "" {
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		}
		if c.WhatsApp.APIVersion == "" {
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_ID must be provided when GOOGLE_SHEETS_CREDENTIALS_PATH is set")
	}

	if c.Reporting.MonthlyCron == "" {
		return errors.New("REPORT_MONTHLY_CRON must be provided")
	}
	if c.Reporting.UnpaidCron == "" {
		return errors.New("REPORT_UNPAID_CRON must be provided")
	}
	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	return nil
}

// Location returns the reporting time zone, falling back to UTC.
func (c ReportingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
