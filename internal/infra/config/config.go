package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"contract_expiry_notifier/internal/domain/contract"

	"github.com/joho/godotenv"
)

const (
	SourceSheets   = "sheets"
	SourceXLSX     = "xlsx"
	SourcePostgres = "postgres"

	TransportSMTP     = "smtp"
	TransportGmail    = "gmail"
	TransportTelegram = "telegram"
	TransportLog      = "log"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	LogLevel    string
	Environment string
	Timezone    string
	CronSpec    string
	RunTimeout  time.Duration
	MetricsAddr string

	Source string
	Block  contract.Block
	Layout contract.Layout

	Recipient        string
	Transport        string
	BodyTemplatePath string
	RetryCount       int
	RetryBackoffMs   int

	SMTP   SMTPConfig
	Google GoogleConfig

	XLSXPath      string
	DatabaseURL   string
	TelegramToken string
}

type SMTPConfig struct {
	Host               string
	Port               int
	User               string
	Password           string
	InsecureSkipVerify bool
	SenderAddress      string
	SenderName         string
}

// GoogleConfig is shared by the Sheets reader and the Gmail sender.
type GoogleConfig struct {
	CredentialsFile string
	CredentialsJSON string
	SpreadsheetID   string
}

// Credentials returns the service account JSON from the inline value or the file.
func (g GoogleConfig) Credentials() ([]byte, error) {
	if g.CredentialsJSON != "" {
		return []byte(g.CredentialsJSON), nil
	}
	if g.CredentialsFile == "" {
		return nil, fmt.Errorf("GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_FILE is not set")
	}
	raw, err := os.ReadFile(g.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read GOOGLE_CREDENTIALS_FILE: %w", err)
	}
	return raw, nil
}

// Load reads configuration from environment variables and .env file (if present).
// A non-empty envFile must exist. Overrides run before validation.
func Load(envFile string, overrides ...func(*AppConfig)) (*AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else {
		// godotenv.Load will not override existing env variables.
		_ = godotenv.Load()
	}

	cfg := &AppConfig{
		LogLevel:    strings.ToLower(getString("LOG_LEVEL", "info")),
		Environment: strings.ToLower(getString("ENVIRONMENT", "development")),
		Timezone:    getString("TIMEZONE", "Local"),
		CronSpec:    getString("CRON_SPEC_SCAN", "0 8 * * *"), // Default: 8:00 AM daily
		MetricsAddr: os.Getenv("METRICS_ADDR"),

		Source: strings.ToLower(getString("TABLE_SOURCE", SourceSheets)),

		Recipient:        getString("ALERT_RECIPIENT", "hello@gmail.com"),
		Transport:        strings.ToLower(getString("MAIL_TRANSPORT", TransportSMTP)),
		BodyTemplatePath: os.Getenv("MAIL_BODY_TEMPLATE"),

		SMTP: SMTPConfig{
			Host:          os.Getenv("SMTP_HOST"),
			User:          os.Getenv("SMTP_USER"),
			Password:      os.Getenv("SMTP_PASSWORD"),
			SenderAddress: getString("MAIL_SENDER_ADDRESS", "noreply@localhost"),
			SenderName:    getString("MAIL_SENDER_NAME", "Contract Expiry"),
		},
		Google: GoogleConfig{
			CredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
			CredentialsJSON: os.Getenv("GOOGLE_CREDENTIALS_JSON"),
			SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		},

		XLSXPath:      os.Getenv("XLSX_PATH"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
	}

	var err error
	if cfg.RunTimeout, err = getDuration("RUN_TIMEOUT", 2*time.Minute); err != nil {
		return nil, err
	}

	cfg.Block.SheetName = getString("SHEET_NAME", contract.DefaultBlock.SheetName)
	ints := []struct {
		key  string
		def  int
		dest *int
	}{
		{"START_ROW", contract.DefaultBlock.StartRow, &cfg.Block.StartRow},
		{"NUM_ROWS", contract.DefaultBlock.NumRows, &cfg.Block.NumRows},
		{"START_COLUMN", contract.DefaultBlock.StartColumn, &cfg.Block.StartColumn},
		{"NUM_COLUMNS", contract.DefaultBlock.NumColumns, &cfg.Block.NumColumns},
		{"ADDRESS_COLUMN_INDEX", contract.DefaultLayout.AddressIndex, &cfg.Layout.AddressIndex},
		{"STATUS_COLUMN_INDEX", contract.DefaultLayout.StatusIndex, &cfg.Layout.StatusIndex},
		{"EXPIRY_COLUMN_INDEX", contract.DefaultLayout.ExpiryIndex, &cfg.Layout.ExpiryIndex},
		{"MAIL_RETRY_COUNT", 0, &cfg.RetryCount},
		{"MAIL_RETRY_BACKOFF_MS", 100, &cfg.RetryBackoffMs},
		{"SMTP_PORT", 587, &cfg.SMTP.Port},
	}
	for _, opt := range ints {
		if *opt.dest, err = getInt(opt.key, opt.def); err != nil {
			return nil, err
		}
	}

	if cfg.SMTP.InsecureSkipVerify, err = getBool("SMTP_INSECURE_SKIP_VERIFY", false); err != nil {
		return nil, err
	}

	for _, override := range overrides {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the block, the column layout and the credentials the chosen
// source and transport need.
func (c *AppConfig) Validate() error {
	if err := c.Block.Validate(); err != nil {
		return fmt.Errorf("invalid table block: %w", err)
	}
	if err := c.Layout.Validate(c.Block.NumColumns); err != nil {
		return fmt.Errorf("invalid column layout: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Recipient == "" {
		return fmt.Errorf("ALERT_RECIPIENT is not set")
	}
	if c.RetryCount < 0 {
		return fmt.Errorf("MAIL_RETRY_COUNT must not be negative")
	}

	switch c.Source {
	case SourceSheets:
		if c.Google.SpreadsheetID == "" {
			return fmt.Errorf("SPREADSHEET_ID is not set")
		}
		if c.Google.CredentialsJSON == "" && c.Google.CredentialsFile == "" {
			return fmt.Errorf("GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_FILE is not set")
		}
	case SourceXLSX:
		if c.XLSXPath == "" {
			return fmt.Errorf("XLSX_PATH is not set")
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is not set")
		}
	default:
		return fmt.Errorf("unknown TABLE_SOURCE %q", c.Source)
	}

	switch c.Transport {
	case TransportSMTP:
		if c.SMTP.Host == "" {
			return fmt.Errorf("SMTP_HOST is not set")
		}
	case TransportGmail:
		if c.Google.CredentialsJSON == "" && c.Google.CredentialsFile == "" {
			return fmt.Errorf("GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_FILE is not set")
		}
	case TransportTelegram:
		if c.TelegramToken == "" {
			return fmt.Errorf("TELEGRAM_TOKEN is not set")
		}
		if _, err := strconv.ParseInt(c.Recipient, 10, 64); err != nil {
			return fmt.Errorf("ALERT_RECIPIENT must be a Telegram chat ID for the telegram transport: %w", err)
		}
	case TransportLog:
	default:
		return fmt.Errorf("unknown MAIL_TRANSPORT %q", c.Transport)
	}
	return nil
}

// Location resolves TIMEZONE. "Local" and "" mean the server's zone.
func (c *AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	return loc, nil
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
