package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	AppPort string
	AppEnv  string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret string

	// Google Sheets / Drive. Empty credentials file means application
	// default credentials.
	GoogleCredentialsFile string
	TemplateSpreadsheetID string
	TrackerFolderID       string
	MasterSheetID         string
	MasterSheetName       string

	AdminEmail string

	// Resend. Empty API key disables outgoing email.
	ResendAPIKey string
	EmailFrom    string
	NotifyEmails string // comma-separated

	// Outbox worker.
	SyncSchedule  string
	SyncBatchSize int
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() *Config {
	return &Config{
		AppPort: get("APP_PORT", "8080"),
		AppEnv:  get("APP_ENV", "dev"),

		DBHost:     get("DB_HOST", "localhost"),
		DBPort:     get("DB_PORT", "5432"),
		DBUser:     get("DB_USER", "postgres"),
		DBPassword: get("DB_PASSWORD", "postgres"),
		DBName:     get("DB_NAME", "termtracker"),
		DBSSLMode:  get("DB_SSLMODE", "disable"),

		JWTSecret: get("JWT_SECRET", "dev-secret"),

		GoogleCredentialsFile: get("GOOGLE_CREDENTIALS_FILE", ""),
		TemplateSpreadsheetID: get("TEMPLATE_SPREADSHEET_ID", "15wTazkxoURaqHk9CTSbBxQr_SUZ38-uJSanPE1PtM0g"),
		TrackerFolderID:       get("TRACKER_FOLDER_ID", "18MaTO0Vp9X-kMjeFUDie_Vyq2BnNgruU"),
		MasterSheetID:         get("MASTER_SHEET_ID", "1W8vilXx7JcRDTiRJR5qddWzx8NXO7rvO"),
		MasterSheetName:       get("MASTER_SHEET_NAME", "Attendance & Payments"),

		AdminEmail: get("ADMIN_EMAIL", "info@devotedabilities.com"),

		ResendAPIKey: get("RESEND_API_KEY", ""),
		EmailFrom:    get("EMAIL_FROM", "Empowered Hoops Term Tracker <tracker@devotedabilities.com>"),
		NotifyEmails: get("NOTIFY_EMAILS", "david@devotedabilities.com,info@empoweredhoops.com.au"),

		SyncSchedule:  get("SYNC_SCHEDULE", "* * * * *"),
		SyncBatchSize: 50,
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

// NotifyList splits NotifyEmails into clean addresses.
func (c *Config) NotifyList() []string {
	parts := strings.Split(c.NotifyEmails, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
