// internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Email providers
const (
	ProviderResend = "resend"
	ProviderGmail  = "gmail"
)

// QR delivery channels
const (
	QRInline    = "inline"
	QRContentID = "cid"
	QRPublicURL = "url"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string

	// Server
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
	MaxBodyBytes   int64

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// Postgres delivery ledger, optional
	PostgresURI string

	// Event
	ReportingTimezone string
	EventName         string
	EventVenue        string

	// Email
	EmailProvider string
	EmailFrom     string
	ResendAPIKey  string
	ResendBaseURL string

	// Gmail
	GmailClientID     string
	GmailClientSecret string
	GmailRefreshToken string

	// QR
	QRDelivery string
	QRSize     int

	// Object storage
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion: getEnv("APP_VERSION", "1.0.0"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		Port:           getEnv("PORT", "8080"),
		ReadTimeout:    time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout:   time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,
		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		MaxBodyBytes:   int64(getEnvAsInt("MAX_BODY_MB", 10)) << 20,

		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDB:       getEnv("MONGO_DB", "eventos"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresURI: getEnv("POSTGRES_DSN", ""),

		ReportingTimezone: getEnv("REPORTING_TIMEZONE", "America/Bogota"),
		EventName:         getEnv("EVENT_NAME", "Evento 5G"),
		EventVenue:        getEnv("EVENT_VENUE", ""),

		EmailProvider: strings.ToLower(getEnv("EMAIL_PROVIDER", ProviderResend)),
		EmailFrom:     getEnv("EMAIL_FROM", ""),
		ResendAPIKey:  getEnv("RESEND_API_KEY", ""),
		ResendBaseURL: getEnv("RESEND_BASE_URL", "https://api.resend.com"),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),

		QRDelivery: strings.ToLower(getEnv("QR_DELIVERY", QRContentID)),
		QRSize:     getEnvAsInt("QR_SIZE", 256),

		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Region:        getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:      getEnv("S3_ENDPOINT", ""),
		S3AccessKey:     getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:     getEnv("S3_SECRET_KEY", ""),
		S3PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
	}

	return config, nil
}

// MissingError lists every required variable that is absent
type MissingError struct {
	Variables []string
}

func (e *MissingError) Error() string {
	return "missing required configuration: " + strings.Join(e.Variables, ", ")
}

// Validate checks that every credential the selected provider and QR channel need is
// present. It reports variable names only.
func (c *Config) Validate() error {
	var missing []string
	require := func(key, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}

	require("MONGO_URI", c.MongoURI)
	require("EMAIL_FROM", c.EmailFrom)

	switch c.EmailProvider {
	case ProviderResend:
		require("RESEND_API_KEY", c.ResendAPIKey)
	case ProviderGmail:
		require("GMAIL_CLIENT_ID", c.GmailClientID)
		require("GMAIL_CLIENT_SECRET", c.GmailClientSecret)
		require("GMAIL_REFRESH_TOKEN", c.GmailRefreshToken)
	default:
		return fmt.Errorf("unsupported EMAIL_PROVIDER %q", c.EmailProvider)
	}

	switch c.QRDelivery {
	case QRInline, QRContentID:
	case QRPublicURL:
		require("S3_BUCKET", c.S3Bucket)
		require("S3_ACCESS_KEY", c.S3AccessKey)
		require("S3_SECRET_KEY", c.S3SecretKey)
		require("S3_PUBLIC_BASE_URL", c.S3PublicBaseURL)
	default:
		return fmt.Errorf("unsupported QR_DELIVERY %q", c.QRDelivery)
	}

	if len(missing) > 0 {
		return &MissingError{Variables: missing}
	}
	return nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
