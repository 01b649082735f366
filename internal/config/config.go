package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string

	ExamPath       string
	AssetsDir      string
	SubmissionsDir string
	ClassOptions   []string

	SessionStore string // memory or redis
	SessionTTL   time.Duration
	CookieSecure bool
	RedisURL     string
	CORSOrigins  []string

	// DatabaseURL enables the submission archive when set.
	DatabaseURL string

	Sheets SheetsConfig
	Events EventConfig

	MaxDrawingBytes int
}

// SheetsConfig selects the spreadsheet backend for score rows.
type SheetsConfig struct {
	Driver                string // google or xlsx
	SpreadsheetName       string
	GoogleCredentialsFile string
	GoogleCredentialsJSON string
	XLSXDir               string
}

// LoadConfig reads .env when present and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		ExamPath:       getEnv("EXAM_PATH", "exam.json"),
		AssetsDir:      getEnv("ASSETS_DIR", "assets"),
		SubmissionsDir: getEnv("SUBMISSIONS_DIR", "submissions"),
		ClassOptions:   getEnvList("CLASS_OPTIONS", "3/11,3/12"),

		SessionStore: getEnv("SESSION_STORE", "memory"),
		SessionTTL:   getEnvDuration("SESSION_TTL", 12*time.Hour),
		CookieSecure: getEnvBool("COOKIE_SECURE", false),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379"),
		CORSOrigins:  getEnvList("CORS_ORIGINS", "*"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		Sheets: SheetsConfig{
			Driver:                getEnv("SHEETS_DRIVER", "xlsx"),
			SpreadsheetName:       getEnv("SPREADSHEET_NAME", "Final"),
			GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
			GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
			XLSXDir:               getEnv("XLSX_DIR", "sheets"),
		},

		Events: EventConfig{
			Enabled:      getEnvBool("EVENTS_ENABLED", false),
			Publisher:    getEnv("EVENTS_PUBLISHER", "kafka"),
			KafkaBrokers: getEnvList("KAFKA_BROKERS", "localhost:9092"),
			Topic:        getEnv("SUBMISSION_TOPIC", "exam-submissions"),
		},

		MaxDrawingBytes: getEnvInt("MAX_DRAWING_BYTES", 2<<20),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvList splits a comma separated value, dropping empty entries.
func getEnvList(key, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
