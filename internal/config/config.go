package config

import (
	"os"
	"strconv"
	"time"
)

// Policy constants shared by validation and the complaint form. These
// mirror the campus rules, not deployment choices, so they are not
// configurable.
const (
	MinPasswordLength = 8
	RollNoLength      = 10
	MinComplaintWords = 3

	SessionTTL = 72 * time.Hour
)

// Config carries everything read from the environment at startup.
type Config struct {
	HTTPAddr    string
	PostgresDSN string
	RedisAddr   string
	RedisDB     int

	JWTSecret string
	JWTIssuer string

	UploadDir string

	// Detector is the external video-analysis service the admin page can
	// launch and observe.
	DetectorPort    int
	DetectorCommand string
	DetectorLogFile string
	DetectorTimeout time.Duration

	// Optional Telegram notifications for filed/resolved complaints.
	TelegramToken  string
	TelegramChatID int64
}

func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		PostgresDSN:     getenv("POSTGRES_DSN", "host=localhost user=user password=password dbname=helpdeskdb port=5432 sslmode=disable"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		RedisDB:         getenvInt("REDIS_DB", 0),
		JWTSecret:       getenv("JWT_SECRET", "dev-secret"),
		JWTIssuer:       getenv("JWT_ISSUER", "helpdesk-service"),
		UploadDir:       getenv("UPLOAD_DIR", "uploads"),
		DetectorPort:    getenvInt("DETECTOR_PORT", 5000),
		DetectorCommand: getenv("DETECTOR_COMMAND", "python3 detector/app.py"),
		DetectorLogFile: getenv("DETECTOR_LOG_FILE", "detector.log"),
		DetectorTimeout: getenvDuration("DETECTOR_TIMEOUT", 2*time.Second),
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:  int64(getenvInt("TELEGRAM_CHAT_ID", 0)),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
