package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service settings read from the environment.
type Config struct {
	Port           string
	Environment    string
	LogLevel       string
	DatasetPath    string
	DatabaseURL    string
	RecordsAPIURL  string
	RecordsAPIKey  string
	FetchTimeout   time.Duration
	AllowedOrigins []string
	Location       *time.Location
	ConstantsFile  string
	Constants      Constants
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "local"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatasetPath:   os.Getenv("DATASET_PATH"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RecordsAPIURL: os.Getenv("RECORDS_API_URL"),
		RecordsAPIKey: os.Getenv("RECORDS_API_KEY"),
		ConstantsFile: os.Getenv("CONSTANTS_FILE"),
	}

	timeoutSec, err := strconv.Atoi(getEnv("FETCH_TIMEOUT_SEC", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT_SEC: %w", err)
	}
	cfg.FetchTimeout = time.Duration(timeoutSec) * time.Second

	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	cfg.Constants, err = LoadConstants(cfg.ConstantsFile)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
