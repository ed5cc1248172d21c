package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig is the single long-lived configuration object, built at startup
// and passed explicitly into whatever needs it.
type AppConfig struct {
	// AccuWeather access.
	AccuWeatherAPIKey  string
	AccuWeatherBaseURL string
	ForecastLanguage   string

	// HTTPTimeout bounds outbound provider calls; the core itself does no
	// timeout management.
	HTTPTimeout time.Duration

	// Dialogue session retention.
	SessionTTL    time.Duration
	SweepInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.AccuWeatherAPIKey = os.Getenv("ACCUWEATHER_API_KEY")
	cfg.AccuWeatherBaseURL = getenvDefault("ACCUWEATHER_BASE_URL", "http://dataservice.accuweather.com")
	cfg.ForecastLanguage = getenvDefault("FORECAST_LANGUAGE", "en-us")

	timeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	ttl, err := getenvDuration("SESSION_TTL", "30m")
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = ttl

	sweep, err := getenvDuration("SWEEP_INTERVAL", "5m")
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_INTERVAL: %w", err)
	}
	cfg.SweepInterval = sweep

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	return time.ParseDuration(getenvDefault(key, def))
}
