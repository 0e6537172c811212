package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"menu-analytics/pricing"
)

// Config holds application configuration read from the environment.
type Config struct {
	DatabaseURL string
	Port        string
	JWTSecret   string

	LogLevel  string
	LogFormat string

	Pricing pricing.Options

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads .env (when present) and the environment and validates the result.
func Load() (*Config, error) {
	// .env is optional, the process environment wins either way
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (*Config, error) {
	cfg := Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Port:           getEnv("PORT", "3000"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		Pricing:        pricing.DefaultOptions(),
		RateLimitRPS:   20,
		RateLimitBurst: 40,
	}

	var err error
	p := &cfg.Pricing
	p.Currency = getEnv("CURRENCY", p.Currency)
	if p.DefaultStep, err = getFloat("PRICE_STEP", p.DefaultStep); err != nil {
		return nil, err
	}
	if p.CostMarkup, err = getFloat("COST_MARKUP", p.CostMarkup); err != nil {
		return nil, err
	}
	if p.MinPriceFactor, err = getFloat("MIN_PRICE_FACTOR", p.MinPriceFactor); err != nil {
		return nil, err
	}
	if p.MaxPriceFactor, err = getFloat("MAX_PRICE_FACTOR", p.MaxPriceFactor); err != nil {
		return nil, err
	}
	if p.CandidatePadding, err = getFloat("CANDIDATE_PADDING", p.CandidatePadding); err != nil {
		return nil, err
	}
	if p.CurveSamples, err = getInt("CURVE_SAMPLES", p.CurveSamples); err != nil {
		return nil, err
	}
	if p.MaxGridPoints, err = getInt("MAX_GRID_POINTS", p.MaxGridPoints); err != nil {
		return nil, err
	}
	if p.DefaultWindowDays, err = getInt("WINDOW_DAYS", p.DefaultWindowDays); err != nil {
		return nil, err
	}
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("TIMEZONE: %w", err)
		}
		p.Location = loc
	}
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", cfg.RateLimitBurst); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit must be positive, got %v rps burst %d", c.RateLimitRPS, c.RateLimitBurst)
	}
	if err := c.Pricing.Validate(); err != nil {
		return fmt.Errorf("pricing options: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
