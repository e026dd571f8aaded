// Package config loads resolverd settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultAddr           = ":8080"
	DefaultYTDLPPath      = "yt-dlp"
	DefaultCacheTTL       = 5 * time.Minute
	DefaultWorkers        = 4
	DefaultQueueCapacity  = 100
	DefaultRateRPS        = 10
	DefaultRateBurst      = 20
	DefaultRequestTimeout = 30 * time.Second
	DefaultLogLevel       = "info"

	CacheSweepInterval = time.Minute
)

type Config struct {
	Addr           string
	YTDLPPath      string
	RedisURL       string
	CacheTTL       time.Duration
	Workers        int
	QueueCapacity  int
	RateRPS        float64
	RateBurst      int
	RequestTimeout time.Duration
	APISecret      string
	SpotifyLookup  bool
	LogLevel       string
}

// Load reads .env (if present) and then the process environment, which wins.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an env lookup function.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := &Config{
		Addr:      get("RESOLVER_ADDR", DefaultAddr),
		YTDLPPath: get("YTDLP_PATH", DefaultYTDLPPath),
		RedisURL:  get("REDIS_URL", ""),
		APISecret: get("API_SECRET", ""),
		LogLevel:  strings.ToLower(get("LOG_LEVEL", DefaultLogLevel)),
	}

	var err error
	if cfg.CacheTTL, err = parseDuration("CACHE_TTL", get("CACHE_TTL", ""), DefaultCacheTTL); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = parseDuration("REQUEST_TIMEOUT", get("REQUEST_TIMEOUT", ""), DefaultRequestTimeout); err != nil {
		return nil, err
	}
	if cfg.Workers, err = parsePositiveInt("WORKERS", get("WORKERS", ""), DefaultWorkers); err != nil {
		return nil, err
	}
	if cfg.QueueCapacity, err = parsePositiveInt("QUEUE_CAPACITY", get("QUEUE_CAPACITY", ""), DefaultQueueCapacity); err != nil {
		return nil, err
	}
	if cfg.RateBurst, err = parsePositiveInt("RATE_BURST", get("RATE_BURST", ""), DefaultRateBurst); err != nil {
		return nil, err
	}

	cfg.RateRPS = DefaultRateRPS
	if s := get("RATE_RPS", ""); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("RATE_RPS invalid: %q", s)
		}
		cfg.RateRPS = v
	}

	cfg.SpotifyLookup = true
	if s := get("SPOTIFY_LOOKUP", ""); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("SPOTIFY_LOOKUP invalid: %w", err)
		}
		cfg.SpotifyLookup = v
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("LOG_LEVEL invalid: %q", cfg.LogLevel)
	}

	return cfg, nil
}

func parseDuration(key, s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s invalid: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func parsePositiveInt(key, s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s invalid: %w", key, err)
	}
	if v < 1 {
		return 0, fmt.Errorf("%s must be at least 1", key)
	}
	return v, nil
}
