package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Addr:           DefaultAddr,
		YTDLPPath:      DefaultYTDLPPath,
		CacheTTL:       DefaultCacheTTL,
		Workers:        DefaultWorkers,
		QueueCapacity:  DefaultQueueCapacity,
		RateRPS:        DefaultRateRPS,
		RateBurst:      DefaultRateBurst,
		RequestTimeout: DefaultRequestTimeout,
		SpotifyLookup:  true,
		LogLevel:       DefaultLogLevel,
	}, cfg)
}

func TestFromLookupOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"RESOLVER_ADDR":   "127.0.0.1:9000",
		"YTDLP_PATH":      "/opt/yt-dlp",
		"REDIS_URL":       "redis://cache:6379/1",
		"CACHE_TTL":       "90s",
		"WORKERS":         "8",
		"QUEUE_CAPACITY":  "16",
		"RATE_RPS":        "2.5",
		"RATE_BURST":      "5",
		"REQUEST_TIMEOUT": "1m",
		"API_SECRET":      " s3cret ",
		"SPOTIFY_LOOKUP":  "false",
		"LOG_LEVEL":       "DEBUG",
	}))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "/opt/yt-dlp", cfg.YTDLPPath)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 16, cfg.QueueCapacity)
	assert.Equal(t, 2.5, cfg.RateRPS)
	assert.Equal(t, 5, cfg.RateBurst)
	assert.Equal(t, time.Minute, cfg.RequestTimeout)
	assert.Equal(t, "s3cret", cfg.APISecret)
	assert.False(t, cfg.SpotifyLookup)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestFromLookupInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"ttl":       {"CACHE_TTL": "five minutes"},
		"zero ttl":  {"CACHE_TTL": "0s"},
		"workers":   {"WORKERS": "many"},
		"no queue":  {"QUEUE_CAPACITY": "0"},
		"rps":       {"RATE_RPS": "-1"},
		"spotify":   {"SPOTIFY_LOOKUP": "maybe"},
		"log level": {"LOG_LEVEL": "trace"},
		"timeout":   {"REQUEST_TIMEOUT": "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(env))
			assert.Error(t, err)
		})
	}
}
