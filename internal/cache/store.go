// Package cache keeps recent resolve results so repeated queries within a
// few minutes do not spawn yt-dlp again.
package cache

import (
	"context"
	"strings"
	"time"

	"ytresolve/internal/resolve"
)

// DefaultTTL bounds how long a stream URL is reused; signed CDN links expire.
const DefaultTTL = 5 * time.Minute

// Store holds encoded results by query key.
type Store interface {
	Get(ctx context.Context, key string) (resolve.Result, bool, error)
	Set(ctx context.Context, key string, r resolve.Result) error
}

// Key normalizes a raw query into a cache key.
func Key(query string) string {
	return strings.TrimSpace(query)
}
