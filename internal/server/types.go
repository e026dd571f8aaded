package server

import (
	"context"
	"time"

	"ytresolve/internal/resolve"
)

// Resolver is satisfied by *resolve.Resolver.
type Resolver interface {
	Resolve(ctx context.Context, raw string) resolve.Result
}

// QueryRewriter maps a raw query to what is actually resolved.
type QueryRewriter interface {
	Rewrite(ctx context.Context, query string) string
}

type resolveRequest struct {
	Query string `json:"query"`
}

// job is one queued resolve request.
type job struct {
	ID        string
	Query     string
	CreatedAt time.Time
	ctx       context.Context
	done      chan resolve.Result
}

type HealthStatus struct {
	Status     string `json:"status"`
	ActiveJobs int64  `json:"active_jobs"`
	QueuedJobs int64  `json:"queued_jobs"`
	Workers    int    `json:"workers"`
	Uptime     string `json:"uptime"`
}
