package server

import (
	"net/http"
	"time"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if s.stats.queued.Load() >= int64(s.opts.QueueCapacity) {
		status = "overloaded"
	}
	writeJSON(w, http.StatusOK, HealthStatus{
		Status:     status,
		ActiveJobs: s.stats.active.Load(),
		QueuedJobs: s.stats.queued.Load(),
		Workers:    s.opts.Workers,
		Uptime:     time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"active_jobs":    s.stats.active.Load(),
		"queued_jobs":    s.stats.queued.Load(),
		"resolved_jobs":  s.stats.resolved.Load(),
		"failed_jobs":    s.stats.failed.Load(),
		"rejected_jobs":  s.stats.rejected.Load(),
		"cache_hits":     s.stats.cacheHits.Load(),
		"shared_calls":   s.stats.shared.Load(),
		"in_flight":      s.group.InFlight(),
		"workers":        s.opts.Workers,
		"queue_capacity": s.opts.QueueCapacity,
		"rate_limit":     s.opts.RateRPS,
		"uptime_seconds": time.Since(s.started).Seconds(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"resolved_jobs": s.stats.resolved.Load(),
		"failed_jobs":   s.stats.failed.Load(),
		"cache_hits":    s.stats.cacheHits.Load(),
		"success_rate":  s.successRate(),
	})
}

func (s *Server) successRate() float64 {
	ok := s.stats.resolved.Load()
	total := ok + s.stats.failed.Load()
	if total == 0 {
		return 0
	}
	return float64(ok) / float64(total) * 100
}
