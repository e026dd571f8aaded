package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ytresolve/internal/resolve"
)

const maxQueryLen = 2048

// handleResolve answers GET /resolve?query= and POST /resolve {"query": ...}
// with the same JSON line the CLI prints.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var query string
	if r.Method == http.MethodPost {
		var req resolveRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10)).Decode(&req); err != nil {
			writeResult(w, http.StatusBadRequest, "", resolve.Failed{Message: "Invalid JSON"})
			return
		}
		query = req.Query
	} else {
		query = r.URL.Query().Get("query")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		writeResult(w, http.StatusBadRequest, "", resolve.Failed{Message: "Empty query"})
		return
	}
	if len(query) > maxQueryLen {
		writeResult(w, http.StatusBadRequest, "", resolve.Failed{Message: "Query too long"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.RequestTimeout)
	defer cancel()

	j := &job{
		ID:        uuid.New().String(),
		Query:     query,
		CreatedAt: time.Now(),
		ctx:       ctx,
		done:      make(chan resolve.Result, 1),
	}

	switch err := s.enqueue(j); {
	case errors.Is(err, errShuttingDown):
		s.log.Warn("job rejected, shutting down", zap.String("job_id", j.ID))
		writeResult(w, http.StatusServiceUnavailable, j.ID, resolve.Failed{Message: "Server shutting down"})
		return
	case err != nil:
		s.stats.rejected.Add(1)
		s.log.Warn("job rejected, queue full", zap.String("job_id", j.ID))
		writeResult(w, http.StatusServiceUnavailable, j.ID, resolve.Failed{Message: "Server busy, please try again later."})
		return
	}
	s.log.Debug("job queued", zap.String("job_id", j.ID), zap.String("query", query))

	select {
	case res := <-j.done:
		status := http.StatusOK
		if !res.OK() {
			status = http.StatusBadGateway
		}
		writeResult(w, status, j.ID, res)
	case <-ctx.Done():
		s.log.Warn("job timed out", zap.String("job_id", j.ID), zap.Error(ctx.Err()))
		writeResult(w, http.StatusGatewayTimeout, j.ID, resolve.Failed{Message: "Resolve timed out"})
	}
}
