package server

import (
	"encoding/json"
	"net/http"

	"ytresolve/internal/resolve"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeResult(w http.ResponseWriter, status int, jobID string, r resolve.Result) {
	if jobID != "" {
		w.Header().Set("X-Job-ID", jobID)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = resolve.WriteResult(w, r)
}
