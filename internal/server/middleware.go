package server

import (
	"crypto/subtle"
	"net/http"

	"ytresolve/internal/resolve"
)

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeResult(w, http.StatusTooManyRequests, "", resolve.Failed{Message: "Rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireSecret checks the X-Auth header when a secret is configured.
func (s *Server) requireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.APISecret != "" &&
			subtle.ConstantTimeCompare([]byte(r.Header.Get("X-Auth")), []byte(s.opts.APISecret)) != 1 {
			writeResult(w, http.StatusUnauthorized, "", resolve.Failed{Message: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Auth")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
