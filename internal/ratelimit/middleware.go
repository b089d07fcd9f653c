package ratelimit

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

// Default budget for credential endpoints: per client IP.
const (
	DefaultAuthLimit  = 10
	DefaultAuthWindow = time.Minute
)

// Middleware applies a per-IP limit in front of a handler chain. A store
// failure fails open: losing the limiter must not take down sign-in.
type Middleware struct {
	store  Store
	limit  int
	window time.Duration
	logger *slog.Logger
}

// NewMiddleware constructs the middleware. Non-positive limit or window fall
// back to the auth defaults.
func NewMiddleware(store Store, limit int, window time.Duration, logger *slog.Logger) *Middleware {
	if limit <= 0 {
		limit = DefaultAuthLimit
	}
	if window <= 0 {
		window = DefaultAuthWindow
	}
	return &Middleware{store: store, limit: limit, window: window, logger: logger}
}

// Limit is the http middleware.
func (m *Middleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		res, err := m.store.Allow(r.Context(), key, m.limit, m.window)
		if err != nil {
			m.logger.Error("rate limit check failed", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			retry := time.Until(res.ResetAt).Seconds()
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(retry)))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate_limited","error_description":"too many attempts, slow down"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP prefers the leftmost X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for i := 0; i < len(fwd); i++ {
			if fwd[i] == ',' {
				return fwd[:i]
			}
		}
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
