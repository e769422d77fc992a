// Package trace logs one structured line per completed HTTP request.
package trace

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"finboard/internal/log"
)

// Middleware handles request tracing and logging
type Middleware struct {
	extractIP func(*http.Request) string
	total     atomic.Int64
	lastMicro atomic.Int64
}

// Metrics tracks request metrics
type Metrics struct {
	TotalRequests          int64 `json:"totalRequests"`
	LastResponseTimeMicros int64 `json:"lastResponseTimeMicros"`
}

// NewMiddleware creates a new trace middleware
func NewMiddleware(extractIP func(*http.Request) string) *Middleware {
	return &Middleware{
		extractIP: extractIP,
	}
}

// Middleware returns HTTP middleware for request tracing. It uses the logger
// found in the request context, so it must run after log.Middleware.
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			duration := time.Since(start)
			m.total.Add(1)
			m.lastMicro.Store(duration.Microseconds())

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.NewStructuredLogger(log.FromContext(r.Context())).
				LogHTTPEnd(r.Context(), r, status, ww.BytesWritten(), duration.Milliseconds(), clientIP)
		}()

		next.ServeHTTP(ww, r)
	})
}

// GetMetrics returns current metrics
func (m *Middleware) GetMetrics() Metrics {
	return Metrics{
		TotalRequests:          m.total.Load(),
		LastResponseTimeMicros: m.lastMicro.Load(),
	}
}
