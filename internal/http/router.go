package http

import (
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"finboard/internal/log"
	"finboard/internal/middleware/ratelimit"
	"finboard/internal/middleware/security"
	"finboard/internal/middleware/trace"
)

var errNoDatabase = errors.New("no relational database configured")

func NewRouter(deps *Deps) chi.Router {
	r := chi.NewRouter()
	tracer := trace.NewMiddleware(clientIP)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(log.Middleware(deps.Log.WithComponent(log.ComponentHTTP)))
	r.Use(log.RequestIDMiddleware(func(r *http.Request) string {
		return middleware.GetReqID(r.Context())
	}))
	r.Use(tracer.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Middleware(clientIP, ratelimit.ReadOnly, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, r, http.StatusTooManyRequests, errorResponse{Error: "Rate limit exceeded. Please try again later."})
		}))
	}

	dh := newDashboardHandlers(deps)
	ah := newAdminHandlers(deps, tracer)

	r.Mount("/transactions", newTransactionHandlers(deps).Routes())

	cards := newCreditCardHandlers(deps).Routes()
	cards.Get("/{id}/statement", dh.CardStatement)
	cards.Get("/{id}/transactions", dh.CardTransactions)
	r.Mount("/credit-cards", cards)

	r.Mount("/receivables", newReceivableHandlers(deps).Routes())
	r.Mount("/dashboard", dh.Routes())

	r.Get("/categories", ah.Categories)
	r.Post("/migrate-data", ah.MigrateData)
	r.Get("/db-test", ah.DBTest)
	r.Get("/db-init", ah.DBInit)
	r.Get("/healthz", ah.Health)

	return r
}

// clientIP returns the address RealIP settled on, without the port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
