package http

import (
	"net/http"
	"time"

	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/middleware/ratelimit"
	"finboard/internal/middleware/trace"
	"finboard/internal/services"
	"finboard/internal/storage"
)

const maxMigrationBytes = 32 << 20

type statusResponse struct {
	Status     string                    `json:"status"`
	Message    string                    `json:"message"`
	Counts     *services.MigrationCounts `json:"counts,omitempty"`
	ServerTime *time.Time                `json:"serverTime,omitempty"`
	Error      string                    `json:"error,omitempty"`
}

type healthResponse struct {
	Status    string             `json:"status"`
	Backend   string             `json:"backend"`
	Requests  *trace.Metrics     `json:"requests,omitempty"`
	RateLimit *ratelimit.Metrics `json:"rateLimit,omitempty"`
}

type adminHandlers struct {
	deps   *Deps
	tracer *trace.Middleware
}

// newAdminHandlers builds the admin endpoints. tracer may be nil.
func newAdminHandlers(deps *Deps, tracer *trace.Middleware) *adminHandlers {
	return &adminHandlers{deps: deps, tracer: tracer}
}

func (h *adminHandlers) failure(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	log.FromContext(r.Context()).Error(message, "error", err)
	writeJSON(w, r, status, statusResponse{
		Status:  "error",
		Message: message,
		Error:   err.Error(),
	})
}

// MigrateData replaces every stored collection with the request payload.
func (h *adminHandlers) MigrateData(w http.ResponseWriter, r *http.Request) {
	var payload services.MigrationPayload
	if err := decodeJSON(w, r, maxMigrationBytes, &payload); err != nil {
		h.failure(w, r, http.StatusBadRequest, "Failed to migrate data", err)
		return
	}

	counts, err := h.deps.Migrator.Migrate(r.Context(), payload)
	if err != nil {
		h.failure(w, r, http.StatusInternalServerError, "Failed to migrate data", err)
		return
	}

	log.FromContext(r.Context()).Info("Data migrated",
		log.FieldOperation, log.OpMigrate,
		"transactions", counts.Transactions,
		"credit_cards", counts.CreditCards,
		"receivables", counts.Receivables)

	writeJSON(w, r, http.StatusOK, statusResponse{
		Status:  "success",
		Message: "Data migrated successfully",
		Counts:  &counts,
	})
}

// DBTest checks the database connection.
func (h *adminHandlers) DBTest(w http.ResponseWriter, r *http.Request) {
	inspector, ok := storage.AsInspector(h.deps.Store)
	if !ok {
		h.failure(w, r, http.StatusInternalServerError, "Failed to connect to the database", errNoDatabase)
		return
	}

	now, err := inspector.ServerTime(r.Context())
	if err != nil {
		h.failure(w, r, http.StatusInternalServerError, "Failed to connect to the database", err)
		return
	}

	writeJSON(w, r, http.StatusOK, statusResponse{
		Status:     "success",
		Message:    "Database connection established",
		ServerTime: &now,
	})
}

// DBInit creates the collection tables when they are missing.
func (h *adminHandlers) DBInit(w http.ResponseWriter, r *http.Request) {
	inspector, ok := storage.AsInspector(h.deps.Store)
	if !ok {
		h.failure(w, r, http.StatusInternalServerError, "Failed to initialize the database", errNoDatabase)
		return
	}

	if err := inspector.InitSchema(r.Context()); err != nil {
		h.failure(w, r, http.StatusInternalServerError, "Failed to initialize the database", err)
		return
	}

	writeJSON(w, r, http.StatusOK, statusResponse{
		Status:  "success",
		Message: "Database initialized",
	})
}

func (h *adminHandlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:  "ok",
		Backend: h.deps.Store.Kind().String(),
	}
	if h.tracer != nil {
		m := h.tracer.GetMetrics()
		resp.Requests = &m
	}
	if h.deps.RateLimiter != nil {
		m := h.deps.RateLimiter.GetMetrics()
		resp.RateLimit = &m
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (h *adminHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, core.SuggestedCategories())
}
