package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"finboard/internal/analytics"
	"finboard/internal/core"
)

const maxTrendMonths = 36

type dashboardHandlers struct {
	deps *Deps
}

func newDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{deps: deps}
}

func (h *dashboardHandlers) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Summary)
	r.Get("/monthly", h.Monthly)
	r.Get("/categories", h.Categories)
	return r
}

func (h *dashboardHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.deps.Dashboard.Summary(r.Context()))
}

func (h *dashboardHandlers) Monthly(w http.ResponseWriter, r *http.Request) {
	months := analytics.DefaultTrendMonths
	if raw := r.URL.Query().Get("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxTrendMonths {
			handleError(w, r, fmt.Errorf("%w: months must be between 1 and %d", core.ErrInvalid, maxTrendMonths), "")
			return
		}
		months = n
	}

	points, err := h.deps.Dashboard.MonthlyTrend(r.Context(), months)
	if err != nil {
		handleError(w, r, err, "Failed to compute monthly trend")
		return
	}
	writeJSON(w, r, http.StatusOK, points)
}

func (h *dashboardHandlers) Categories(w http.ResponseWriter, r *http.Request) {
	typ := core.Expense
	if raw := r.URL.Query().Get("type"); raw != "" {
		typ = core.TransactionType(raw)
		if !typ.IsValid() {
			handleError(w, r, fmt.Errorf("%w: unknown type %q", core.ErrInvalid, raw), "")
			return
		}
	}

	totals, err := h.deps.Dashboard.Categories(r.Context(), typ)
	if err != nil {
		handleError(w, r, err, "Failed to compute category distribution")
		return
	}
	writeJSON(w, r, http.StatusOK, totals)
}

// CardStatement serves GET /credit-cards/{id}/statement.
func (h *dashboardHandlers) CardStatement(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.Dashboard.Statement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "Failed to resolve statement")
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}

// CardTransactions serves GET /credit-cards/{id}/transactions.
func (h *dashboardHandlers) CardTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.deps.Transactions.GetAll(r.Context())
	if err != nil {
		handleError(w, r, err, "Failed to fetch transactions")
		return
	}
	writeJSON(w, r, http.StatusOK, analytics.CardTransactions(txs, chi.URLParam(r, "id")))
}
