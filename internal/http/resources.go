package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"finboard/internal/analytics"
	"finboard/internal/core"
	"finboard/internal/log"
)

// resourceHandlers serves list/get/create/update/delete for one collection.
type resourceHandlers[T core.Entity] struct {
	noun    string
	svc     CollectionService[T]
	withID  func(T, string) T
	prepare func(T) T
	filter  func(r *http.Request, items []T) ([]T, error)
}

func (h *resourceHandlers[T]) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *resourceHandlers[T]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.GetAll(r.Context())
	if err != nil {
		handleError(w, r, err, "Failed to fetch "+h.noun)
		return
	}
	if h.filter != nil {
		if items, err = h.filter(r, items); err != nil {
			handleError(w, r, err, "Failed to fetch "+h.noun)
			return
		}
	}
	writeJSON(w, r, http.StatusOK, items)
}

func (h *resourceHandlers[T]) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, ok, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "Failed to fetch "+h.noun)
		return
	}
	if !ok {
		handleError(w, r, fmt.Errorf("%s %q: %w", h.noun, id, core.ErrNotFound), "")
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

func (h *resourceHandlers[T]) Create(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := decodeJSON(w, r, maxBodyBytes, &item); err != nil {
		handleError(w, r, err, "")
		return
	}
	if item.EntityID() == "" {
		item = h.withID(item, uuid.NewString())
	}
	if h.prepare != nil {
		item = h.prepare(item)
	}
	if err := item.Validate(); err != nil {
		handleError(w, r, err, "")
		return
	}

	created, err := h.svc.Add(r.Context(), item)
	if err != nil {
		handleError(w, r, err, "Failed to create "+h.noun)
		return
	}
	log.FromContext(r.Context()).Info("Record created", log.FieldRecordID, created.EntityID(), log.FieldCollection, h.noun)
	writeJSON(w, r, http.StatusCreated, created)
}

func (h *resourceHandlers[T]) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var item T
	if err := decodeJSON(w, r, maxBodyBytes, &item); err != nil {
		handleError(w, r, err, "")
		return
	}
	if item.EntityID() != id {
		handleError(w, r, fmt.Errorf("%w: ID mismatch", core.ErrInvalid), "")
		return
	}
	if h.prepare != nil {
		item = h.prepare(item)
	}
	if err := item.Validate(); err != nil {
		handleError(w, r, err, "")
		return
	}

	updated, err := h.svc.Update(r.Context(), item)
	if err != nil {
		handleError(w, r, err, "Failed to update "+h.noun)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

func (h *resourceHandlers[T]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err, "Failed to delete "+h.noun)
		return
	}
	writeJSON(w, r, http.StatusOK, successResponse{Success: true})
}

func newTransactionHandlers(deps *Deps) *resourceHandlers[core.Transaction] {
	return &resourceHandlers[core.Transaction]{
		noun: "transactions",
		svc:  deps.Transactions,
		withID: func(tx core.Transaction, id string) core.Transaction {
			tx.ID = id
			return tx
		},
		prepare: core.Transaction.Normalize,
		filter: func(r *http.Request, txs []core.Transaction) ([]core.Transaction, error) {
			q := r.URL.Query()
			f := analytics.TransactionFilter{
				Search:   q.Get("q"),
				Category: q.Get("category"),
				Type:     core.TransactionType(q.Get("type")),
				Period:   analytics.Period(q.Get("period")),
			}
			if f.Type != "" && f.Type != "all" && !f.Type.IsValid() {
				return nil, fmt.Errorf("%w: unknown type %q", core.ErrInvalid, f.Type)
			}
			if !f.Period.IsValid() {
				return nil, fmt.Errorf("%w: unknown period %q", core.ErrInvalid, f.Period)
			}
			return analytics.FilterTransactions(txs, f, deps.now()), nil
		},
	}
}

func newCreditCardHandlers(deps *Deps) *resourceHandlers[core.CreditCard] {
	return &resourceHandlers[core.CreditCard]{
		noun: "credit cards",
		svc:  deps.CreditCards,
		withID: func(c core.CreditCard, id string) core.CreditCard {
			c.ID = id
			return c
		},
	}
}

func newReceivableHandlers(deps *Deps) *resourceHandlers[core.ReceivableAmount] {
	return &resourceHandlers[core.ReceivableAmount]{
		noun: "receivables",
		svc:  deps.Receivables,
		withID: func(rec core.ReceivableAmount, id string) core.ReceivableAmount {
			rec.ID = id
			return rec
		},
		filter: func(r *http.Request, recs []core.ReceivableAmount) ([]core.ReceivableAmount, error) {
			status := analytics.ReceivableStatus(r.URL.Query().Get("status"))
			if !status.IsValid() {
				return nil, fmt.Errorf("%w: unknown status %q", core.ErrInvalid, status)
			}
			return analytics.FilterReceivables(recs, status), nil
		},
	}
}
