package analytics

import (
	"sort"
	"strings"
	"time"

	"finboard/internal/core"
)

type Period string

const (
	PeriodAll       Period = "all"
	PeriodThisMonth Period = "this-month"
	PeriodLastMonth Period = "last-month"
	PeriodThisYear  Period = "this-year"
)

func (p Period) IsValid() bool {
	switch p {
	case "", PeriodAll, PeriodThisMonth, PeriodLastMonth, PeriodThisYear:
		return true
	default:
		return false
	}
}

// TransactionFilter narrows a transaction list. Empty fields and "all" match
// everything.
type TransactionFilter struct {
	// Search matches description or category, ignoring case.
	Search   string
	Category string
	Type     core.TransactionType
	Period   Period
}

// FilterTransactions returns the matching transactions, newest first. The
// input slice is not modified.
func FilterTransactions(txs []core.Transaction, f TransactionFilter, now time.Time) []core.Transaction {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	lastMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)

	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if search != "" &&
			!strings.Contains(strings.ToLower(tx.Description), search) &&
			!strings.Contains(strings.ToLower(tx.Category), search) {
			continue
		}
		if f.Category != "" && f.Category != "all" && tx.Category != f.Category {
			continue
		}
		if f.Type != "" && f.Type != "all" && tx.Type != f.Type {
			continue
		}
		switch f.Period {
		case PeriodThisMonth:
			if tx.Date.Year() != now.Year() || tx.Date.Month() != now.Month() {
				continue
			}
		case PeriodLastMonth:
			if tx.Date.Year() != lastMonth.Year() || tx.Date.Month() != lastMonth.Month() {
				continue
			}
		case PeriodThisYear:
			if tx.Date.Year() != now.Year() {
				continue
			}
		}
		out = append(out, tx)
	}
	sortNewestFirst(out)
	return out
}

// CardTransactions lists every transaction referencing cardID, newest first.
func CardTransactions(txs []core.Transaction, cardID string) []core.Transaction {
	out := make([]core.Transaction, 0)
	for _, tx := range txs {
		if tx.CreditCardID == cardID {
			out = append(out, tx)
		}
	}
	sortNewestFirst(out)
	return out
}

type ReceivableStatus string

const (
	ReceivablePending  ReceivableStatus = "pending"
	ReceivableReceived ReceivableStatus = "received"
)

func (s ReceivableStatus) IsValid() bool {
	return s == "" || s == "all" || s == ReceivablePending || s == ReceivableReceived
}

// FilterReceivables keeps receivables in the given status and orders them
// pending first, then by expected date.
func FilterReceivables(recs []core.ReceivableAmount, status ReceivableStatus) []core.ReceivableAmount {
	out := make([]core.ReceivableAmount, 0, len(recs))
	for _, r := range recs {
		switch status {
		case ReceivablePending:
			if r.Received {
				continue
			}
		case ReceivableReceived:
			if !r.Received {
				continue
			}
		}
		out = append(out, r)
	}
	SortReceivables(out)
	return out
}

// SortReceivables orders in place: pending before received, then by
// expected date ascending.
func SortReceivables(recs []core.ReceivableAmount) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Received != recs[j].Received {
			return !recs[i].Received
		}
		return recs[i].ExpectedDate.Before(recs[j].ExpectedDate.Time)
	})
}
