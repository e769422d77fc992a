// Package analytics derives dashboard figures from the raw collections:
// monthly trends, category rollups, credit card statement cycles and
// aggregate totals. Every function is pure and takes the reference time
// explicitly.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Statement is the working billing cycle of one credit card.
type Statement struct {
	CardID              string             `json:"cardId"`
	ClosingDate         core.Date          `json:"closingDate"`
	PreviousClosingDate core.Date          `json:"previousClosingDate"`
	DueDate             core.Date          `json:"dueDate"`
	Transactions        []core.Transaction `json:"transactions"`
	Total               core.Money         `json:"total"`
	Limit               core.Money         `json:"limit"`
	Available           core.Money         `json:"available"`
	UsagePercent        float64            `json:"usagePercent"`
}

// ResolveStatement returns the upcoming or just-closed cycle of card as seen
// on today. A transaction belongs to it when previous < date <= closing.
// Day-of-month values that do not exist in a month are clamped to the last
// day of that month. The due date falls in the closing month, or in the next
// one when DueDay is smaller than ClosingDay.
func ResolveStatement(card core.CreditCard, txs []core.Transaction, today time.Time) Statement {
	day := core.DateOf(today)

	closing := clampedDate(day.Year(), day.Month(), card.ClosingDay)
	if day.After(closing.Time) {
		closing = clampedDate(day.Year(), day.Month()+1, card.ClosingDay)
	}
	previous := clampedDate(closing.Year(), closing.Month()-1, card.ClosingDay)

	due := clampedDate(closing.Year(), closing.Month(), card.DueDay)
	if card.DueDay < card.ClosingDay {
		due = clampedDate(closing.Year(), closing.Month()+1, card.DueDay)
	}

	stmt := Statement{
		CardID:              card.ID,
		ClosingDate:         closing,
		PreviousClosingDate: previous,
		DueDate:             due,
		Transactions:        []core.Transaction{},
		Total:               core.Zero,
		Limit:               card.Limit,
	}

	for _, tx := range txs {
		if tx.Type != core.Expense || tx.CreditCardID != card.ID {
			continue
		}
		if tx.Date.After(previous.Time) && !tx.Date.After(closing.Time) {
			stmt.Transactions = append(stmt.Transactions, tx)
			stmt.Total = stmt.Total.Plus(tx.Amount)
		}
	}
	sortNewestFirst(stmt.Transactions)

	stmt.Available = card.Limit.Minus(stmt.Total)
	stmt.UsagePercent = UsagePercent(stmt.Total, card.Limit)
	return stmt
}

// UsagePercent is 100 * total / limit rounded to two decimals, or 0 when the
// limit is not positive.
func UsagePercent(total, limit core.Money) float64 {
	if !limit.IsPositive() {
		return 0
	}
	return total.Div(limit.Decimal).Mul(hundred).Round(2).InexactFloat64()
}

func clampedDate(year int, month time.Month, day int) core.Date {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return core.NewDate(first.Year(), first.Month(), day)
}

func sortNewestFirst(txs []core.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date.Time)
	})
}
