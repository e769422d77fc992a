package analytics

import (
	"fmt"
	"time"

	"finboard/internal/core"
)

// DefaultTrendMonths is the trailing window used by the dashboard.
const DefaultTrendMonths = 6

// MonthlyPoint holds the totals of one calendar month.
type MonthlyPoint struct {
	Year    int        `json:"year"`
	Month   int        `json:"month"`
	Label   string     `json:"label"`
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
	Balance core.Money `json:"balance"`
}

// MonthlyTrend buckets transactions into the trailing window of calendar
// months ending with the month of now, oldest first. Transactions outside the
// window are ignored.
func MonthlyTrend(txs []core.Transaction, now time.Time, months int) []MonthlyPoint {
	if months <= 0 {
		months = DefaultTrendMonths
	}

	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	points := make([]MonthlyPoint, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		m := anchor.AddDate(0, i-months+1, 0)
		key := monthKey(m.Year(), m.Month())
		points[i] = MonthlyPoint{
			Year:    m.Year(),
			Month:   int(m.Month()),
			Label:   key,
			Income:  core.Zero,
			Expense: core.Zero,
		}
		index[key] = i
	}

	for _, tx := range txs {
		i, ok := index[monthKey(tx.Date.Year(), tx.Date.Month())]
		if !ok {
			continue
		}
		switch tx.Type {
		case core.Income:
			points[i].Income = points[i].Income.Plus(tx.Amount)
		case core.Expense:
			points[i].Expense = points[i].Expense.Plus(tx.Amount)
		}
	}

	for i := range points {
		points[i].Balance = points[i].Income.Minus(points[i].Expense)
	}
	return points
}

func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}
