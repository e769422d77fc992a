package analytics

import (
	"time"

	"finboard/internal/core"
)

// Totals are the headline figures of the dashboard.
type Totals struct {
	// Balance is income minus expense over the whole history.
	Balance             core.Money `json:"balance"`
	PendingCardPayments core.Money `json:"pendingCardPayments"`
	PendingReceivables  core.Money `json:"pendingReceivables"`
	ProjectedBalance    core.Money `json:"projectedBalance"`
	MonthIncome         core.Money `json:"monthIncome"`
	MonthExpense        core.Money `json:"monthExpense"`
}

func ComputeTotals(txs []core.Transaction, receivables []core.ReceivableAmount, now time.Time) Totals {
	t := Totals{
		Balance:             core.Zero,
		PendingCardPayments: core.Zero,
		PendingReceivables:  core.Zero,
		MonthIncome:         core.Zero,
		MonthExpense:        core.Zero,
	}

	for _, tx := range txs {
		thisMonth := tx.Date.Year() == now.Year() && tx.Date.Month() == now.Month()
		switch tx.Type {
		case core.Income:
			t.Balance = t.Balance.Plus(tx.Amount)
			if thisMonth {
				t.MonthIncome = t.MonthIncome.Plus(tx.Amount)
			}
		case core.Expense:
			t.Balance = t.Balance.Minus(tx.Amount)
			if thisMonth {
				t.MonthExpense = t.MonthExpense.Plus(tx.Amount)
			}
			if tx.PaymentMethod == core.MethodCreditCard && !tx.Paid {
				t.PendingCardPayments = t.PendingCardPayments.Plus(tx.Amount)
			}
		}
	}

	for _, r := range receivables {
		if !r.Received {
			t.PendingReceivables = t.PendingReceivables.Plus(r.Amount)
		}
	}

	t.ProjectedBalance = t.Balance.Minus(t.PendingCardPayments).Plus(t.PendingReceivables)
	return t
}
