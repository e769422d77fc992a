package analytics

import (
	"testing"
	"time"

	"finboard/internal/core"
)

func tx(typ core.TransactionType, amount string, date core.Date, category string) core.Transaction {
	return core.Transaction{
		ID:            date.String() + amount,
		Type:          typ,
		Amount:        core.MustMoney(amount),
		Date:          date,
		Description:   "x",
		Category:      category,
		PaymentMethod: core.MethodCash,
		Paid:          true,
	}
}

func TestMonthlyTrendWindow(t *testing.T) {
	now := day(2024, time.March, 20)
	points := MonthlyTrend(nil, now, DefaultTrendMonths)

	if len(points) != 6 {
		t.Fatalf("expected 6 buckets, got %d", len(points))
	}
	want := []string{"2023-10", "2023-11", "2023-12", "2024-01", "2024-02", "2024-03"}
	for i, p := range points {
		if p.Label != want[i] {
			t.Fatalf("bucket %d = %s, want %s", i, p.Label, want[i])
		}
		if !p.Income.IsZero() || !p.Expense.IsZero() || !p.Balance.IsZero() {
			t.Fatalf("empty bucket %s should be zero", p.Label)
		}
	}
}

func TestMonthlyTrendSumsIndependentOfDay(t *testing.T) {
	now := day(2024, time.March, 20)
	txs := []core.Transaction{
		tx(core.Income, "100", core.NewDate(2023, time.October, 1), "Salary"),
		tx(core.Income, "200", core.NewDate(2023, time.December, 31), "Salary"),
		tx(core.Income, "300", core.NewDate(2024, time.March, 31), "Salary"),
		tx(core.Expense, "50", core.NewDate(2024, time.March, 1), "Food"),
		tx(core.Expense, "70", core.NewDate(2024, time.January, 15), "Food"),
		// outside the window
		tx(core.Income, "999", core.NewDate(2023, time.September, 30), "Salary"),
		tx(core.Income, "999", core.NewDate(2024, time.April, 1), "Salary"),
	}

	points := MonthlyTrend(txs, now, 6)

	income, expense := core.Zero, core.Zero
	for _, p := range points {
		income = income.Plus(p.Income)
		expense = expense.Plus(p.Expense)
		if !p.Balance.Equal(p.Income.Minus(p.Expense).Decimal) {
			t.Fatalf("balance mismatch in %s", p.Label)
		}
	}
	if income.String() != "600" {
		t.Fatalf("income = %s, want 600", income)
	}
	if expense.String() != "120" {
		t.Fatalf("expense = %s, want 120", expense)
	}

	last := points[len(points)-1]
	if last.Income.String() != "300" || last.Expense.String() != "50" || last.Balance.String() != "250" {
		t.Fatalf("march bucket = %+v", last)
	}
}

func TestMonthlyTrendDefaultsWindow(t *testing.T) {
	if got := len(MonthlyTrend(nil, day(2024, time.March, 1), 0)); got != DefaultTrendMonths {
		t.Fatalf("expected default window, got %d", got)
	}
}
