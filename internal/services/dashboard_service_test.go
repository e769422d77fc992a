package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"finboard/internal/core"
	"finboard/internal/storage"
)

func newDashboard(t *testing.T, store storage.Provider, now time.Time) (*DashboardService, *CollectionService[core.Transaction], *CollectionService[core.CreditCard]) {
	t.Helper()
	txs := NewCollectionService[core.Transaction](store, storage.Transactions, nil)
	cards := NewCollectionService[core.CreditCard](store, storage.CreditCards, nil)
	recs := NewCollectionService[core.ReceivableAmount](store, storage.Receivables, nil)
	d := NewDashboardService(txs, cards, recs)
	d.now = func() time.Time { return now }
	return d, txs, cards
}

func TestDashboardService_Statement(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.April, 5, 12, 0, 0, 0, time.UTC)
	d, txs, cards := newDashboard(t, newLocal(t), now)

	cards.Add(ctx, core.CreditCard{ID: "c1", Name: "Visa", LastDigits: "1234", Limit: core.MustMoney("1000"), ClosingDay: 10, DueDay: 20})
	txs.Add(ctx, core.Transaction{
		ID: "t1", Type: core.Expense, Amount: core.MustMoney("300"), Date: core.NewDate(2024, time.March, 15),
		Description: "tv", Category: "Leisure", PaymentMethod: core.MethodCreditCard, CreditCardID: "c1",
	})

	st, err := d.Statement(ctx, "c1")
	if err != nil {
		t.Fatalf("Statement: %v", err)
	}
	if st.Total.String() != "300" || st.Available.String() != "700" {
		t.Fatalf("unexpected statement: total=%s available=%s", st.Total, st.Available)
	}

	if _, err := d.Statement(ctx, "nope"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDashboardService_Summary(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	d, txs, cards := newDashboard(t, newLocal(t), now)

	cards.Add(ctx, core.CreditCard{ID: "c1", Name: "Visa", LastDigits: "1234", Limit: core.MustMoney("1000"), ClosingDay: 25, DueDay: 5})
	txs.Add(ctx, core.Transaction{
		ID: "t1", Type: core.Income, Amount: core.MustMoney("2000"), Date: core.NewDate(2024, time.March, 1),
		Description: "salary", Category: "Salary", PaymentMethod: core.MethodBank, Paid: true,
	})
	txs.Add(ctx, core.Transaction{
		ID: "t2", Type: core.Expense, Amount: core.MustMoney("150"), Date: core.NewDate(2024, time.March, 10),
		Description: "groceries", Category: "Food", PaymentMethod: core.MethodCreditCard, CreditCardID: "c1",
	})

	s := d.Summary(ctx)
	if len(s.Monthly) != 6 {
		t.Fatalf("expected 6 monthly points, got %d", len(s.Monthly))
	}
	if len(s.IncomeByCat) != 1 || s.IncomeByCat[0].Category != "Salary" {
		t.Fatalf("unexpected income distribution: %+v", s.IncomeByCat)
	}
	if len(s.ExpenseByCat) != 1 || s.ExpenseByCat[0].Amount.String() != "150" {
		t.Fatalf("unexpected expense distribution: %+v", s.ExpenseByCat)
	}
	if len(s.CardStatements) != 1 || s.CardStatements[0].Statement.Total.String() != "150" {
		t.Fatalf("unexpected card statements: %+v", s.CardStatements)
	}
	if s.Totals.PendingCardPayments.String() != "150" {
		t.Fatalf("pending card payments = %s", s.Totals.PendingCardPayments)
	}
}

func TestDashboardService_SummaryDegradesOnStoreFailure(t *testing.T) {
	d, _, _ := newDashboard(t, brokenProvider{}, time.Now())

	s := d.Summary(context.Background())
	if len(s.CardStatements) != 0 || len(s.IncomeByCat) != 0 {
		t.Fatalf("expected empty summary, got %+v", s)
	}
	if _, err := d.MonthlyTrend(context.Background(), 3); err == nil {
		t.Fatalf("MonthlyTrend should surface store errors")
	}
}
