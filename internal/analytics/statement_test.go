package analytics

import (
	"testing"
	"time"

	"finboard/internal/core"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func expense(id, cardID string, amount string, date core.Date) core.Transaction {
	return core.Transaction{
		ID:            id,
		Type:          core.Expense,
		Amount:        core.MustMoney(amount),
		Date:          date,
		Description:   id,
		Category:      "Food",
		PaymentMethod: core.MethodCreditCard,
		CreditCardID:  cardID,
	}
}

func TestResolveStatementBoundaries(t *testing.T) {
	card := core.CreditCard{ID: "c1", Limit: core.MustMoney("1000"), ClosingDay: 15, DueDay: 25}
	txs := []core.Transaction{
		expense("on-previous-closing", "c1", "10", core.NewDate(2024, time.May, 15)),
		expense("day-after", "c1", "20", core.NewDate(2024, time.May, 16)),
		expense("on-closing", "c1", "30", core.NewDate(2024, time.June, 15)),
		expense("next-cycle", "c1", "40", core.NewDate(2024, time.June, 16)),
	}

	stmt := ResolveStatement(card, txs, day(2024, time.May, 20))

	if got := stmt.ClosingDate.String(); got != "2024-06-15" {
		t.Fatalf("closing = %s, want 2024-06-15", got)
	}
	if got := stmt.PreviousClosingDate.String(); got != "2024-05-15" {
		t.Fatalf("previous closing = %s, want 2024-05-15", got)
	}
	if len(stmt.Transactions) != 2 {
		t.Fatalf("expected 2 statement transactions, got %d", len(stmt.Transactions))
	}
	if stmt.Transactions[0].ID != "on-closing" || stmt.Transactions[1].ID != "day-after" {
		t.Fatalf("expected newest first, got %s, %s", stmt.Transactions[0].ID, stmt.Transactions[1].ID)
	}
	if stmt.Total.String() != "50" {
		t.Fatalf("total = %s", stmt.Total)
	}
	if stmt.Available.String() != "950" {
		t.Fatalf("available = %s", stmt.Available)
	}
	if stmt.UsagePercent != 5 {
		t.Fatalf("usage = %v", stmt.UsagePercent)
	}
}

func TestResolveStatementOnClosingDayKeepsCurrentCycle(t *testing.T) {
	card := core.CreditCard{ID: "c1", Limit: core.MustMoney("100"), ClosingDay: 15, DueDay: 20}
	stmt := ResolveStatement(card, nil, day(2024, time.May, 15))
	if got := stmt.ClosingDate.String(); got != "2024-05-15" {
		t.Fatalf("closing = %s, want 2024-05-15", got)
	}
	if stmt.Transactions == nil {
		t.Fatalf("transactions must be an empty slice, not nil")
	}
}

func TestResolveStatementEndToEnd(t *testing.T) {
	card := core.CreditCard{ID: "c1", Limit: core.MustMoney("1000"), ClosingDay: 5, DueDay: 12}
	txs := []core.Transaction{expense("t1", "c1", "150", core.NewDate(2024, time.March, 10))}

	stmt := ResolveStatement(card, txs, day(2024, time.March, 20))

	if got := stmt.ClosingDate.String(); got != "2024-04-05" {
		t.Fatalf("closing = %s", got)
	}
	if got := stmt.DueDate.String(); got != "2024-04-12" {
		t.Fatalf("due = %s", got)
	}
	if len(stmt.Transactions) != 1 || stmt.Transactions[0].ID != "t1" {
		t.Fatalf("expected t1 in statement, got %+v", stmt.Transactions)
	}
	if stmt.UsagePercent != 15 {
		t.Fatalf("usage = %v, want 15", stmt.UsagePercent)
	}
}

func TestResolveStatementDueBeforeClosingAdvances(t *testing.T) {
	card := core.CreditCard{ID: "c1", Limit: core.MustMoney("500"), ClosingDay: 25, DueDay: 5}
	stmt := ResolveStatement(card, nil, day(2024, time.January, 10))
	if got := stmt.ClosingDate.String(); got != "2024-01-25" {
		t.Fatalf("closing = %s", got)
	}
	if got := stmt.DueDate.String(); got != "2024-02-05" {
		t.Fatalf("due = %s, want 2024-02-05", got)
	}
}

func TestResolveStatementClampsShortMonths(t *testing.T) {
	card := core.CreditCard{ID: "c1", Limit: core.MustMoney("500"), ClosingDay: 31, DueDay: 31}

	cases := []struct {
		today    time.Time
		closing  string
		previous string
		due      string
	}{
		{day(2024, time.February, 10), "2024-02-29", "2024-01-31", "2024-02-29"},
		{day(2023, time.February, 10), "2023-02-28", "2023-01-31", "2023-02-28"},
		{day(2024, time.April, 30), "2024-04-30", "2024-03-31", "2024-04-30"},
		{day(2024, time.March, 31), "2024-03-31", "2024-02-29", "2024-03-31"},
		{day(2024, time.December, 31), "2024-12-31", "2024-11-30", "2024-12-31"},
	}
	for _, tc := range cases {
		stmt := ResolveStatement(card, nil, tc.today)
		if stmt.ClosingDate.String() != tc.closing || stmt.PreviousClosingDate.String() != tc.previous || stmt.DueDate.String() != tc.due {
			t.Fatalf("today %s: got closing=%s previous=%s due=%s, want %s %s %s",
				tc.today.Format("2006-01-02"), stmt.ClosingDate, stmt.PreviousClosingDate, stmt.DueDate,
				tc.closing, tc.previous, tc.due)
		}
	}
}

func TestResolveStatementClampedDueStillFollowsClosing(t *testing.T) {
	card := core.CreditCard{ID: "c1", Limit: core.MustMoney("500"), ClosingDay: 31, DueDay: 30}
	stmt := ResolveStatement(card, nil, day(2024, time.February, 10))
	if got := stmt.ClosingDate.String(); got != "2024-02-29" {
		t.Fatalf("closing = %s", got)
	}
	if got := stmt.DueDate.String(); got != "2024-03-30" {
		t.Fatalf("due = %s, want 2024-03-30", got)
	}
}

func TestResolveStatementYearRollover(t *testing.T) {
	card := core.CreditCard{ID: "c1", Limit: core.MustMoney("500"), ClosingDay: 10, DueDay: 20}
	stmt := ResolveStatement(card, nil, day(2024, time.December, 15))
	if got := stmt.ClosingDate.String(); got != "2025-01-10" {
		t.Fatalf("closing = %s", got)
	}
	if got := stmt.PreviousClosingDate.String(); got != "2024-12-10" {
		t.Fatalf("previous = %s", got)
	}
}

func TestResolveStatementFiltersOtherCardsAndIncome(t *testing.T) {
	card := core.CreditCard{ID: "c1", Limit: core.MustMoney("1000"), ClosingDay: 5, DueDay: 12}
	refund := expense("refund", "c1", "30", core.NewDate(2024, time.March, 11))
	refund.Type = core.Income
	txs := []core.Transaction{
		expense("mine", "c1", "100", core.NewDate(2024, time.March, 10)),
		expense("other-card", "c2", "200", core.NewDate(2024, time.March, 10)),
		refund,
	}

	stmt := ResolveStatement(card, txs, day(2024, time.March, 20))
	if len(stmt.Transactions) != 1 || stmt.Transactions[0].ID != "mine" {
		t.Fatalf("unexpected statement transactions: %+v", stmt.Transactions)
	}
}

func TestUsagePercentZeroLimit(t *testing.T) {
	if got := UsagePercent(core.MustMoney("150"), core.Zero); got != 0 {
		t.Fatalf("usage with zero limit = %v", got)
	}
	if got := UsagePercent(core.MustMoney("150"), core.MustMoney("-10")); got != 0 {
		t.Fatalf("usage with negative limit = %v", got)
	}

	card := core.CreditCard{ID: "c1", ClosingDay: 5, DueDay: 12}
	stmt := ResolveStatement(card, []core.Transaction{expense("t1", "c1", "150", core.NewDate(2024, time.March, 10))}, day(2024, time.March, 20))
	if stmt.UsagePercent != 0 {
		t.Fatalf("usage = %v, want 0", stmt.UsagePercent)
	}
}
