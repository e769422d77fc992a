package analytics

import (
	"testing"
	"time"

	"finboard/internal/core"
)

func TestCategoryDistributionCollapsesTail(t *testing.T) {
	date := core.NewDate(2024, time.March, 1)
	names := []string{"A", "B", "C", "D", "E", "F", "G"}
	sums := []string{"100", "90", "80", "70", "60", "50", "40"}

	var txs []core.Transaction
	// insert in reverse to prove sorting
	for i := len(names) - 1; i >= 0; i-- {
		txs = append(txs, tx(core.Expense, sums[i], date, names[i]))
	}

	got := CategoryDistribution(txs, DefaultCategoryLimit)
	if len(got) != 6 {
		t.Fatalf("expected 6 buckets, got %d: %+v", len(got), got)
	}
	for i := 0; i < 5; i++ {
		if got[i].Category != names[i] || got[i].Amount.String() != sums[i] {
			t.Fatalf("bucket %d = %+v, want %s=%s", i, got[i], names[i], sums[i])
		}
	}
	if got[5].Category != core.OtherCategory || got[5].Amount.String() != "90" {
		t.Fatalf("other bucket = %+v, want Other=90", got[5])
	}
}

func TestCategoryDistributionMissingCategoryIsOther(t *testing.T) {
	date := core.NewDate(2024, time.March, 1)
	txs := []core.Transaction{
		tx(core.Expense, "10", date, ""),
		tx(core.Expense, "5", date, "Other"),
		tx(core.Expense, "20", date, "Food"),
	}
	got := CategoryDistribution(txs, 5)
	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %+v", got)
	}
	if got[0].Category != "Food" || got[1].Category != core.OtherCategory || got[1].Amount.String() != "15" {
		t.Fatalf("unexpected groups %+v", got)
	}
}

func TestCategoryDistributionMergesIntoKeptOther(t *testing.T) {
	date := core.NewDate(2024, time.March, 1)
	txs := []core.Transaction{
		tx(core.Expense, "500", date, core.OtherCategory),
		tx(core.Expense, "100", date, "A"),
		tx(core.Expense, "90", date, "B"),
		tx(core.Expense, "80", date, "C"),
		tx(core.Expense, "70", date, "D"),
		tx(core.Expense, "10", date, "E"),
		tx(core.Expense, "5", date, "F"),
	}
	got := CategoryDistribution(txs, 5)
	if len(got) != 5 {
		t.Fatalf("expected 5 groups, got %+v", got)
	}
	if got[0].Category != core.OtherCategory || got[0].Amount.String() != "515" {
		t.Fatalf("other = %+v, want 515", got[0])
	}
}

func TestCategoryDistributionStableTies(t *testing.T) {
	date := core.NewDate(2024, time.March, 1)
	txs := []core.Transaction{
		tx(core.Expense, "10", date, "First"),
		tx(core.Expense, "10", date, "Second"),
		tx(core.Expense, "10", date, "Third"),
	}
	got := CategoryDistribution(txs, 5)
	for i, want := range []string{"First", "Second", "Third"} {
		if got[i].Category != want {
			t.Fatalf("position %d = %s, want %s", i, got[i].Category, want)
		}
	}
}

func TestCategoryDistributionFor(t *testing.T) {
	date := core.NewDate(2024, time.March, 1)
	txs := []core.Transaction{
		tx(core.Income, "1000", date, "Salary"),
		tx(core.Expense, "20", date, "Food"),
	}
	got := CategoryDistributionFor(txs, core.Income, 5)
	if len(got) != 1 || got[0].Category != "Salary" {
		t.Fatalf("unexpected %+v", got)
	}
	if empty := CategoryDistribution(nil, 5); empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}
}
