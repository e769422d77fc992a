package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"finboard/internal/analytics"
	"finboard/internal/core"
)

// Snapshot is one consistent-enough view of all three collections.
type Snapshot struct {
	Transactions []core.Transaction
	CreditCards  []core.CreditCard
	Receivables  []core.ReceivableAmount
}

// Summary is everything the dashboard overview renders.
type Summary struct {
	Totals         analytics.Totals          `json:"totals"`
	Monthly        []analytics.MonthlyPoint  `json:"monthly"`
	IncomeByCat    []analytics.CategoryTotal `json:"incomeByCategory"`
	ExpenseByCat   []analytics.CategoryTotal `json:"expenseByCategory"`
	CardStatements []CardStatement           `json:"cardStatements"`
	GeneratedAt    time.Time                 `json:"generatedAt"`
}

// CardStatement pairs a card with its working statement.
type CardStatement struct {
	Card      core.CreditCard     `json:"card"`
	Statement analytics.Statement `json:"statement"`
}

// DashboardService loads collections and feeds them to the analytics
// functions. Reads degrade to empty collections so one failing store does not
// blank the whole dashboard.
type DashboardService struct {
	transactions *CollectionService[core.Transaction]
	cards        *CollectionService[core.CreditCard]
	receivables  *CollectionService[core.ReceivableAmount]
	now          func() time.Time
}

func NewDashboardService(
	transactions *CollectionService[core.Transaction],
	cards *CollectionService[core.CreditCard],
	receivables *CollectionService[core.ReceivableAmount],
) *DashboardService {
	return &DashboardService{
		transactions: transactions,
		cards:        cards,
		receivables:  receivables,
		now:          time.Now,
	}
}

// Snapshot loads the three collections concurrently.
func (d *DashboardService) Snapshot(ctx context.Context) Snapshot {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Transactions = d.transactions.GetAllOrEmpty(gctx)
		return nil
	})
	g.Go(func() error {
		snap.CreditCards = d.cards.GetAllOrEmpty(gctx)
		return nil
	})
	g.Go(func() error {
		snap.Receivables = d.receivables.GetAllOrEmpty(gctx)
		return nil
	})
	_ = g.Wait()
	return snap
}

func (d *DashboardService) Summary(ctx context.Context) Summary {
	snap := d.Snapshot(ctx)
	now := d.now()

	statements := make([]CardStatement, 0, len(snap.CreditCards))
	for _, card := range snap.CreditCards {
		statements = append(statements, CardStatement{
			Card:      card,
			Statement: analytics.ResolveStatement(card, snap.Transactions, now),
		})
	}

	return Summary{
		Totals:         analytics.ComputeTotals(snap.Transactions, snap.Receivables, now),
		Monthly:        analytics.MonthlyTrend(snap.Transactions, now, analytics.DefaultTrendMonths),
		IncomeByCat:    analytics.CategoryDistributionFor(snap.Transactions, core.Income, analytics.DefaultCategoryLimit),
		ExpenseByCat:   analytics.CategoryDistributionFor(snap.Transactions, core.Expense, analytics.DefaultCategoryLimit),
		CardStatements: statements,
		GeneratedAt:    now,
	}
}

func (d *DashboardService) MonthlyTrend(ctx context.Context, months int) ([]analytics.MonthlyPoint, error) {
	txs, err := d.transactions.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.MonthlyTrend(txs, d.now(), months), nil
}

func (d *DashboardService) Categories(ctx context.Context, typ core.TransactionType) ([]analytics.CategoryTotal, error) {
	txs, err := d.transactions.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.CategoryDistributionFor(txs, typ, analytics.DefaultCategoryLimit), nil
}

// Statement resolves the working statement of one card.
func (d *DashboardService) Statement(ctx context.Context, cardID string) (analytics.Statement, error) {
	card, ok, err := d.cards.GetByID(ctx, cardID)
	if err != nil {
		return analytics.Statement{}, err
	}
	if !ok {
		return analytics.Statement{}, fmt.Errorf("credit card %q: %w", cardID, core.ErrNotFound)
	}
	txs, err := d.transactions.GetAll(ctx)
	if err != nil {
		return analytics.Statement{}, err
	}
	return analytics.ResolveStatement(card, txs, d.now()), nil
}
