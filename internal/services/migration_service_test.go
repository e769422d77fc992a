package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"finboard/internal/core"
	"finboard/internal/storage"
)

// failingWrites wraps a provider and fails writes of one collection when they
// carry records.
type failingWrites struct {
	storage.Provider
	fail storage.Collection
}

func (f failingWrites) Write(ctx context.Context, c storage.Collection, records []storage.Record) error {
	if c == f.fail && len(records) > 0 {
		return errors.New("disk full")
	}
	return f.Provider.Write(ctx, c, records)
}

func raws(docs ...string) []json.RawMessage {
	out := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		out[i] = json.RawMessage(d)
	}
	return out
}

func TestMigrationService_Migrate(t *testing.T) {
	ctx := context.Background()
	dest := newLocal(t)

	stale := NewCollectionService[core.ReceivableAmount](dest, storage.Receivables, nil)
	stale.Add(ctx, receivable("old", "5"))

	payload := MigrationPayload{
		Transactions: raws(`{"id":"t1","amount":10}`, `{"id":"t2","amount":20}`),
		CreditCards:  raws(`{"id":"c1","name":"Visa"}`),
	}

	counts, err := NewMigrationService(dest).Migrate(ctx, payload)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if counts != (MigrationCounts{Transactions: 2, CreditCards: 1, Receivables: 0}) {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	recs, _, _ := dest.Read(ctx, storage.Receivables)
	if len(recs) != 0 {
		t.Fatalf("receivables should have been cleared, got %d", len(recs))
	}
	txs, _, _ := dest.Read(ctx, storage.Transactions)
	if len(txs) != 2 || txs[1].ID != "t2" {
		t.Fatalf("unexpected transactions: %+v", txs)
	}
}

func TestMigrationService_RejectsMissingIDs(t *testing.T) {
	ctx := context.Background()
	dest := newLocal(t)
	dest.Write(ctx, storage.CreditCards, []storage.Record{{ID: "keep", Data: json.RawMessage(`{"id":"keep"}`)}})

	_, err := NewMigrationService(dest).Migrate(ctx, MigrationPayload{
		Receivables: raws(`{"description":"no id"}`),
	})
	if !errors.Is(err, core.ErrInvalid) {
		t.Fatalf("expected invalid payload error, got %v", err)
	}

	cards, _, _ := dest.Read(ctx, storage.CreditCards)
	if len(cards) != 1 {
		t.Fatalf("invalid payload must not touch the destination")
	}
}

func TestMigrationService_PartialFailure(t *testing.T) {
	ctx := context.Background()
	local := newLocal(t)
	dest := failingWrites{Provider: local, fail: storage.CreditCards}

	counts, err := NewMigrationService(dest).Migrate(ctx, MigrationPayload{
		Transactions: raws(`{"id":"t1"}`),
		CreditCards:  raws(`{"id":"c1"}`),
		Receivables:  raws(`{"id":"r1"}`),
	})
	if err == nil || !strings.Contains(err.Error(), "creditCards") {
		t.Fatalf("expected error naming creditCards, got %v", err)
	}
	if counts.Transactions != 1 || counts.CreditCards != 0 || counts.Receivables != 0 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	txs, _, _ := local.Read(ctx, storage.Transactions)
	if len(txs) != 1 {
		t.Fatalf("transactions written before the failure should stay, got %d", len(txs))
	}
}

func TestLoadPayload(t *testing.T) {
	ctx := context.Background()
	src := newLocal(t)
	NewCollectionService[core.ReceivableAmount](src, storage.Receivables, nil).Add(ctx, receivable("r1", "10"))

	p, err := LoadPayload(ctx, src)
	if err != nil {
		t.Fatalf("LoadPayload: %v", err)
	}
	if len(p.Transactions) != 0 || len(p.CreditCards) != 0 || len(p.Receivables) != 1 {
		t.Fatalf("unexpected payload: %+v", p)
	}

	dest := newLocal(t)
	counts, err := NewMigrationService(dest).Migrate(ctx, p)
	if err != nil || counts.Receivables != 1 {
		t.Fatalf("Migrate = %+v, %v", counts, err)
	}
}
