package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"finboard/internal/core"
	"finboard/internal/storage"
)

// MigrationPayload carries complete collections as raw JSON documents.
// Missing kinds are treated as empty.
type MigrationPayload struct {
	Transactions []json.RawMessage `json:"transactions"`
	CreditCards  []json.RawMessage `json:"creditCards"`
	Receivables  []json.RawMessage `json:"receivables"`
}

type MigrationCounts struct {
	Transactions int `json:"transactions"`
	CreditCards  int `json:"creditCards"`
	Receivables  int `json:"receivables"`
}

// MigrationService bulk-loads whole collections into a destination store.
type MigrationService struct {
	dest storage.Provider
}

func NewMigrationService(dest storage.Provider) *MigrationService {
	return &MigrationService{dest: dest}
}

// Migrate clears every destination collection and then writes each kind in
// turn. Kinds are independent: when one fails the kinds written before it
// stay migrated and the counts returned describe them.
func (m *MigrationService) Migrate(ctx context.Context, p MigrationPayload) (MigrationCounts, error) {
	var counts MigrationCounts

	batches := make(map[storage.Collection][]storage.Record, 3)
	for _, c := range storage.Collections() {
		records, err := recordsFromRaw(p.raw(c))
		if err != nil {
			return counts, fmt.Errorf("%s: %w", c, err)
		}
		batches[c] = records
	}

	for _, c := range storage.Collections() {
		if err := m.dest.Write(ctx, c, nil); err != nil {
			return counts, fmt.Errorf("clear %s: %w", c, err)
		}
	}

	for _, c := range storage.Collections() {
		records := batches[c]
		if err := m.dest.Write(ctx, c, records); err != nil {
			return counts, fmt.Errorf("migrate %s: %w", c, err)
		}
		counts.set(c, len(records))
		slog.InfoContext(ctx, "Collection migrated", "collection", c.String(), "count", len(records))
	}

	return counts, nil
}

// LoadPayload reads every collection of src into a payload.
func LoadPayload(ctx context.Context, src storage.Provider) (MigrationPayload, error) {
	var p MigrationPayload
	for _, c := range storage.Collections() {
		records, _, err := src.Read(ctx, c)
		if err != nil {
			return p, fmt.Errorf("read %s: %w", c, err)
		}
		raw := make([]json.RawMessage, len(records))
		for i, r := range records {
			raw[i] = r.Data
		}
		switch c {
		case storage.Transactions:
			p.Transactions = raw
		case storage.CreditCards:
			p.CreditCards = raw
		case storage.Receivables:
			p.Receivables = raw
		}
	}
	return p, nil
}

func (p MigrationPayload) raw(c storage.Collection) []json.RawMessage {
	switch c {
	case storage.Transactions:
		return p.Transactions
	case storage.CreditCards:
		return p.CreditCards
	default:
		return p.Receivables
	}
}

func (c *MigrationCounts) set(coll storage.Collection, n int) {
	switch coll {
	case storage.Transactions:
		c.Transactions = n
	case storage.CreditCards:
		c.CreditCards = n
	case storage.Receivables:
		c.Receivables = n
	}
}

func recordsFromRaw(raw []json.RawMessage) ([]storage.Record, error) {
	records := make([]storage.Record, 0, len(raw))
	for i, doc := range raw {
		rec, err := storage.RecordFromJSON(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", core.ErrInvalid, i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
