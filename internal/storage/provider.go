// Package storage persists whole collections of records. A collection is
// always read and written as a unit; there are no partial updates.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Kind identifies a storage variant.
type Kind string

const (
	KindLocal      Kind = "local"
	KindRelational Kind = "relational"
)

func (k Kind) String() string {
	return string(k)
}

// Record is one stored entity: its id and the full serialized document.
type Record struct {
	ID   string
	Data json.RawMessage
}

// Provider reads and replaces complete collections.
type Provider interface {
	Kind() Kind

	// Read returns the stored collection. found is false when nothing was
	// ever stored under the collection.
	Read(ctx context.Context, c Collection) (records []Record, found bool, err error)

	// Write replaces the stored collection with records.
	Write(ctx context.Context, c Collection, records []Record) error

	Close() error
}

// Inspector is implemented by providers backed by a database server.
type Inspector interface {
	ServerTime(ctx context.Context) (time.Time, error)
	InitSchema(ctx context.Context) error
}

// AsInspector unwraps decorators and reports whether p can be inspected.
func AsInspector(p Provider) (Inspector, bool) {
	for p != nil {
		if i, ok := p.(Inspector); ok {
			return i, true
		}
		u, ok := p.(interface{ Unwrap() Provider })
		if !ok {
			return nil, false
		}
		p = u.Unwrap()
	}
	return nil, false
}

// RecordFromJSON extracts the id of a raw JSON document.
func RecordFromJSON(raw json.RawMessage) (Record, error) {
	var head struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	var id string
	if len(head.ID) == 0 || json.Unmarshal(head.ID, &id) != nil || id == "" {
		return Record{}, fmt.Errorf("record has no string id")
	}
	return Record{ID: id, Data: raw}, nil
}
