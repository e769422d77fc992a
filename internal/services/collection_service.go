package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"finboard/internal/amqp"
	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/storage"
)

// ChangePublisher is told about every successful collection mutation.
type ChangePublisher interface {
	PublishCollectionChange(ctx context.Context, msg *amqp.CollectionChangeMessage) error
}

// CollectionService is a CRUD facade over one stored collection. Every
// mutation reads the whole collection, changes it in memory and writes it
// back. Mutations are serialised within the process only: two processes
// sharing a store can still lose each other's updates.
type CollectionService[T core.Entity] struct {
	store      storage.Provider
	collection storage.Collection
	publisher  ChangePublisher
	mu         sync.Mutex
}

// NewCollectionService binds T to collection c of store. publisher may be nil.
func NewCollectionService[T core.Entity](store storage.Provider, c storage.Collection, publisher ChangePublisher) *CollectionService[T] {
	return &CollectionService[T]{
		store:      store,
		collection: c,
		publisher:  publisher,
	}
}

// Collection reports which collection the service manages.
func (s *CollectionService[T]) Collection() storage.Collection {
	return s.collection
}

// GetAll returns the stored items, or an empty slice when nothing was stored.
func (s *CollectionService[T]) GetAll(ctx context.Context) ([]T, error) {
	records, _, err := s.store.Read(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.collection, err)
	}
	return decodeRecords[T](records)
}

// GetAllOrEmpty is the degrading read path: store failures are logged and an
// empty slice is returned.
func (s *CollectionService[T]) GetAllOrEmpty(ctx context.Context) []T {
	items, err := s.GetAll(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Collection unavailable, using empty list",
			"collection", s.collection.String(),
			"error", err)
		return []T{}
	}
	return items
}

func (s *CollectionService[T]) GetByID(ctx context.Context, id string) (T, bool, error) {
	var zero T
	items, err := s.GetAll(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, item := range items {
		if item.EntityID() == id {
			return item, true, nil
		}
	}
	return zero, false, nil
}

// Add appends item and rejects ids that are already stored.
func (s *CollectionService[T]) Add(ctx context.Context, item T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.GetAll(ctx)
	if err != nil {
		return item, err
	}
	for _, existing := range items {
		if existing.EntityID() == item.EntityID() {
			return item, fmt.Errorf("%s %q: %w", s.collection, item.EntityID(), core.ErrDuplicateID)
		}
	}

	items = append(items, item)
	if err := s.save(ctx, items); err != nil {
		return item, err
	}
	s.publish(ctx, amqp.OpCreate, item.EntityID(), len(items))
	return item, nil
}

// Update replaces the first stored item sharing item's id.
func (s *CollectionService[T]) Update(ctx context.Context, item T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.GetAll(ctx)
	if err != nil {
		return item, err
	}

	index := -1
	for i, existing := range items {
		if existing.EntityID() == item.EntityID() {
			index = i
			break
		}
	}
	if index < 0 {
		return item, fmt.Errorf("%s %q: %w", s.collection, item.EntityID(), core.ErrNotFound)
	}

	items[index] = item
	if err := s.save(ctx, items); err != nil {
		return item, err
	}
	s.publish(ctx, amqp.OpUpdate, item.EntityID(), len(items))
	return item, nil
}

// Delete removes every item with the given id. Unknown ids are ignored and
// leave the store untouched.
func (s *CollectionService[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.GetAll(ctx)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, item := range items {
		if item.EntityID() != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}

	if err := s.save(ctx, kept); err != nil {
		return err
	}
	s.publish(ctx, amqp.OpDelete, id, len(kept))
	return nil
}

func (s *CollectionService[T]) save(ctx context.Context, items []T) error {
	records, err := encodeRecords(items)
	if err != nil {
		return err
	}
	if err := s.store.Write(ctx, s.collection, records); err != nil {
		return fmt.Errorf("write %s: %w", s.collection, err)
	}
	return nil
}

func (s *CollectionService[T]) publish(ctx context.Context, op, id string, count int) {
	sl := log.NewStructuredLogger(log.FromContext(ctx))
	sl.LogCollectionChange(ctx, op, s.collection.String(), id, count)

	if s.publisher == nil {
		return
	}
	msg := amqp.NewCollectionChangeMessage(s.collection.String(), op, id, count)
	if err := s.publisher.PublishCollectionChange(ctx, msg); err != nil {
		// Don't fail the request - the collection is already saved
		sl.LogError(ctx, "Failed to publish collection change", err, log.ComponentAMQP, op,
			log.NewFields().WithCollection(s.collection.String(), id, count))
	}
}

func decodeRecords[T any](records []storage.Record) ([]T, error) {
	items := make([]T, 0, len(records))
	for _, r := range records {
		var item T
		if err := json.Unmarshal(r.Data, &item); err != nil {
			return nil, fmt.Errorf("decode record %q: %w", r.ID, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func encodeRecords[T core.Entity](items []T) ([]storage.Record, error) {
	records := make([]storage.Record, len(items))
	for i, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("encode record %q: %w", item.EntityID(), err)
		}
		records[i] = storage.Record{ID: item.EntityID(), Data: data}
	}
	return records, nil
}
