// Package store owns the canonical ordered transaction collection and its
// persistence lifecycle. The in-memory copy is the sole source of truth during
// a session; every mutation rewrites the full serialized collection through
// the KV port.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"spendlog/internal/core"
	applog "spendlog/internal/log"
)

type (
	// KV is the persistence port: one durable key-value record.
	KV interface {
		// Get returns the stored value, ok=false when the key was never written.
		Get(ctx context.Context, key string) (value []byte, ok bool, err error)
		Put(ctx context.Context, key string, value []byte) error
	}

	// TransactionStore is the injectable contract the service layer programs
	// against, enabling test doubles.
	TransactionStore interface {
		Load(ctx context.Context)
		Insert(ctx context.Context, tx core.Transaction) error
		Update(ctx context.Context, tx core.Transaction) error
		Remove(ctx context.Context, id string) error
		Find(id string) (core.Transaction, bool)
		All() []core.Transaction
		Revision() uint64
	}
)

// Store keeps the ordered collection in memory and persists through a KV
// backend. New transactions are prepended; edits keep their position; deletes
// remove exactly one element by ID.
type Store struct {
	kv KV

	mu    sync.Mutex
	items []core.Transaction
	rev   uint64
}

var _ TransactionStore = (*Store)(nil)

func New(kv KV) *Store {
	return &Store{kv: kv, items: []core.Transaction{}}
}

// Load reads the whole collection from the KV backend. Absent, unreadable or
// malformed data all fall back to an empty collection: best-effort recovery,
// never a hard error, so a tampered or first-run store cannot block the app.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []core.Transaction{}

	data, ok, err := s.kv.Get(ctx, CollectionKey)
	if err != nil {
		slog.WarnContext(ctx, "Failed reading stored transactions, starting empty",
			applog.FieldError, err, applog.FieldComponent, applog.ComponentStore)
		return
	}
	if !ok {
		return
	}

	items, err := DecodeCollection(data)
	if err != nil {
		slog.WarnContext(ctx, "Stored transactions malformed, starting empty",
			applog.FieldError, err, applog.FieldComponent, applog.ComponentStore)
		return
	}
	s.items = items
}

// Insert prepends the transaction and persists the full collection.
func (s *Store) Insert(ctx context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append([]core.Transaction{tx}, s.items...)
	s.rev++
	return s.persist(ctx)
}

// Update replaces the element whose ID matches, keeping its position. A
// missing ID is a silent no-op: ID stability makes it unreachable in practice.
func (s *Store) Update(ctx context.Context, tx core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == tx.ID {
			s.items[i] = tx
			s.rev++
			return s.persist(ctx)
		}
	}
	return nil
}

// Remove filters out the element with the matching ID. A missing ID leaves
// the collection unchanged and raises no error.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0:0]
	for _, t := range s.items {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(s.items) {
		return nil
	}
	s.items = kept
	s.rev++
	return s.persist(ctx)
}

// Find returns the transaction with the given ID.
func (s *Store) Find(id string) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.items {
		if t.ID == id {
			return t, true
		}
	}
	return core.Transaction{}, false
}

// All returns a snapshot copy of the ordered collection.
func (s *Store) All() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.items...)
}

// Revision increments on every applied mutation; derived-view caches key on it.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}

// persist writes the full collection; callers hold the lock. Last write wins,
// no partial-write recovery.
func (s *Store) persist(ctx context.Context) error {
	data, err := EncodeCollection(s.items)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if err := s.kv.Put(ctx, CollectionKey, data); err != nil {
		return fmt.Errorf("persist collection: %w", err)
	}
	return nil
}
