// Package services wires user intents to the transaction store and derives
// the views the UI renders: validate, mutate, persist, recompute.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"spendlog/internal/cache"
	"spendlog/internal/core"
	applog "spendlog/internal/log"
	"spendlog/internal/store"
)

type (
	// Summary backs the dashboard cards.
	Summary struct {
		TotalAbs core.Amount
		MonthAbs core.Amount
		Count    int
	}

	// ListView is the searchable transaction list with its running subtotal.
	ListView struct {
		Term        string
		Items       []core.Transaction
		SubtotalAbs core.Amount
	}
)

// LedgerService orchestrates add/edit/delete/search over the store. Derived
// views are recomputed from the current collection snapshot after every
// mutation; the revision-keyed caches only skip recomputation when nothing
// changed.
type LedgerService struct {
	store store.TransactionStore
	now   func() time.Time

	cacheMgr  *cache.Manager
	summaries *cache.LRUCache[Summary]
	charts    *cache.LRUCache[[]core.MonthBucket]
}

func NewLedgerService(st store.TransactionStore) *LedgerService {
	s := &LedgerService{
		store:     st,
		now:       time.Now,
		cacheMgr:  cache.NewManager(),
		summaries: cache.NewLRUCache[Summary](16, 5*time.Minute),
		charts:    cache.NewLRUCache[[]core.MonthBucket](16, 5*time.Minute),
	}
	s.cacheMgr.Register(s.summaries)
	s.cacheMgr.Register(s.charts)
	s.cacheMgr.StartCleanup(10 * time.Minute)
	return s
}

// Close stops background cache maintenance.
func (s *LedgerService) Close() {
	s.cacheMgr.Stop()
}

// Add validates the candidate, assigns identity and creation timestamp, and
// inserts it at the head of the collection. Field errors come back to the
// caller for inline rendering; a failed persist is logged and swallowed so the
// in-memory session stays usable (the write is simply lost on reload).
func (s *LedgerService) Add(ctx context.Context, in core.TransactionInput) (core.Transaction, core.FieldErrors) {
	errs := core.ValidateInput(in, s.now())
	if !errs.Valid() {
		return core.Transaction{}, errs
	}

	amount, _ := core.AmountFromString(in.Amount)
	tx := core.Transaction{
		ID:          uuid.NewString(),
		Amount:      amount,
		Date:        strings.TrimSpace(in.Date),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   s.now().UTC().Format(time.RFC3339),
	}

	if err := s.store.Insert(ctx, tx); err != nil {
		slog.WarnContext(ctx, "Persist failed, transaction kept in memory only",
			applog.FieldError, err, applog.FieldTransactionID, tx.ID, applog.FieldOperation, applog.OpAdd)
	} else {
		slog.InfoContext(ctx, "Transaction added",
			applog.FieldTransactionID, tx.ID, "date", tx.Date, applog.FieldOperation, applog.OpAdd)
	}
	return tx, nil
}

// Update validates the candidate and replaces the matching transaction while
// preserving its original ID and CreatedAt. An unknown ID is a silent no-op.
func (s *LedgerService) Update(ctx context.Context, id string, in core.TransactionInput) (core.Transaction, core.FieldErrors) {
	errs := core.ValidateInput(in, s.now())
	if !errs.Valid() {
		return core.Transaction{}, errs
	}

	orig, ok := s.store.Find(id)
	if !ok {
		// unreachable while IDs stay stable; deliberately not an error
		slog.WarnContext(ctx, "Update for unknown transaction", applog.FieldTransactionID, id)
		return core.Transaction{}, nil
	}

	amount, _ := core.AmountFromString(in.Amount)
	tx := core.Transaction{
		ID:          orig.ID,
		Amount:      amount,
		Date:        strings.TrimSpace(in.Date),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   orig.CreatedAt,
	}

	if err := s.store.Update(ctx, tx); err != nil {
		slog.WarnContext(ctx, "Persist failed, edit kept in memory only",
			applog.FieldError, err, applog.FieldTransactionID, tx.ID, applog.FieldOperation, applog.OpUpdate)
	} else {
		slog.InfoContext(ctx, "Transaction updated",
			applog.FieldTransactionID, tx.ID, applog.FieldOperation, applog.OpUpdate)
	}
	return tx, nil
}

// Delete removes the transaction immediately. No confirmation, no undo.
func (s *LedgerService) Delete(ctx context.Context, id string) {
	if err := s.store.Remove(ctx, id); err != nil {
		slog.WarnContext(ctx, "Persist failed, delete kept in memory only",
			applog.FieldError, err, applog.FieldTransactionID, id, applog.FieldOperation, applog.OpDelete)
		return
	}
	slog.InfoContext(ctx, "Transaction deleted", applog.FieldTransactionID, id, applog.FieldOperation, applog.OpDelete)
}

// Find returns the transaction with the given ID, for edit-form prefill.
func (s *LedgerService) Find(id string) (core.Transaction, bool) {
	return s.store.Find(id)
}

// List returns the search-filtered view with its subtotal, preserving
// collection order. An empty term returns everything.
func (s *LedgerService) List(term string) ListView {
	items := core.Search(s.store.All(), term)
	return ListView{Term: term, Items: items, SubtotalAbs: core.SubtotalAbs(items)}
}

// Summary computes the dashboard totals for the current collection and month.
func (s *LedgerService) Summary() Summary {
	now := s.now()
	key := fmt.Sprintf("%d:%s", s.store.Revision(), now.Format("2006-01"))
	if v, ok := s.summaries.Get(key); ok {
		return v
	}

	txs := s.store.All()
	v := Summary{
		TotalAbs: core.TotalAbs(txs),
		MonthAbs: core.CurrentMonthTotalAbs(txs, now),
		Count:    len(txs),
	}
	s.summaries.Set(key, v)
	return v
}

// Chart returns the six-month spending series.
func (s *LedgerService) Chart() []core.MonthBucket {
	key := fmt.Sprintf("%d", s.store.Revision())
	if v, ok := s.charts.Get(key); ok {
		return v
	}

	v := core.MonthlySeries(s.store.All())
	s.charts.Set(key, v)
	return v
}
