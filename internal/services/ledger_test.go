package services

import (
	"context"
	"testing"
	"time"

	"spendlog/internal/core"
	"spendlog/internal/store"
	"spendlog/internal/store/memorykv"
)

func newTestLedger(t *testing.T) *LedgerService {
	t.Helper()
	st := store.New(memorykv.New())
	st.Load(context.Background())
	s := NewLedgerService(st)
	s.now = func() time.Time { return time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC) }
	t.Cleanup(s.Close)
	return s
}

func TestAddAssignsIdentity(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	tx, errs := s.Add(ctx, core.TransactionInput{Amount: "45.50", Date: "2024-01-15", Description: "Groceries"})
	if !errs.Valid() {
		t.Fatalf("unexpected field errors: %v", errs)
	}
	if tx.ID == "" {
		t.Fatalf("missing id")
	}
	if tx.CreatedAt != "2024-06-15T10:30:00Z" {
		t.Fatalf("createdAt = %q", tx.CreatedAt)
	}

	view := s.List("")
	if len(view.Items) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(view.Items))
	}
	if !view.SubtotalAbs.Equal(core.AmountFromFloat(45.50)) {
		t.Fatalf("subtotal = %s", view.SubtotalAbs)
	}
	if got := core.FormatCurrency(view.Items[0].Amount); got != "$45.50" {
		t.Fatalf("formatted amount = %q", got)
	}

	sum := s.Summary()
	if sum.Count != 1 || !sum.TotalAbs.Equal(core.AmountFromFloat(45.50)) {
		t.Fatalf("summary = %+v", sum)
	}
}

func TestAddUniqueIDs(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		tx, errs := s.Add(ctx, core.TransactionInput{Amount: "1", Date: "2024-01-15", Description: "abc"})
		if !errs.Valid() {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if seen[tx.ID] {
			t.Fatalf("duplicate id %q", tx.ID)
		}
		seen[tx.ID] = true
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	_, errs := s.Add(ctx, core.TransactionInput{Amount: "0", Date: "2024-06-16", Description: "ab"})
	if errs.Valid() {
		t.Fatalf("expected field errors")
	}
	for _, field := range []string{"amount", "date", "description"} {
		if errs[field] == "" {
			t.Fatalf("missing error for %q: %v", field, errs)
		}
	}
	if len(s.List("").Items) != 0 {
		t.Fatalf("invalid input must not mutate the store")
	}
}

func TestUpdatePreservesIdentityAndPosition(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	first, _ := s.Add(ctx, core.TransactionInput{Amount: "1", Date: "2024-01-01", Description: "first"})
	second, _ := s.Add(ctx, core.TransactionInput{Amount: "2", Date: "2024-01-02", Description: "second"})

	updated, errs := s.Update(ctx, first.ID, core.TransactionInput{Amount: "1", Date: "2024-01-01", Description: "first, edited"})
	if !errs.Valid() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if updated.ID != first.ID || updated.CreatedAt != first.CreatedAt {
		t.Fatalf("identity changed: %+v", updated)
	}

	items := s.List("").Items
	if len(items) != 2 {
		t.Fatalf("length changed: %d", len(items))
	}
	// first was inserted first, so it sits last; edits keep position
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Fatalf("position changed: %v, %v", items[0].ID, items[1].ID)
	}
	if items[1].Description != "first, edited" {
		t.Fatalf("description not updated: %q", items[1].Description)
	}
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()
	s.Add(ctx, core.TransactionInput{Amount: "1", Date: "2024-01-01", Description: "only"})

	tx, errs := s.Update(ctx, "ghost", core.TransactionInput{Amount: "9", Date: "2024-01-02", Description: "nope"})
	if !errs.Valid() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if tx.ID != "" {
		t.Fatalf("expected zero transaction, got %+v", tx)
	}
	items := s.List("").Items
	if len(items) != 1 || items[0].Description != "only" {
		t.Fatalf("collection changed: %+v", items)
	}
}

func TestDelete(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()
	tx, _ := s.Add(ctx, core.TransactionInput{Amount: "1", Date: "2024-01-01", Description: "gone"})

	s.Delete(ctx, tx.ID)
	if len(s.List("").Items) != 0 {
		t.Fatalf("expected empty collection after delete")
	}

	s.Delete(ctx, "ghost") // must not panic or error
}

func TestListSearch(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()
	s.Add(ctx, core.TransactionInput{Amount: "10", Date: "2024-01-01", Description: "Groceries"})
	s.Add(ctx, core.TransactionInput{Amount: "-20", Date: "2024-01-02", Description: "Gas"})
	s.Add(ctx, core.TransactionInput{Amount: "30", Date: "2024-01-03", Description: "More groceries"})

	view := s.List("groceries")
	if len(view.Items) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(view.Items))
	}
	if !view.SubtotalAbs.Equal(core.AmountFromFloat(40)) {
		t.Fatalf("subtotal = %s", view.SubtotalAbs)
	}
}

func TestSummaryAndChartEmpty(t *testing.T) {
	s := newTestLedger(t)
	sum := s.Summary()
	if sum.Count != 0 || !sum.TotalAbs.IsZero() || !sum.MonthAbs.IsZero() {
		t.Fatalf("empty summary = %+v", sum)
	}
	if chart := s.Chart(); len(chart) != 0 {
		t.Fatalf("empty chart = %+v", chart)
	}
}

func TestSummaryTracksMutations(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	s.Add(ctx, core.TransactionInput{Amount: "10", Date: "2024-06-01", Description: "this month"})
	s.Summary() // warm the cache
	s.Add(ctx, core.TransactionInput{Amount: "5", Date: "2024-05-01", Description: "last month"})

	sum := s.Summary()
	if sum.Count != 2 {
		t.Fatalf("count = %d, want 2", sum.Count)
	}
	if !sum.MonthAbs.Equal(core.AmountFromFloat(10)) {
		t.Fatalf("month total = %s, want 10", sum.MonthAbs)
	}

	chart := s.Chart()
	if len(chart) != 2 || chart[0].Key != "2024-05" || chart[1].Key != "2024-06" {
		t.Fatalf("chart = %+v", chart)
	}
}
