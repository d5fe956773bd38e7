package sqlitekv

import (
	"context"
	"path/filepath"
	"testing"
)

func TestPutGetOverwrite(t *testing.T) {
	ctx := context.Background()
	s, err := New(filepath.Join(t.TempDir(), "spendlog.db"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer s.Close()

	if _, ok, err := s.Get(ctx, "transactions"); err != nil || ok {
		t.Fatalf("expected absent key, ok=%v err=%v", ok, err)
	}

	if err := s.Put(ctx, "transactions", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	v, ok, err := s.Get(ctx, "transactions")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(v) != `[{"id":"a"}]` {
		t.Fatalf("value = %s", v)
	}

	// last write wins
	if err := s.Put(ctx, "transactions", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, _, _ = s.Get(ctx, "transactions")
	if string(v) != `[]` {
		t.Fatalf("overwritten value = %s", v)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "spendlog.db")

	s, err := New(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Put(ctx, "transactions", []byte(`[1]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	s.Close()

	s2, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	v, ok, err := s2.Get(ctx, "transactions")
	if err != nil || !ok || string(v) != `[1]` {
		t.Fatalf("reopen get: %s ok=%v err=%v", v, ok, err)
	}
}
