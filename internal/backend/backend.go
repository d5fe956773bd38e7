// Package backend selects and constructs the persistence backend the
// transaction store writes through.
package backend

import (
	"fmt"

	applog "spendlog/internal/log"
	"spendlog/internal/store"
	"spendlog/internal/store/memorykv"
	"spendlog/internal/store/sqlitekv"
)

// Type names a persistence backend.
type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
)

func (t Type) IsValid() bool {
	return t == Memory || t == SQLite
}

// Config carries what a backend needs to start.
type Config struct {
	Type         Type
	SQLiteDBPath string
}

// Result is a ready backend plus its optional cleanup.
type Result struct {
	KV      store.KV
	Cleanup func() error
}

// New constructs the configured KV backend.
func New(cfg Config, logger *applog.Logger) (*Result, error) {
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case SQLite:
		kv, err := sqlitekv.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized SQLite backend", applog.FieldBackend, string(SQLite), "db_path", cfg.SQLiteDBPath)
		return &Result{KV: kv, Cleanup: kv.Close}, nil
	default:
		logger.Info("Initialized memory backend", applog.FieldBackend, string(Memory))
		return &Result{KV: memorykv.New()}, nil
	}
}
