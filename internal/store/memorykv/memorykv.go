// Package memorykv is the in-process KV backend: the default for local runs
// and the test double for everything above the persistence port.
package memorykv

import (
	"context"
	"sync"
)

type Store struct {
	mu     sync.Mutex
	values map[string][]byte
}

func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}
