// Package memory is a process-local SecretStore, used when no platform
// keychain is wanted and in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/entityauth/entitykit/internal/domain"
	"github.com/entityauth/entitykit/internal/ports"
)

type Store struct {
	mu       sync.RWMutex
	values   map[string]string
	failures map[failureKey]error
}

type failureKey struct {
	op  string
	key string
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		values:   map[string]string{},
		failures: map[failureKey]error{},
	}
}

// FailOn makes every later op ("get", "put" or "delete") on key return err.
// A nil err clears the failure.
func (s *Store) FailOn(op string, key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		delete(s.failures, failureKey{op: op, key: key})
		return
	}
	s.failures[failureKey{op: op, key: key}] = err
}

// Len returns how many secrets are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.values)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.failures[failureKey{op: "get", key: key}]; err != nil {
		return "", err
	}

	value, ok := s.values[key]
	if !ok {
		return "", fmt.Errorf("memory secret %q: %w", key, domain.ErrSecretNotFound)
	}

	return value, nil
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failures[failureKey{op: "put", key: key}]; err != nil {
		return err
	}

	s.values[key] = value
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failures[failureKey{op: "delete", key: key}]; err != nil {
		return err
	}

	delete(s.values, key)
	return nil
}
