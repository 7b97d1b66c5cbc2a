// Package store owns the in-process copy of the RBAC document. Writers are
// serialized by a single mutex around clone, mutate, save and publish;
// readers load the last committed snapshot without locking.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

// Store implements ports.DocumentState on top of a ports.DocumentStore.
type Store struct {
	backend ports.DocumentStore
	log     zerolog.Logger

	mu      sync.Mutex
	current atomic.Pointer[domain.Document]
}

var _ ports.DocumentState = (*Store)(nil)

// Open loads the document from backend. An empty backend yields an empty
// document rather than an error.
func Open(ctx context.Context, backend ports.DocumentStore, log zerolog.Logger) (*Store, error) {
	s := &Store{backend: backend, log: log}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Snapshot returns the last committed document. Callers must not mutate it.
func (s *Store) Snapshot() *domain.Document {
	return s.current.Load()
}

// Update runs fn against a private clone under the write lock. The clone is
// saved and published only when fn returns nil; on any error the committed
// document is left untouched.
func (s *Store) Update(ctx context.Context, fn func(doc *domain.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	working := s.current.Load().Clone()
	if err := fn(working); err != nil {
		return err
	}
	if err := s.backend.Save(ctx, working); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	s.current.Store(working)
	return nil
}

// Reload replaces the snapshot with the backend's current content. It takes
// the write lock so it never interleaves with an Update.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.backend.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.log.Warn().Msg("document store is empty, starting from an empty document")
		doc = &domain.Document{}
	case err != nil:
		return fmt.Errorf("load document: %w", err)
	}
	s.current.Store(doc)
	s.log.Debug().
		Int("users", len(doc.Users)).
		Int("roles", len(doc.Roles)).
		Int("permissions", len(doc.Permissions)).
		Msg("document loaded")
	return nil
}

// Ping reports backend health when the backend supports it.
func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.backend.(ports.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
