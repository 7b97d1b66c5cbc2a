// Package memory provides process-local backends used when no external
// store is configured and in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
)

// DocumentStore keeps a private copy of the last saved document.
type DocumentStore struct {
	mu  sync.RWMutex
	doc *domain.Document
}

var _ ports.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore returns a store seeded with a copy of initial, which may
// be nil.
func NewDocumentStore(initial *domain.Document) *DocumentStore {
	s := &DocumentStore{}
	if initial != nil {
		s.doc = initial.Clone()
	}
	return s
}

func (s *DocumentStore) Load(_ context.Context) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, fmt.Errorf("memory store: %w", domain.ErrNotFound)
	}
	return s.doc.Clone(), nil
}

func (s *DocumentStore) Save(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc.Clone()
	return nil
}
