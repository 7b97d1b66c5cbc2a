package ports

import (
	"context"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
)

// DocumentStore is the persistence collaborator. It only ever loads and saves
// the whole document; partial writes are never issued. Load returns an error
// wrapping domain.ErrNotFound when nothing has been stored yet.
type DocumentStore interface {
	Load(ctx context.Context) (*domain.Document, error)
	Save(ctx context.Context, doc *domain.Document) error
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DocumentState is the in-process view of the document. Snapshot returns the
// last committed document, which callers must treat as read-only. Update runs
// fn against a private copy under the process-wide write lock and commits the
// copy only when fn and the backend save both succeed.
type DocumentState interface {
	Snapshot() *domain.Document
	Update(ctx context.Context, fn func(doc *domain.Document) error) error
}
