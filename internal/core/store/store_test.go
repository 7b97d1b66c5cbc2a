package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbac-admin/rbac-api/internal/core/domain"
)

type stubBackend struct {
	mu      sync.Mutex
	doc     *domain.Document
	saves   int
	saveErr error
	loadErr error
}

func (b *stubBackend) Load(context.Context) (*domain.Document, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return b.doc.Clone(), nil
}

func (b *stubBackend) Save(_ context.Context, doc *domain.Document) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.saveErr != nil {
		return b.saveErr
	}
	b.saves++
	b.doc = doc.Clone()
	return nil
}

func seeded() *stubBackend {
	return &stubBackend{doc: &domain.Document{
		Roles: []domain.Role{{ID: 1, Name: "Admin", Priority: 1}},
		Users: []domain.User{{ID: 1, Username: "admin", RoleID: 1, IsActive: true}},
	}}
}

func TestOpen_EmptyBackend(t *testing.T) {
	s, err := Open(context.Background(), &stubBackend{loadErr: domain.ErrNotFound}, zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, s.Snapshot().Users)
}

func TestOpen_LoadFailure(t *testing.T) {
	_, err := Open(context.Background(), &stubBackend{loadErr: errors.New("disk gone")}, zerolog.Nop())
	assert.Error(t, err)
}

func TestUpdate_CommitsOnSuccess(t *testing.T) {
	backend := seeded()
	s, err := Open(context.Background(), backend, zerolog.Nop())
	require.NoError(t, err)

	before := s.Snapshot()
	err = s.Update(context.Background(), func(doc *domain.Document) error {
		doc.Users[0].FullName = "Changed"
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "", before.Users[0].FullName, "old snapshot must not be mutated")
	assert.Equal(t, "Changed", s.Snapshot().Users[0].FullName)
	assert.Equal(t, 1, backend.saves)
}

func TestUpdate_RuleFailureLeavesDocumentUntouched(t *testing.T) {
	backend := seeded()
	s, err := Open(context.Background(), backend, zerolog.Nop())
	require.NoError(t, err)

	denied := domain.Deny(domain.ErrForbidden, domain.RuleHierarchy, "no")
	err = s.Update(context.Background(), func(doc *domain.Document) error {
		doc.Users = nil
		return denied
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Len(t, s.Snapshot().Users, 1)
	assert.Equal(t, 0, backend.saves)
}

func TestUpdate_SaveFailureDoesNotPublish(t *testing.T) {
	backend := seeded()
	s, err := Open(context.Background(), backend, zerolog.Nop())
	require.NoError(t, err)

	backend.saveErr = errors.New("read-only filesystem")
	err = s.Update(context.Background(), func(doc *domain.Document) error {
		doc.Users = append(doc.Users, domain.User{ID: 2, Username: "x"})
		return nil
	})
	assert.Error(t, err)
	assert.Len(t, s.Snapshot().Users, 1)
}

func TestUpdate_ConcurrentCreatesNeverDuplicateIDs(t *testing.T) {
	s, err := Open(context.Background(), seeded(), zerolog.Nop())
	require.NoError(t, err)

	const writers = 50
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_ = s.Update(context.Background(), func(doc *domain.Document) error {
				doc.Users = append(doc.Users, domain.User{ID: doc.NextUserID(), RoleID: 1})
				return nil
			})
		}()
	}
	wg.Wait()

	users := s.Snapshot().Users
	require.Len(t, users, writers+1)
	seen := make(map[int64]bool, len(users))
	for _, u := range users {
		assert.False(t, seen[u.ID], "duplicate id %d", u.ID)
		seen[u.ID] = true
	}
}

func TestReload_PicksUpExternalEdits(t *testing.T) {
	backend := seeded()
	s, err := Open(context.Background(), backend, zerolog.Nop())
	require.NoError(t, err)

	backend.doc.Users = append(backend.doc.Users, domain.User{ID: 9, Username: "edited"})
	require.NoError(t, s.Reload(context.Background()))
	_, found := s.Snapshot().FindUser(9)
	assert.True(t, found)
}
