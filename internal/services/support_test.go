package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sosnovich/skyward/internal/async"
	"github.com/sosnovich/skyward/internal/cache"
	"github.com/sosnovich/skyward/internal/models"
	"github.com/sosnovich/skyward/internal/repository"
	"github.com/sosnovich/skyward/internal/security"
)

// --- fakes over the repository interfaces ---

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint64]*models.User
	nextID uint64

	// conflictsLeft injects optimistic-lock failures into versioned writes
	conflictsLeft int
	// failWith injects an infrastructure error into every call
	failWith error

	updateCalls int
	deleteCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint64]*models.User)}
}

func (f *fakeUserRepo) add(u *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == 0 {
		f.nextID++
		u.ID = f.nextID
	} else if u.ID > f.nextID {
		f.nextID = u.ID
	}
	cp := *u
	f.users[u.ID] = &cp
	return u
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.add(u)
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint64) (*models.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	u, err := f.FindByID(ctx, id)
	return u != nil, err
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := f.FindByEmail(ctx, email)
	return u != nil, err
}

func (f *fakeUserRepo) UpdateVersioned(_ context.Context, u *models.User) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return repository.ErrOptimisticLock
	}
	stored, ok := f.users[u.ID]
	if !ok || stored.Version != u.Version {
		return repository.ErrOptimisticLock
	}
	u.Version++
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) DeleteVersioned(_ context.Context, u *models.User) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return repository.ErrOptimisticLock
	}
	stored, ok := f.users[u.ID]
	if !ok || stored.Version != u.Version {
		return repository.ErrOptimisticLock
	}
	delete(f.users, u.ID)
	return nil
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects []models.ExternalProject
	nextID   uint64
	failWith error
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{}
}

func (f *fakeProjectRepo) Create(_ context.Context, p *models.ExternalProject) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = f.nextID
	f.projects = append(f.projects, *p)
	return nil
}

func (f *fakeProjectRepo) FindByUserID(_ context.Context, userID uint64) ([]models.ExternalProject, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ExternalProject
	for _, p := range f.projects {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) ExistsByProjectID(_ context.Context, projectID string) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.projects {
		if p.ProjectID == projectID {
			return true, nil
		}
	}
	return false, nil
}

// --- shared wiring helpers ---

func newTestPool(t *testing.T) *async.Pool {
	t.Helper()
	pool := async.NewPool(2, 8)
	t.Cleanup(pool.Stop)
	return pool
}

func newTestGuard() *ConcurrencyGuard {
	return NewConcurrencyGuard(2, time.Millisecond)
}

func newTestUserService(t *testing.T, users repository.UserRepository) *UserService {
	t.Helper()
	return NewUserService(users, security.NewPasswordHasher(), cache.NewUserCache(16), newTestPool(t), newTestGuard())
}
