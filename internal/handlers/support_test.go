package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sosnovich/skyward/internal/async"
	"github.com/sosnovich/skyward/internal/cache"
	"github.com/sosnovich/skyward/internal/handlers"
	"github.com/sosnovich/skyward/internal/middleware"
	"github.com/sosnovich/skyward/internal/models"
	"github.com/sosnovich/skyward/internal/repository"
	"github.com/sosnovich/skyward/internal/routes"
	"github.com/sosnovich/skyward/internal/security"
	"github.com/sosnovich/skyward/internal/services"
	"github.com/stretchr/testify/require"
)

const testSecret = "dGhpcy1pcy1hLXRlc3Qtc2lnbmluZy1zZWNyZXQtMzItYnl0ZQ==" // base64

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint64]*models.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint64]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint64) (*models.User, error) {
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
	f.mu.Lock()
	defer f.mu.Unlock()
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
	f.mu.Lock()
	defer f.mu.Unlock()
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
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{}
}

func (f *fakeProjectRepo) Create(_ context.Context, p *models.ExternalProject) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = f.nextID
	f.projects = append(f.projects, *p)
	return nil
}

func (f *fakeProjectRepo) FindByUserID(_ context.Context, userID uint64) ([]models.ExternalProject, error) {
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
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.projects {
		if p.ProjectID == projectID {
			return true, nil
		}
	}
	return false, nil
}

// fixture wires the full HTTP surface over in-memory repositories.
type fixture struct {
	app      *fiber.App
	codec    *security.TokenCodec
	hasher   *security.PasswordHasher
	users    *fakeUserRepo
	projects *fakeProjectRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	codec, err := security.NewTokenCodec(testSecret, time.Hour)
	require.NoError(t, err)

	users := newFakeUserRepo()
	projects := newFakeProjectRepo()
	hasher := security.NewPasswordHasher()

	pool := async.NewPool(2, 8)
	t.Cleanup(pool.Stop)
	guard := services.NewConcurrencyGuard(2, time.Millisecond)

	userService := services.NewUserService(users, hasher, cache.NewUserCache(16), pool, guard)
	projectService := services.NewProjectService(users, projects, pool, guard)
	authService := services.NewAuthService(users, hasher, codec)

	app := fiber.New()
	routes.Setup(app,
		handlers.NewAuthHandler(authService),
		handlers.NewUserHandler(userService, projectService),
		handlers.NewHealthHandler(),
		middleware.AuthGate(codec, users),
	)

	return &fixture{app: app, codec: codec, hasher: hasher, users: users, projects: projects}
}

// seed stores an account directly in the repository, bypassing the API.
func (f *fixture) seed(t *testing.T, email, password, role string) *models.User {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	u := &models.User{Email: email, Password: hash, Name: "Seeded", Role: role}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) token(t *testing.T, u *models.User) string {
	t.Helper()
	role, ok := security.ParseRole(u.Role)
	require.True(t, ok)
	token, err := f.codec.Sign(u.Email, u.ID, role)
	require.NoError(t, err)
	return token
}

func (f *fixture) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (f *fixture) doRaw(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}
