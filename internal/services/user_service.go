package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sosnovich/skyward/internal/async"
	"github.com/sosnovich/skyward/internal/cache"
	"github.com/sosnovich/skyward/internal/dto"
	"github.com/sosnovich/skyward/internal/models"
	"github.com/sosnovich/skyward/internal/repository"
	"github.com/sosnovich/skyward/internal/security"
)

// UserService owns the account lifecycle: create, read, partial update and
// delete. Operations are dispatched to the worker pool and observed through
// futures; mutations are wrapped by the concurrency guard.
type UserService struct {
	users  repository.UserRepository
	hasher *security.PasswordHasher
	cache  *cache.UserCache
	pool   *async.Pool
	guard  *ConcurrencyGuard
}

func NewUserService(users repository.UserRepository, hasher *security.PasswordHasher, userCache *cache.UserCache, pool *async.Pool, guard *ConcurrencyGuard) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		cache:  userCache,
		pool:   pool,
		guard:  guard,
	}
}

// CreateUser validates email uniqueness, hashes the password and persists
// the account with the default USER role.
func (s *UserService) CreateUser(ctx context.Context, req *dto.NewUserRequest) *async.Future[*models.User] {
	ctx = context.WithoutCancel(ctx)
	return async.Submit(s.pool, func() (*models.User, error) {
		taken, err := s.users.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOperationFailed, err)
		}
		if taken {
			return nil, fmt.Errorf("email [%s] already in use: %w", req.Email, ErrEmailInUse)
		}

		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to hash password: %w", ErrOperationFailed, err)
		}

		user := &models.User{
			Email:    req.Email,
			Password: hash,
			Name:     req.Name,
			Role:     string(security.RoleUser),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOperationFailed, err)
		}
		slog.Info("user created", "user_id", user.ID, "action", "create_user")
		return user, nil
	})
}

// GetUserByID is a pure read. Absence is (nil, nil), not an error. Hits are
// served from the bounded cache.
func (s *UserService) GetUserByID(ctx context.Context, id uint64) *async.Future[*models.User] {
	if user, ok := s.cache.Get(id); ok {
		return async.Completed(user, nil)
	}
	ctx = context.WithoutCancel(ctx)
	return async.Submit(s.pool, func() (*models.User, error) {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOperationFailed, err)
		}
		if user != nil {
			s.cache.Put(user)
		}
		return user, nil
	})
}

// UpdateUser applies the non-nil fields of the patch onto the stored row,
// re-hashing the password when one is supplied. Returns false when the user
// does not exist. Lock conflicts are retried by the guard.
func (s *UserService) UpdateUser(ctx context.Context, id uint64, patch *dto.UpdateUserRequest) *async.Future[bool] {
	ctx = context.WithoutCancel(ctx)
	return async.Submit(s.pool, func() (bool, error) {
		updated := false
		err := s.guard.Run(ctx, "user", func() error {
			user, err := s.users.FindByID(ctx, id)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrOperationFailed, err)
			}
			if user == nil {
				updated = false
				return nil
			}

			if patch.Email != nil {
				user.Email = *patch.Email
			}
			if patch.Password != nil {
				hash, err := s.hasher.Hash(*patch.Password)
				if err != nil {
					return fmt.Errorf("%w: failed to hash password: %w", ErrOperationFailed, err)
				}
				user.Password = hash
			}
			if patch.Name != nil {
				user.Name = *patch.Name
			}
			if patch.Role != nil {
				user.Role = *patch.Role
			}
			if patch.AccountExpired != nil {
				user.AccountExpired = *patch.AccountExpired
			}
			if patch.AccountLocked != nil {
				user.AccountLocked = *patch.AccountLocked
			}
			if patch.CredentialsExpired != nil {
				user.CredentialsExpired = *patch.CredentialsExpired
			}
			if patch.Disabled != nil {
				user.Disabled = *patch.Disabled
			}

			if err := s.users.UpdateVersioned(ctx, user); err != nil {
				return err
			}
			updated = true
			return nil
		})
		if err != nil {
			return false, err
		}
		if updated {
			s.cache.Invalidate(id)
			slog.Info("user updated", "user_id", id, "action", "update_user")
		}
		return updated, nil
	})
}

// DeleteUser validates existence, then removes the row and its project
// links. Lock conflicts are retried by the guard.
func (s *UserService) DeleteUser(ctx context.Context, id uint64) *async.Future[struct{}] {
	ctx = context.WithoutCancel(ctx)
	return async.Submit(s.pool, func() (struct{}, error) {
		err := s.guard.Run(ctx, "user", func() error {
			user, err := s.users.FindByID(ctx, id)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrOperationFailed, err)
			}
			if user == nil {
				return fmt.Errorf("user not found with ID: %d: %w", id, ErrUserNotFound)
			}
			return s.users.DeleteVersioned(ctx, user)
		})
		if err != nil {
			return struct{}{}, err
		}
		s.cache.Invalidate(id)
		slog.Info("user deleted", "user_id", id, "action", "delete_user")
		return struct{}{}, nil
	})
}
