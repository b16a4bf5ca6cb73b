package repository

import (
	"context"
	"errors"

	"github.com/sosnovich/skyward/internal/models"
)

// ErrOptimisticLock marks a write rejected because the row's version counter
// changed since it was read. It is the only error class the retry policy
// treats as retryable.
var ErrOptimisticLock = errors.New("optimistic lock conflict")

// UserRepository is the persistence boundary for accounts. Lookups return
// (nil, nil) when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByID(ctx context.Context, id uint64) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// UpdateVersioned persists the user only if the stored version still
	// matches user.Version, bumping it on success.
	UpdateVersioned(ctx context.Context, user *models.User) error
	// DeleteVersioned removes the user and all linked projects in one
	// transaction, guarded by the version check.
	DeleteVersioned(ctx context.Context, user *models.User) error
}

// ProjectRepository is the persistence boundary for external-project links.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.ExternalProject) error
	FindByUserID(ctx context.Context, userID uint64) ([]models.ExternalProject, error)
	ExistsByProjectID(ctx context.Context, projectID string) (bool, error)
}
