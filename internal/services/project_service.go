package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sosnovich/skyward/internal/async"
	"github.com/sosnovich/skyward/internal/dto"
	"github.com/sosnovich/skyward/internal/models"
	"github.com/sosnovich/skyward/internal/repository"
)

// ProjectService owns external-project links. A project id may be linked to
// at most one account across the whole store.
type ProjectService struct {
	users    repository.UserRepository
	projects repository.ProjectRepository
	pool     *async.Pool
	guard    *ConcurrencyGuard
}

func NewProjectService(users repository.UserRepository, projects repository.ProjectRepository, pool *async.Pool, guard *ConcurrencyGuard) *ProjectService {
	return &ProjectService{
		users:    users,
		projects: projects,
		pool:     pool,
		guard:    guard,
	}
}

// AssignProject links an external project to the user after validating the
// user exists and the project id is not linked anywhere yet.
func (s *ProjectService) AssignProject(ctx context.Context, userID uint64, req *dto.NewProjectRequest) *async.Future[*models.ExternalProject] {
	ctx = context.WithoutCancel(ctx)
	return async.Submit(s.pool, func() (*models.ExternalProject, error) {
		exists, err := s.users.ExistsByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOperationFailed, err)
		}
		if !exists {
			return nil, fmt.Errorf("user not found with ID: %d: %w", userID, ErrUserNotFound)
		}

		taken, err := s.projects.ExistsByProjectID(ctx, req.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOperationFailed, err)
		}
		if taken {
			return nil, fmt.Errorf("project already exists: %s: %w", req.ProjectID, ErrProjectExists)
		}

		project := &models.ExternalProject{
			ProjectID: req.ProjectID,
			UserID:    userID,
			Name:      req.Name,
		}
		err = s.guard.Run(ctx, "project", func() error {
			return s.projects.Create(ctx, project)
		})
		if err != nil {
			return nil, err
		}
		slog.Info("project assigned", "user_id", userID, "project_id", req.ProjectID, "action", "assign_project")
		return project, nil
	})
}

// ProjectsByUserID validates the user exists and returns all linked projects.
func (s *ProjectService) ProjectsByUserID(ctx context.Context, userID uint64) *async.Future[[]models.ExternalProject] {
	ctx = context.WithoutCancel(ctx)
	return async.Submit(s.pool, func() ([]models.ExternalProject, error) {
		exists, err := s.users.ExistsByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOperationFailed, err)
		}
		if !exists {
			return nil, fmt.Errorf("user not found with ID: %d: %w", userID, ErrUserNotFound)
		}
		return s.projects.FindByUserID(ctx, userID)
	})
}
