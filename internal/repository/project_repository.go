package repository

import (
	"context"
	"fmt"

	"github.com/sosnovich/skyward/internal/models"
	"gorm.io/gorm"
)

type GormProjectRepository struct {
	db *gorm.DB
}

func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

func (r *GormProjectRepository) Create(ctx context.Context, project *models.ExternalProject) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project link: %w", err)
	}
	return nil
}

func (r *GormProjectRepository) FindByUserID(ctx context.Context, userID uint64) ([]models.ExternalProject, error) {
	var projects []models.ExternalProject
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("id").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// ExistsByProjectID checks global uniqueness of the external project key.
func (r *GormProjectRepository) ExistsByProjectID(ctx context.Context, projectID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ExternalProject{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check project existence: %w", err)
	}
	return count > 0, nil
}
