package repository

import (
	"context"

	"connekt/models"

	"gorm.io/gorm"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Project, error)
	GetByID(ctx context.Context, projectID string) (*models.Project, error)
	Update(ctx context.Context, projectID string, fields map[string]any) error
}

type ProjectRepositoryImpl struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &ProjectRepositoryImpl{db: db}
}

func (r *ProjectRepositoryImpl) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepositoryImpl) ListByOwner(ctx context.Context, ownerID string) ([]models.Project, error) {
	var projects []models.Project
	result := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at desc").Find(&projects)
	if result.Error != nil {
		return nil, result.Error
	}
	return projects, nil
}

func (r *ProjectRepositoryImpl) GetByID(ctx context.Context, projectID string) (*models.Project, error) {
	var project models.Project
	return firstOrNil(r.db.WithContext(ctx).Where("id = ?", projectID).First(&project), &project)
}

func (r *ProjectRepositoryImpl) Update(ctx context.Context, projectID string, fields map[string]any) error {
	return affected(r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", projectID).Updates(fields))
}
