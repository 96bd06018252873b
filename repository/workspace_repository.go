package repository

import (
	"context"

	"connekt/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *models.Workspace) error
	Save(ctx context.Context, workspace *models.Workspace) error
	GetByID(ctx context.Context, workspaceID string) (*models.Workspace, error)
}

type WorkspaceRepositoryImpl struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &WorkspaceRepositoryImpl{db: db}
}

func (r *WorkspaceRepositoryImpl) Create(ctx context.Context, workspace *models.Workspace) error {
	return r.db.WithContext(ctx).Create(workspace).Error
}

// Save upserts a workspace with a caller-chosen ID.
func (r *WorkspaceRepositoryImpl) Save(ctx context.Context, workspace *models.Workspace) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner_id", "name", "plan", "members"}),
	}).Create(workspace).Error
}

func (r *WorkspaceRepositoryImpl) GetByID(ctx context.Context, workspaceID string) (*models.Workspace, error) {
	var workspace models.Workspace
	return firstOrNil(r.db.WithContext(ctx).Where("id = ?", workspaceID).First(&workspace), &workspace)
}
