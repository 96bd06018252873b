package repository

import (
	"context"

	"connekt/models"

	"gorm.io/gorm"
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	ListByProject(ctx context.Context, projectID string) ([]models.Task, error)
	GetByID(ctx context.Context, taskID string) (*models.Task, error)
	Update(ctx context.Context, taskID string, fields map[string]any) error
	Delete(ctx context.Context, taskID string) error

	CreateProof(ctx context.Context, proof *models.TaskProof) error
	ListProofs(ctx context.Context, taskID string) ([]models.TaskProof, error)
	GetProof(ctx context.Context, taskID string, proofID string) (*models.TaskProof, error)
	UpdateProof(ctx context.Context, taskID string, proofID string, fields map[string]any) error

	AppendReassignment(ctx context.Context, entry *models.TaskReassignment) error
	ListReassignments(ctx context.Context, taskID string) ([]models.TaskReassignment, error)
}

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepositoryImpl) ListByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	var tasks []models.Task
	result := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at desc").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, taskID string) (*models.Task, error) {
	var task models.Task
	return firstOrNil(r.db.WithContext(ctx).Where("id = ?", taskID).First(&task), &task)
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, taskID string, fields map[string]any) error {
	return affected(r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", taskID).Updates(fields))
}

// Delete removes the task row only. Proofs and reassignment entries are kept.
func (r *TaskRepositoryImpl) Delete(ctx context.Context, taskID string) error {
	return r.db.WithContext(ctx).Where("id = ?", taskID).Delete(&models.Task{}).Error
}

func (r *TaskRepositoryImpl) CreateProof(ctx context.Context, proof *models.TaskProof) error {
	return r.db.WithContext(ctx).Create(proof).Error
}

func (r *TaskRepositoryImpl) ListProofs(ctx context.Context, taskID string) ([]models.TaskProof, error) {
	var proofs []models.TaskProof
	result := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("submitted_at desc").Find(&proofs)
	if result.Error != nil {
		return nil, result.Error
	}
	return proofs, nil
}

func (r *TaskRepositoryImpl) GetProof(ctx context.Context, taskID string, proofID string) (*models.TaskProof, error) {
	var proof models.TaskProof
	return firstOrNil(r.db.WithContext(ctx).Where("task_id = ? AND id = ?", taskID, proofID).First(&proof), &proof)
}

func (r *TaskRepositoryImpl) UpdateProof(ctx context.Context, taskID string, proofID string, fields map[string]any) error {
	return affected(r.db.WithContext(ctx).Model(&models.TaskProof{}).
		Where("task_id = ? AND id = ?", taskID, proofID).Updates(fields))
}

func (r *TaskRepositoryImpl) AppendReassignment(ctx context.Context, entry *models.TaskReassignment) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *TaskRepositoryImpl) ListReassignments(ctx context.Context, taskID string) ([]models.TaskReassignment, error) {
	var entries []models.TaskReassignment
	result := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("performed_at asc").Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}
