package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"connekt/models"
	"connekt/repository"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ProjectInput struct {
	OwnerID     string               `json:"ownerId"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Budget      float64              `json:"budget"`
	Deadline    string               `json:"deadline"`
	Status      models.ProjectStatus `json:"status"`
}

type TaskInput struct {
	ProjectID     string              `json:"projectId"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Status        models.TaskStatus   `json:"status"`
	Priority      models.TaskPriority `json:"priority"`
	AssigneeID    string              `json:"assigneeId"`
	Value         *float64            `json:"value,omitempty"`
	ProofRequired bool                `json:"proofRequired"`
	Reassignable  bool                `json:"reassignable"`
}

type ProjectService interface {
	CreateProject(ctx context.Context, input ProjectInput) (*models.Project, error)
	ListProjects(ctx context.Context, ownerID string) ([]models.Project, error)
	GetProject(ctx context.Context, projectID string) (*models.Project, error)
	ProjectStats(ctx context.Context, ownerID string) (models.ProjectStats, error)

	CreateTask(ctx context.Context, input TaskInput) (*models.Task, error)
	ListTasks(ctx context.Context, projectID string) ([]models.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID string, status models.TaskStatus) error
	DeleteTask(ctx context.Context, taskID string) error
}

type ProjectServiceParams struct {
	fx.In

	Projects repository.ProjectRepository
	Tasks    repository.TaskRepository
	Logger   *zap.Logger
}

type ProjectServiceImpl struct {
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewProjectService(p ProjectServiceParams) ProjectService {
	return &ProjectServiceImpl{
		projects: p.Projects,
		tasks:    p.Tasks,
		logger:   p.Logger,
		now:      time.Now,
	}
}

func (s *ProjectServiceImpl) CreateProject(ctx context.Context, input ProjectInput) (*models.Project, error) {
	status := input.Status
	if status == "" {
		status = models.ProjectStatusActive
	}
	project := &models.Project{
		OwnerID:     input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
		Deadline:    input.Deadline,
		Status:      status,
		CreatedAt:   s.now(),
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	s.logger.Debug("created project", zap.String("project_id", project.ID), zap.String("owner_id", project.OwnerID))
	return project, nil
}

func (s *ProjectServiceImpl) ListProjects(ctx context.Context, ownerID string) ([]models.Project, error) {
	projects, err := s.projects.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectServiceImpl) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// ProjectStats counts the owner's projects by status in memory.
func (s *ProjectServiceImpl) ProjectStats(ctx context.Context, ownerID string) (models.ProjectStats, error) {
	projects, err := s.ListProjects(ctx, ownerID)
	if err != nil {
		return models.ProjectStats{}, err
	}
	return CountProjects(projects), nil
}

// CountProjects partitions projects into completed, running (active) and
// pending (on-hold).
func CountProjects(projects []models.Project) models.ProjectStats {
	stats := models.ProjectStats{Total: len(projects)}
	for _, p := range projects {
		switch p.Status {
		case models.ProjectStatusCompleted:
			stats.Completed++
		case models.ProjectStatusActive:
			stats.Running++
		case models.ProjectStatusOnHold:
			stats.Pending++
		}
	}
	return stats
}

func (s *ProjectServiceImpl) CreateTask(ctx context.Context, input TaskInput) (*models.Task, error) {
	task := &models.Task{
		ProjectID:     input.ProjectID,
		Title:         input.Title,
		Description:   input.Description,
		Status:        input.Status,
		Priority:      input.Priority,
		AssigneeID:    input.AssigneeID,
		Value:         input.Value,
		ProofRequired: input.ProofRequired,
		Reassignable:  input.Reassignable,
		CreatedAt:     s.now(),
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (s *ProjectServiceImpl) ListTasks(ctx context.Context, projectID string) ([]models.Task, error) {
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTaskStatus writes any status; transitions are not checked.
func (s *ProjectServiceImpl) UpdateTaskStatus(ctx context.Context, taskID string, status models.TaskStatus) error {
	err := s.tasks.Update(ctx, taskID, map[string]any{"status": status})
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTaskNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	return nil
}

func (s *ProjectServiceImpl) DeleteTask(ctx context.Context, taskID string) error {
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
