package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"connekt/internal/taskgen"
	"connekt/models"
	"connekt/repository"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type WorkspaceInput struct {
	OwnerID string               `json:"ownerId"`
	Name    string               `json:"name"`
	Plan    models.WorkspacePlan `json:"plan"`
	Members []string             `json:"members"`
}

type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, input WorkspaceInput) (*models.Workspace, error)
	SaveWorkspace(ctx context.Context, workspace models.Workspace) error
	GetWorkspace(ctx context.Context, workspaceID string) (*models.Workspace, error)
	GenerateProjectTasks(ctx context.Context, description string, opts taskgen.Options, workspaceID string) ([]taskgen.Task, error)
}

type WorkspaceServiceParams struct {
	fx.In

	Workspaces repository.WorkspaceRepository
	Generator  taskgen.Generator
	Logger     *zap.Logger
}

type WorkspaceServiceImpl struct {
	workspaces repository.WorkspaceRepository
	generator  taskgen.Generator
	logger     *zap.Logger
}

func NewWorkspaceService(p WorkspaceServiceParams) WorkspaceService {
	return &WorkspaceServiceImpl{
		workspaces: p.Workspaces,
		generator:  p.Generator,
		logger:     p.Logger,
	}
}

func (s *WorkspaceServiceImpl) CreateWorkspace(ctx context.Context, input WorkspaceInput) (*models.Workspace, error) {
	plan := input.Plan
	if plan == "" {
		plan = models.WorkspacePlanFree
	}
	members := models.NewStringList(input.Members)
	if !slices.Contains(members, input.OwnerID) {
		members = append(models.StringList{input.OwnerID}, members...)
	}

	workspace := &models.Workspace{
		OwnerID: input.OwnerID,
		Name:    input.Name,
		Plan:    plan,
		Members: members,
	}
	if err := s.workspaces.Create(ctx, workspace); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return workspace, nil
}

// SaveWorkspace upserts a workspace keyed by its own ID.
func (s *WorkspaceServiceImpl) SaveWorkspace(ctx context.Context, workspace models.Workspace) error {
	if workspace.ID == "" {
		return Invalid("workspace id is required")
	}
	if workspace.Plan == "" {
		workspace.Plan = models.WorkspacePlanFree
	}
	workspace.Members = models.NewStringList(workspace.Members)
	if err := s.workspaces.Save(ctx, &workspace); err != nil {
		return fmt.Errorf("failed to save workspace: %w", err)
	}
	return nil
}

func (s *WorkspaceServiceImpl) GetWorkspace(ctx context.Context, workspaceID string) (*models.Workspace, error) {
	workspace, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return workspace, nil
}

// GenerateProjectTasks is only available to workspaces on the pro plan.
func (s *WorkspaceServiceImpl) GenerateProjectTasks(ctx context.Context, description string, opts taskgen.Options, workspaceID string) ([]taskgen.Task, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrDescriptionRequired
	}
	if workspaceID == "" {
		return nil, ErrWorkspaceRequired
	}

	workspace, err := s.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrWorkspaceNotFound
	}
	if workspace.Plan != models.WorkspacePlanPro {
		return nil, ErrProPlanRequired
	}

	tasks, err := s.generator.Generate(ctx, description, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}
	s.logger.Debug("generated project tasks", zap.String("workspace_id", workspaceID), zap.Int("count", len(tasks)))
	return tasks, nil
}
