package main

import (
	"context"
	"fmt"
	"os"

	"connekt/models"
	"connekt/service"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Fixtures is the bootstrap data written by connekt-seed.
type Fixtures struct {
	Invites    []models.AdminInvite `yaml:"invites"`
	Workspaces []models.Workspace   `yaml:"workspaces"`
}

func loadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}

	var fixtures Fixtures
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &fixtures, nil
}

// applyFixtures upserts every fixture. Invites already consumed stay consumed.
func applyFixtures(ctx context.Context, fixtures *Fixtures, invites service.InviteService, workspaces service.WorkspaceService, logger *zap.Logger) error {
	for _, invite := range fixtures.Invites {
		if err := invites.CreateInvite(ctx, invite); err != nil {
			return fmt.Errorf("invite %q: %w", invite.Code, err)
		}
		logger.Info("seeded admin invite", zap.String("code", invite.Code), zap.String("role", invite.Role))
	}

	for _, workspace := range fixtures.Workspaces {
		if err := workspaces.SaveWorkspace(ctx, workspace); err != nil {
			return fmt.Errorf("workspace %q: %w", workspace.ID, err)
		}
		logger.Info("seeded workspace", zap.String("id", workspace.ID), zap.String("plan", string(workspace.Plan)))
	}
	return nil
}
