package service

import (
	"context"
	"fmt"
	"time"

	"connekt/models"
	"connekt/repository"

	"github.com/go-openapi/swag"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const DefaultJobLimit = 20

type JobInput struct {
	OwnerID     string         `json:"ownerId"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Budget      string         `json:"budget"`
	Type        models.JobType `json:"type"`
	Skills      []string       `json:"skills"`
	Location    string         `json:"location"`
	Timezone    string         `json:"timezone"`
	Language    string         `json:"language"`
}

type AgencyInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MarketService covers job posts and agencies.
type MarketService interface {
	CreateJob(ctx context.Context, input JobInput) (*models.Job, error)
	ListJobs(ctx context.Context, limit int) ([]models.Job, error)
	GetJob(ctx context.Context, jobID string) (*models.Job, error)
	CreateAgency(ctx context.Context, ownerID string, input AgencyInput) (*models.Agency, error)
	GetAgency(ctx context.Context, agencyID string) (*models.Agency, error)
}

type MarketServiceParams struct {
	fx.In

	Market   repository.MarketRepository
	Identity IdentityService
	Logger   *zap.Logger
}

type MarketServiceImpl struct {
	market   repository.MarketRepository
	identity IdentityService
	logger   *zap.Logger
	now      func() time.Time
}

func NewMarketService(p MarketServiceParams) MarketService {
	return &MarketServiceImpl{
		market:   p.Market,
		identity: p.Identity,
		logger:   p.Logger,
		now:      time.Now,
	}
}

func (s *MarketServiceImpl) CreateJob(ctx context.Context, input JobInput) (*models.Job, error) {
	job := &models.Job{
		OwnerID:     input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
		Type:        input.Type,
		Skills:      models.NewStringList(input.Skills),
		Location:    input.Location,
		Timezone:    input.Timezone,
		Language:    input.Language,
		CreatedAt:   s.now(),
	}
	if err := s.market.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

// ListJobs returns the newest jobs, DefaultJobLimit when limit is not positive.
func (s *MarketServiceImpl) ListJobs(ctx context.Context, limit int) ([]models.Job, error) {
	if limit <= 0 {
		limit = DefaultJobLimit
	}
	jobs, err := s.market.ListJobs(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (s *MarketServiceImpl) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	job, err := s.market.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// CreateAgency stores the agency and then points the owner's profile at it.
func (s *MarketServiceImpl) CreateAgency(ctx context.Context, ownerID string, input AgencyInput) (*models.Agency, error) {
	agency := &models.Agency{
		OwnerID:     ownerID,
		Name:        input.Name,
		Description: input.Description,
		Members:     models.StringList{ownerID},
		CreatedAt:   s.now(),
	}
	if err := s.market.CreateAgency(ctx, agency); err != nil {
		return nil, fmt.Errorf("failed to create agency: %w", err)
	}

	role := models.RoleAgency
	err := s.identity.MergeProfile(ctx, ownerID, models.ProfileFields{
		AgencyID: swag.String(agency.ID),
		Role:     &role,
	})
	if err != nil {
		s.logger.Error("agency created but owner profile not updated", zap.String("agency_id", agency.ID), zap.Error(err))
		return nil, err
	}
	return agency, nil
}

func (s *MarketServiceImpl) GetAgency(ctx context.Context, agencyID string) (*models.Agency, error) {
	agency, err := s.market.GetAgency(ctx, agencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get agency: %w", err)
	}
	return agency, nil
}
