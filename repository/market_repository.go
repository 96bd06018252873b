package repository

import (
	"context"

	"connekt/models"

	"gorm.io/gorm"
)

// MarketRepository covers the marketplace collections: jobs, agencies and transactions.
type MarketRepository interface {
	CreateJob(ctx context.Context, job *models.Job) error
	ListJobs(ctx context.Context, limit int) ([]models.Job, error)
	GetJob(ctx context.Context, jobID string) (*models.Job, error)

	CreateAgency(ctx context.Context, agency *models.Agency) error
	GetAgency(ctx context.Context, agencyID string) (*models.Agency, error)

	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	ListTransactionsByTask(ctx context.Context, taskID string) ([]models.Transaction, error)
}

type MarketRepositoryImpl struct {
	db *gorm.DB
}

func NewMarketRepository(db *gorm.DB) MarketRepository {
	return &MarketRepositoryImpl{db: db}
}

func (r *MarketRepositoryImpl) CreateJob(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *MarketRepositoryImpl) ListJobs(ctx context.Context, limit int) ([]models.Job, error) {
	var jobs []models.Job
	result := r.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&jobs)
	if result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}

func (r *MarketRepositoryImpl) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	var job models.Job
	return firstOrNil(r.db.WithContext(ctx).Where("id = ?", jobID).First(&job), &job)
}

func (r *MarketRepositoryImpl) CreateAgency(ctx context.Context, agency *models.Agency) error {
	return r.db.WithContext(ctx).Create(agency).Error
}

func (r *MarketRepositoryImpl) GetAgency(ctx context.Context, agencyID string) (*models.Agency, error) {
	var agency models.Agency
	return firstOrNil(r.db.WithContext(ctx).Where("id = ?", agencyID).First(&agency), &agency)
}

func (r *MarketRepositoryImpl) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *MarketRepositoryImpl) ListTransactionsByTask(ctx context.Context, taskID string) ([]models.Transaction, error) {
	var txns []models.Transaction
	result := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("created_at desc").Find(&txns)
	if result.Error != nil {
		return nil, result.Error
	}
	return txns, nil
}
