package repository

import (
	"context"

	"connekt/models"

	"gorm.io/gorm"
)

type RequestLogRepository interface {
	Create(ctx context.Context, entry *models.RequestLog) error
}

type RequestLogRepositoryImpl struct {
	db *gorm.DB
}

func NewRequestLogRepository(db *gorm.DB) RequestLogRepository {
	return &RequestLogRepositoryImpl{db: db}
}

func (r *RequestLogRepositoryImpl) Create(ctx context.Context, entry *models.RequestLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
