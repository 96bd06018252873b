package repository

import (
	"context"

	"connekt/models"

	"gorm.io/gorm"
)

type MailRepository interface {
	Create(ctx context.Context, mail *models.MailMessage) error
	ListByFolder(ctx context.Context, ownerID string, folder models.MailFolder) ([]models.MailMessage, error)
	MarkRead(ctx context.Context, mailID string) error
}

type MailRepositoryImpl struct {
	db *gorm.DB
}

func NewMailRepository(db *gorm.DB) MailRepository {
	return &MailRepositoryImpl{db: db}
}

func (r *MailRepositoryImpl) Create(ctx context.Context, mail *models.MailMessage) error {
	return r.db.WithContext(ctx).Create(mail).Error
}

func (r *MailRepositoryImpl) ListByFolder(ctx context.Context, ownerID string, folder models.MailFolder) ([]models.MailMessage, error) {
	var mails []models.MailMessage
	result := r.db.WithContext(ctx).
		Where("owner_id = ? AND folder = ?", ownerID, folder).
		Order("created_at desc").
		Find(&mails)
	if result.Error != nil {
		return nil, result.Error
	}
	return mails, nil
}

func (r *MailRepositoryImpl) MarkRead(ctx context.Context, mailID string) error {
	return affected(r.db.WithContext(ctx).Model(&models.MailMessage{}).Where("id = ?", mailID).Update("is_read", true))
}
