package repository

import (
	"context"
	"time"

	"connekt/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InviteRepository interface {
	GetAdminInvite(ctx context.Context, code string) (*models.AdminInvite, error)
	SaveAdminInvite(ctx context.Context, invite *models.AdminInvite) error
	MarkAdminInviteUsed(ctx context.Context, code string, uid string, at time.Time) error

	FindActiveInviteCode(ctx context.Context, role string) (*models.InviteCode, error)
	CreateInviteCode(ctx context.Context, code *models.InviteCode) error
}

type InviteRepositoryImpl struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &InviteRepositoryImpl{db: db}
}

func (r *InviteRepositoryImpl) GetAdminInvite(ctx context.Context, code string) (*models.AdminInvite, error) {
	var invite models.AdminInvite
	return firstOrNil(r.db.WithContext(ctx).Where("code = ?", code).First(&invite), &invite)
}

// SaveAdminInvite creates the invite, or refreshes the role of the one with the
// same code. Usage state is never touched, so a consumed code stays consumed.
func (r *InviteRepositoryImpl) SaveAdminInvite(ctx context.Context, invite *models.AdminInvite) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "sub_role"}),
	}).Create(invite).Error
}

func (r *InviteRepositoryImpl) MarkAdminInviteUsed(ctx context.Context, code string, uid string, at time.Time) error {
	return affected(r.db.WithContext(ctx).Model(&models.AdminInvite{}).Where("code = ?", code).Updates(map[string]any{
		"is_used": true,
		"used_by": uid,
		"used_at": at,
	}))
}

// FindActiveInviteCode returns one unused code for role, or nil.
func (r *InviteRepositoryImpl) FindActiveInviteCode(ctx context.Context, role string) (*models.InviteCode, error) {
	var code models.InviteCode
	result := r.db.WithContext(ctx).Where("used = ? AND role = ?", false, role).Limit(1).Find(&code)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &code, nil
}

func (r *InviteRepositoryImpl) CreateInviteCode(ctx context.Context, code *models.InviteCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}
