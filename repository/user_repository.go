package repository

import (
	"context"
	"time"

	"connekt/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	GetProfile(ctx context.Context, uid string) (*models.UserProfile, error)
	MergeProfile(ctx context.Context, uid string, fields models.ProfileFields, now time.Time) error
	CreateProfileIfAbsent(ctx context.Context, profile *models.UserProfile) (bool, error)
	GetReservation(ctx context.Context, username string) (*models.UsernameReservation, error)
	SaveReservation(ctx context.Context, username string, uid string) error
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) GetProfile(ctx context.Context, uid string) (*models.UserProfile, error) {
	var profile models.UserProfile
	return firstOrNil(r.db.WithContext(ctx).Where("id = ?", uid).First(&profile), &profile)
}

// MergeProfile upserts the set fields. On conflict only those columns and
// updated_at are overwritten.
func (r *UserRepositoryImpl) MergeProfile(ctx context.Context, uid string, fields models.ProfileFields, now time.Time) error {
	profile := models.UserProfile{ID: uid, CreatedAt: now, UpdatedAt: now}
	columns := append(fields.Apply(&profile), "updated_at")

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&profile).Error
}

// CreateProfileIfAbsent inserts profile unless a row with its ID exists.
func (r *UserRepositoryImpl) CreateProfileIfAbsent(ctx context.Context, profile *models.UserProfile) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(profile)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *UserRepositoryImpl) GetReservation(ctx context.Context, username string) (*models.UsernameReservation, error) {
	var reservation models.UsernameReservation
	return firstOrNil(r.db.WithContext(ctx).Where("username = ?", username).First(&reservation), &reservation)
}

// SaveReservation overwrites any existing reservation for username.
func (r *UserRepositoryImpl) SaveReservation(ctx context.Context, username string, uid string) error {
	reservation := models.UsernameReservation{Username: username, UID: uid}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"uid"}),
	}).Create(&reservation).Error
}
