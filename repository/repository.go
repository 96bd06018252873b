package repository

import (
	"errors"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

// ErrNotFound is returned by updates that matched no row.
var ErrNotFound = errors.New("record not found")

var Module = fx.Options(
	fx.Provide(NewUserRepository),
	fx.Provide(NewProjectRepository),
	fx.Provide(NewTaskRepository),
	fx.Provide(NewMailRepository),
	fx.Provide(NewInviteRepository),
	fx.Provide(NewWorkspaceRepository),
	fx.Provide(NewMarketRepository),
	fx.Provide(NewRequestLogRepository),
)

// firstOrNil maps gorm.ErrRecordNotFound to a nil result.
func firstOrNil[T any](result *gorm.DB, out *T) (*T, error) {
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return out, nil
}

func affected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
