package database

import (
	"context"
	"fmt"
	"strings"

	"connekt/config"
	"connekt/models"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type DBParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.AppConfig
	Logger    *zap.Logger
}

func NewDBConnection(p DBParams) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(p.Config.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(p.Config.LogLevel)),
	})
	if err != nil {
		p.Logger.Error("failed to connect database", zap.Error(err))
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	p.Logger.Info("connected to database")

	if err := Migrate(db); err != nil {
		p.Logger.Error("failed to migrate database", zap.Error(err))
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

// Migrate creates or updates the tables for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return gormlogger.Info
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
