package database

import (
	"context"
	"fmt"

	"connekt/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type RedisParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.AppConfig
	Logger    *zap.Logger
}

// NewRedisClient connects to REDIS_URL. It returns a nil client when no URL is
// configured so that presence degrades instead of blocking startup.
func NewRedisClient(p RedisParams) (*redis.Client, error) {
	if p.Config.RedisURL == "" {
		p.Logger.Info("REDIS_URL not set, presence tracking disabled")
		return nil, nil
	}

	opts, err := redis.ParseURL(p.Config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	opts.ClientName = p.Config.ServiceName
	client := redis.NewClient(opts)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				p.Logger.Error("failed to connect to Redis", zap.String("addr", opts.Addr), zap.Error(err))
				return err
			}
			p.Logger.Info("connected to Redis", zap.String("addr", opts.Addr))
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}
