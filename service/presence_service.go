package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"connekt/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const presenceKey = "presence:%s" // presence:<uid> --> last heartbeat, RFC3339

type Presence struct {
	UID      string     `json:"uid"`
	Online   bool       `json:"online"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}

// presenceStore is the subset of the redis client used for presence.
type presenceStore interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type PresenceService interface {
	SetOnline(ctx context.Context, uid string, online bool) error
	Get(ctx context.Context, uid string) (Presence, error)
}

type PresenceServiceParams struct {
	fx.In

	Redis  *redis.Client `optional:"true"`
	Config *config.AppConfig
	Logger *zap.Logger
}

type PresenceServiceImpl struct {
	store  presenceStore
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewPresenceService(p PresenceServiceParams) PresenceService {
	svc := &PresenceServiceImpl{
		ttl:    p.Config.Presence.TTL,
		logger: p.Logger,
		now:    time.Now,
	}
	if p.Redis != nil {
		svc.store = p.Redis
	}
	return svc
}

// SetOnline records a heartbeat that expires after the TTL, or clears it.
func (s *PresenceServiceImpl) SetOnline(ctx context.Context, uid string, online bool) error {
	if s.store == nil {
		return ErrPresenceUnavailable
	}
	key := fmt.Sprintf(presenceKey, uid)

	if !online {
		if err := s.store.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to clear presence: %w", err)
		}
		return nil
	}

	if err := s.store.Set(ctx, key, s.now().UTC().Format(time.RFC3339), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set presence: %w", err)
	}
	return nil
}

func (s *PresenceServiceImpl) Get(ctx context.Context, uid string) (Presence, error) {
	if s.store == nil {
		return Presence{}, ErrPresenceUnavailable
	}

	val, err := s.store.Get(ctx, fmt.Sprintf(presenceKey, uid)).Result()
	if errors.Is(err, redis.Nil) {
		return Presence{UID: uid, Online: false}, nil
	}
	if err != nil {
		return Presence{}, fmt.Errorf("failed to get presence: %w", err)
	}

	presence := Presence{UID: uid, Online: true}
	if seen, err := time.Parse(time.RFC3339, val); err == nil {
		presence.LastSeen = &seen
	} else {
		s.logger.Warn("malformed presence value", zap.String("uid", uid), zap.String("value", val))
	}
	return presence, nil
}
