package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"connekt/config"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	ChannelTimeout = 5 * time.Second
	maxRetryDelay  = time.Second
)

var (
	errNoConnection  = errors.New("no active RabbitMQ connection")
	errBrokerStopped = errors.New("RabbitMQ broker stopped")
)

type RabbitMQ interface {
	GetChannel(ctx context.Context) (*amqp.Channel, error)
}

// broker keeps one AMQP connection and redials it on demand after the
// server drops it.
type broker struct {
	url    string
	name   string
	logger *zap.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	stopped bool
}

type RabbitMQParams struct {
	fx.In

	Config    *config.AppConfig
	Logger    *zap.Logger
	Lifecycle fx.Lifecycle
}

// NewRabbitMQ returns nil when RABBITMQ_URL is not configured. Otherwise the
// first connection is made on start and a failure aborts start-up.
func NewRabbitMQ(p RabbitMQParams) RabbitMQ {
	if p.Config.RabbitMQURL == "" {
		p.Logger.Info("RABBITMQ_URL not set, domain events will not be published")
		return nil
	}

	b := &broker{
		url:    p.Config.RabbitMQURL,
		name:   p.Config.ServiceName,
		logger: p.Logger.Named("rabbitmq"),
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if _, err := b.connection(); err != nil {
				return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			b.logger.Info("connected to RabbitMQ")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return b.close()
		},
	})
	return b
}

func (b *broker) connection() (*amqp.Connection, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return nil, errBrokerStopped
	}
	if b.conn != nil && !b.conn.IsClosed() {
		return b.conn, nil
	}

	props := amqp.NewConnectionProperties()
	props.SetClientConnectionName(b.name)
	conn, err := amqp.DialConfig(b.url, amqp.Config{
		Heartbeat:  10 * time.Second,
		Locale:     "en_US",
		Properties: props,
	})
	if err != nil {
		return nil, errors.Join(errNoConnection, err)
	}
	if b.conn != nil {
		b.logger.Warn("RabbitMQ connection re-established")
	}
	b.conn = conn
	return conn, nil
}

func (b *broker) close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopped = true
	if b.conn == nil || b.conn.IsClosed() {
		return nil
	}
	return b.conn.Close()
}

// GetChannel opens a channel, redialing with a growing delay until ctx is
// done or ChannelTimeout elapses.
func (b *broker) GetChannel(ctx context.Context) (*amqp.Channel, error) {
	ctx, cancel := context.WithTimeout(ctx, ChannelTimeout)
	defer cancel()

	delay := 100 * time.Millisecond
	for {
		conn, err := b.connection()
		if errors.Is(err, errBrokerStopped) {
			return nil, err
		}
		if err == nil {
			ch, chErr := conn.Channel()
			if chErr == nil {
				return ch, nil
			}
			err = chErr
		}
		b.logger.Warn("failed to open RabbitMQ channel, retrying", zap.Duration("delay", delay), zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, errors.Join(ctx.Err(), err)
		case <-time.After(delay):
		}
		delay = min(2*delay, maxRetryDelay)
	}
}
