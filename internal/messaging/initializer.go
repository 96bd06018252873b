package messaging

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// Topic exchange carrying every domain event, routed by event type.
	EventsExchange = "connekt_events"

	// Queues
	NotificationQueue = "notification_queue"
	AuditQueue        = "audit_queue"
)

var queueBindings = map[string][]string{
	NotificationQueue: {"#"},
	AuditQueue:        {"invite.*", "payment.*"},
}

type MQInitializer struct {
	rabbitMQ RabbitMQ
	logger   *zap.Logger
}

type InitializeParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	RabbitMQ  RabbitMQ `optional:"true"`
	Logger    *zap.Logger
}

// InitializeMQ declares the events exchange, queues and bindings once the
// connection pool has started.
func InitializeMQ(p InitializeParams) {
	if p.RabbitMQ == nil {
		return
	}
	m := &MQInitializer{
		rabbitMQ: p.RabbitMQ,
		logger:   p.Logger,
	}
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return m.declareTopology(ctx)
		},
	})
}

func (m *MQInitializer) declareTopology(ctx context.Context) error {
	if err := m.declareExchange(ctx, EventsExchange, "topic"); err != nil {
		m.logger.Error("failed to declare events exchange", zap.Error(err))
		return err
	}

	for queueName, keys := range queueBindings {
		if err := m.declareQueue(ctx, queueName); err != nil {
			m.logger.Error("failed to declare queue", zap.String("queue", queueName), zap.Error(err))
			return err
		}
		for _, key := range keys {
			if err := m.bindQueue(ctx, queueName, key, EventsExchange); err != nil {
				m.logger.Error("failed to bind queue", zap.String("queue", queueName), zap.String("key", key), zap.Error(err))
				return err
			}
		}
	}

	m.logger.Info("successfully initialized RabbitMQ exchanges, queues, and bindings")
	return nil
}

func (m *MQInitializer) declareExchange(ctx context.Context, name, kind string) error {
	channel, err := m.rabbitMQ.GetChannel(ctx)
	if err != nil {
		return err
	}
	defer channel.Close()

	return channel.ExchangeDeclare(
		name,
		kind,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
}

func (m *MQInitializer) declareQueue(ctx context.Context, name string) error {
	channel, err := m.rabbitMQ.GetChannel(ctx)
	if err != nil {
		return err
	}
	defer channel.Close()

	_, err = channel.QueueDeclare(
		name,
		true,  // durable
		false, // auto-deleted
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	return err
}

func (m *MQInitializer) bindQueue(ctx context.Context, queueName, routingKey, exchange string) error {
	channel, err := m.rabbitMQ.GetChannel(ctx)
	if err != nil {
		return err
	}
	defer channel.Close()

	return channel.QueueBind(
		queueName,
		routingKey,
		exchange,
		false, // no-wait
		nil,   // arguments
	)
}
