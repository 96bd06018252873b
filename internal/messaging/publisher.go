package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"connekt/internal/telemetry"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Event types published after a workflow succeeds.
const (
	EventMailSent               = "mail.sent"
	EventProofSubmitted         = "proof.submitted"
	EventProofReviewed          = "proof.reviewed"
	EventTaskReassigned         = "task.reassigned"
	EventProjectManagerAssigned = "project.manager_assigned"
	EventInviteConsumed         = "invite.consumed"
	EventPaymentReleased        = "payment.released"
)

type Event struct {
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurredAt"`
	SubjectID  string         `json:"subjectId"`
	ActorID    string         `json:"actorId,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

// NewEvent stamps an event of the given type with the current time.
func NewEvent(eventType, subjectID, actorID string, data map[string]any) Event {
	return Event{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		SubjectID:  subjectID,
		ActorID:    actorID,
		Data:       data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type PublisherParams struct {
	fx.In

	RabbitMQ RabbitMQ `optional:"true"`
	Logger   *zap.Logger
}

// NewPublisher returns an AMQP publisher, or a no-op one when RabbitMQ is not configured.
func NewPublisher(p PublisherParams) Publisher {
	if p.RabbitMQ == nil {
		return &NoopPublisher{logger: p.Logger}
	}
	return &AMQPPublisher{rabbitMQ: p.RabbitMQ, logger: p.Logger}
}

type AMQPPublisher struct {
	rabbitMQ RabbitMQ
	logger   *zap.Logger
}

func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	channel, err := p.rabbitMQ.GetChannel(ctx)
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}
	defer channel.Close()

	headers := amqp.Table{}
	if carrier := telemetry.FromContext(ctx).Export(); carrier != "" {
		headers["traceparent"] = carrier
	}

	err = channel.PublishWithContext(ctx,
		EventsExchange,
		event.Type,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.New().String(),
			Timestamp:    event.OccurredAt,
			Type:         event.Type,
			Headers:      headers,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}
	p.logger.Debug("published event", zap.String("type", event.Type), zap.String("subject", event.SubjectID))
	return nil
}

type NoopPublisher struct {
	logger *zap.Logger
}

func (p *NoopPublisher) Publish(ctx context.Context, event Event) error {
	p.logger.Debug("event dropped, no broker configured", zap.String("type", event.Type))
	return nil
}
