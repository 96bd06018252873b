package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"connekt/internal/messaging"
	"connekt/internal/telemetry"
	"connekt/models"
	"connekt/repository"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Sender struct {
	ID       string
	Username string
	Name     string
}

type MailService interface {
	Send(ctx context.Context, sender Sender, recipientUsername, subject, body string) error
	Inbox(ctx context.Context, uid string) ([]models.MailMessage, error)
	Sent(ctx context.Context, uid string) ([]models.MailMessage, error)
	MarkAsRead(ctx context.Context, mailID string) error
}

type MailServiceParams struct {
	fx.In

	Mails     repository.MailRepository
	Identity  IdentityService
	Publisher messaging.Publisher
	Logger    *zap.Logger
}

type MailServiceImpl struct {
	mails     repository.MailRepository
	identity  IdentityService
	publisher messaging.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewMailService(p MailServiceParams) MailService {
	return &MailServiceImpl{
		mails:     p.Mails,
		identity:  p.Identity,
		publisher: p.Publisher,
		logger:    p.Logger,
		now:       time.Now,
	}
}

// Send resolves the recipient and writes the recipient's inbox copy followed
// by the sender's sent copy. There is no rollback if the second write fails.
func (s *MailServiceImpl) Send(ctx context.Context, sender Sender, recipientUsername, subject, body string) error {
	recipientID, err := s.identity.ResolveUsername(ctx, recipientUsername)
	if err != nil {
		return err
	}
	if recipientID == "" {
		return userNotFound(recipientUsername)
	}

	now := s.now()
	inboxCopy := &models.MailMessage{
		OwnerID:           recipientID,
		Type:              models.MailTypeReceived,
		SenderID:          sender.ID,
		SenderUsername:    sender.Username,
		SenderName:        sender.Name,
		RecipientUsername: recipientUsername,
		Subject:           subject,
		Body:              body,
		IsRead:            false,
		Folder:            models.MailFolderInbox,
		CreatedAt:         now,
	}
	if err := s.mails.Create(ctx, inboxCopy); err != nil {
		return fmt.Errorf("failed to deliver mail: %w", err)
	}
	telemetry.FromContext(ctx).AddEvent("mail delivered", telemetry.NewEventAttributes(map[string]string{"mail_id": inboxCopy.ID}))

	sentCopy := *inboxCopy
	sentCopy.ID = ""
	sentCopy.OwnerID = sender.ID
	sentCopy.Type = models.MailTypeSent
	sentCopy.IsRead = true
	sentCopy.Folder = models.MailFolderSent
	if err := s.mails.Create(ctx, &sentCopy); err != nil {
		s.logger.Error("mail delivered but sent copy failed", zap.String("mail_id", inboxCopy.ID), zap.Error(err))
		return fmt.Errorf("failed to store sent mail: %w", err)
	}

	publishEvent(ctx, s.publisher, s.logger, messaging.NewEvent(messaging.EventMailSent, inboxCopy.ID, sender.ID, map[string]any{
		"recipientId": recipientID,
		"subject":     subject,
	}))
	return nil
}

func (s *MailServiceImpl) Inbox(ctx context.Context, uid string) ([]models.MailMessage, error) {
	return s.list(ctx, uid, models.MailFolderInbox)
}

func (s *MailServiceImpl) Sent(ctx context.Context, uid string) ([]models.MailMessage, error) {
	return s.list(ctx, uid, models.MailFolderSent)
}

func (s *MailServiceImpl) list(ctx context.Context, uid string, folder models.MailFolder) ([]models.MailMessage, error) {
	mails, err := s.mails.ListByFolder(ctx, uid, folder)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", folder, err)
	}
	return mails, nil
}

func (s *MailServiceImpl) MarkAsRead(ctx context.Context, mailID string) error {
	err := s.mails.MarkRead(ctx, mailID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMailNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to mark mail as read: %w", err)
	}
	return nil
}
