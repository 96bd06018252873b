package models

import (
	"time"

	"gorm.io/gorm"
)

type MailType string

const (
	MailTypeReceived MailType = "received"
	MailTypeSent     MailType = "sent"
)

type MailFolder string

const (
	MailFolderInbox MailFolder = "inbox"
	MailFolderSent  MailFolder = "sent"
	MailFolderTrash MailFolder = "trash"
)

// MailMessage represents the mails table. Each send writes one copy per participant.
type MailMessage struct {
	ID                string     `gorm:"primaryKey;column:id" json:"id"`
	OwnerID           string     `gorm:"column:owner_id;not null;index:idx_mails_owner_folder" json:"ownerId"`
	Type              MailType   `gorm:"column:type" json:"type"`
	SenderID          string     `gorm:"column:sender_id" json:"senderId"`
	SenderUsername    string     `gorm:"column:sender_username" json:"senderUsername"`
	SenderName        string     `gorm:"column:sender_name" json:"senderName"`
	RecipientUsername string     `gorm:"column:recipient_username" json:"recipientUsername"`
	Subject           string     `gorm:"column:subject" json:"subject"`
	Body              string     `gorm:"column:body;type:text" json:"body"`
	IsRead            bool       `gorm:"column:is_read" json:"isRead"`
	Folder            MailFolder `gorm:"column:folder;index:idx_mails_owner_folder" json:"folder"`
	CreatedAt         time.Time  `gorm:"column:created_at" json:"createdAt"`
}

func (MailMessage) TableName() string {
	return "mails"
}

func (m *MailMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = newID()
	}
	return nil
}
