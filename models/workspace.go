package models

import (
	"time"

	"gorm.io/gorm"
)

type WorkspacePlan string

const (
	WorkspacePlanFree WorkspacePlan = "free"
	WorkspacePlanPro  WorkspacePlan = "pro"
)

// Workspace represents the workspaces table.
type Workspace struct {
	ID        string        `gorm:"primaryKey;column:id" json:"id" yaml:"id"`
	OwnerID   string        `gorm:"column:owner_id;not null" json:"ownerId" yaml:"ownerId"`
	Name      string        `gorm:"column:name" json:"name" yaml:"name"`
	Plan      WorkspacePlan `gorm:"column:plan" json:"plan" yaml:"plan"`
	Members   StringList    `gorm:"column:members" json:"members" yaml:"members"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime" json:"createdAt" yaml:"-"`
}

func (Workspace) TableName() string {
	return "workspaces"
}

func (w *Workspace) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = newID()
	}
	return nil
}
