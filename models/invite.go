package models

import (
	"time"

	"gorm.io/gorm"
)

const RoleSuperAdmin = "super_admin"

// AdminInvite represents the admin_invites table, keyed by the invite code itself.
type AdminInvite struct {
	Code      string     `gorm:"primaryKey;column:code" json:"code" yaml:"code"`
	Role      string     `gorm:"column:role" json:"role" yaml:"role"`
	SubRole   string     `gorm:"column:sub_role" json:"subRole,omitempty" yaml:"subRole"`
	IsUsed    bool       `gorm:"column:is_used" json:"isUsed" yaml:"isUsed"`
	UsedBy    *string    `gorm:"column:used_by" json:"usedBy,omitempty" yaml:"-"`
	UsedAt    *time.Time `gorm:"column:used_at" json:"usedAt,omitempty" yaml:"-"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt" yaml:"-"`
}

func (AdminInvite) TableName() string {
	return "admin_invites"
}

// EffectiveSubRole is the sub role granted on consumption, falling back to the role.
func (i AdminInvite) EffectiveSubRole() string {
	if i.SubRole != "" {
		return i.SubRole
	}
	return i.Role
}

// InviteCode represents the legacy invite_codes table written by the master code seeder.
type InviteCode struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	Code      string    `gorm:"column:code;not null" json:"code"`
	Role      string    `gorm:"column:role" json:"role"`
	Used      bool      `gorm:"column:used" json:"used"`
	CreatedBy string    `gorm:"column:created_by" json:"createdBy"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (InviteCode) TableName() string {
	return "invite_codes"
}

func (c *InviteCode) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = newID()
	}
	return nil
}
