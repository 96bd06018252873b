package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleEmployer Role = "employer"
	RoleVA       Role = "va"
	RoleAgency   Role = "agency"
	RoleAdmin    Role = "admin"
)

// UserProfile represents the users table.
type UserProfile struct {
	ID                  string     `gorm:"primaryKey;column:id" json:"uid"`
	Username            *string    `gorm:"column:username" json:"username,omitempty"`
	Email               string     `gorm:"column:email" json:"email"`
	DisplayName         string     `gorm:"column:display_name" json:"displayName"`
	PhotoURL            string     `gorm:"column:photo_url" json:"photoURL"`
	Role                Role       `gorm:"column:role" json:"role"`
	SubRole             string     `gorm:"column:sub_role" json:"subRole,omitempty"`
	Bio                 string     `gorm:"column:bio" json:"bio,omitempty"`
	Skills              StringList `gorm:"column:skills" json:"skills"`
	OnboardingCompleted bool       `gorm:"column:onboarding_completed" json:"onboardingCompleted"`
	IntroSeen           bool       `gorm:"column:intro_seen" json:"introSeen"`
	AgencyID            *string    `gorm:"column:agency_id" json:"agencyId,omitempty"`
	CreatedAt           time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt           time.Time  `gorm:"column:updated_at" json:"updatedAt"`
}

func (UserProfile) TableName() string {
	return "users"
}

// ProfileFields is a partial profile. Nil fields are left untouched on merge.
type ProfileFields struct {
	Username            *string   `json:"username,omitempty"`
	Email               *string   `json:"email,omitempty"`
	DisplayName         *string   `json:"displayName,omitempty"`
	PhotoURL            *string   `json:"photoURL,omitempty"`
	Role                *Role     `json:"role,omitempty"`
	SubRole             *string   `json:"subRole,omitempty"`
	Bio                 *string   `json:"bio,omitempty"`
	Skills              *[]string `json:"skills,omitempty"`
	OnboardingCompleted *bool     `json:"onboardingCompleted,omitempty"`
	IntroSeen           *bool     `json:"introSeen,omitempty"`
	AgencyID            *string   `json:"agencyId,omitempty"`
}

// Apply copies the set fields onto p and returns the columns that were set.
func (f ProfileFields) Apply(p *UserProfile) []string {
	var columns []string
	if f.Username != nil {
		p.Username = f.Username
		columns = append(columns, "username")
	}
	if f.Email != nil {
		p.Email = *f.Email
		columns = append(columns, "email")
	}
	if f.DisplayName != nil {
		p.DisplayName = *f.DisplayName
		columns = append(columns, "display_name")
	}
	if f.PhotoURL != nil {
		p.PhotoURL = *f.PhotoURL
		columns = append(columns, "photo_url")
	}
	if f.Role != nil {
		p.Role = *f.Role
		columns = append(columns, "role")
	}
	if f.SubRole != nil {
		p.SubRole = *f.SubRole
		columns = append(columns, "sub_role")
	}
	if f.Bio != nil {
		p.Bio = *f.Bio
		columns = append(columns, "bio")
	}
	if f.Skills != nil {
		p.Skills = NewStringList(*f.Skills)
		columns = append(columns, "skills")
	}
	if f.OnboardingCompleted != nil {
		p.OnboardingCompleted = *f.OnboardingCompleted
		columns = append(columns, "onboarding_completed")
	}
	if f.IntroSeen != nil {
		p.IntroSeen = *f.IntroSeen
		columns = append(columns, "intro_seen")
	}
	if f.AgencyID != nil {
		p.AgencyID = f.AgencyID
		columns = append(columns, "agency_id")
	}
	return columns
}

// UsernameReservation represents the usernames table, keyed by lower-cased username.
type UsernameReservation struct {
	Username string `gorm:"primaryKey;column:username" json:"username"`
	UID      string `gorm:"column:uid;not null" json:"uid"`
}

func (UsernameReservation) TableName() string {
	return "usernames"
}

// Agency represents the agencies table.
type Agency struct {
	ID          string     `gorm:"primaryKey;column:id" json:"id"`
	OwnerID     string     `gorm:"column:owner_id;not null;index" json:"ownerId"`
	Name        string     `gorm:"column:name" json:"name"`
	Description string     `gorm:"column:description" json:"description"`
	Members     StringList `gorm:"column:members" json:"members"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Agency) TableName() string {
	return "agencies"
}

func (a *Agency) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = newID()
	}
	return nil
}
