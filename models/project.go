package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ---------------------------------------------------------------------
// Enum types
// ---------------------------------------------------------------------

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOnHold    ProjectStatus = "on-hold"
)

type ManagerType string

const (
	ManagerTypeUser     ManagerType = "user"
	ManagerTypeExternal ManagerType = "external"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusPaid       TaskStatus = "paid"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type ProofType string

const (
	ProofTypeScreenshot ProofType = "screenshot"
	ProofTypeVideo      ProofType = "video"
	ProofTypeLink       ProofType = "link"
	ProofTypeOther      ProofType = "other"
)

type ProofStatus string

const (
	ProofStatusPending  ProofStatus = "pending"
	ProofStatusApproved ProofStatus = "approved"
	ProofStatusRejected ProofStatus = "rejected"
)

// ---------------------------------------------------------------------
// Models
// ---------------------------------------------------------------------

// Project represents the projects table.
type Project struct {
	ID            string        `gorm:"primaryKey;column:id" json:"id"`
	OwnerID       string        `gorm:"column:owner_id;not null;index" json:"ownerId"`
	Title         string        `gorm:"column:title" json:"title"`
	Description   string        `gorm:"column:description" json:"description"`
	Budget        float64       `gorm:"column:budget" json:"budget"`
	Deadline      string        `gorm:"column:deadline" json:"deadline,omitempty"`
	Status        ProjectStatus `gorm:"column:status" json:"status"`
	ManagerID     *string       `gorm:"column:manager_id" json:"managerId,omitempty"`
	ManagerType   *ManagerType  `gorm:"column:manager_type" json:"managerType,omitempty"`
	TransferredBy *string       `gorm:"column:transferred_by" json:"transferredBy,omitempty"`
	TransferredAt *time.Time    `gorm:"column:transferred_at" json:"transferredAt,omitempty"`
	CreatedAt     time.Time     `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return nil
}

// ProjectStats holds per-status project counts for one owner.
type ProjectStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Running   int `json:"running"`
	Pending   int `json:"pending"`
}

// Task represents the tasks table.
type Task struct {
	ID            string       `gorm:"primaryKey;column:id" json:"id"`
	ProjectID     string       `gorm:"column:project_id;not null;index" json:"projectId"`
	Title         string       `gorm:"column:title" json:"title"`
	Description   string       `gorm:"column:description" json:"description"`
	Status        TaskStatus   `gorm:"column:status" json:"status"`
	Priority      TaskPriority `gorm:"column:priority" json:"priority"`
	AssigneeID    string       `gorm:"column:assignee_id" json:"assigneeId"`
	Value         *float64     `gorm:"column:value" json:"value,omitempty"`
	ProofRequired bool         `gorm:"column:proof_required" json:"proofRequired"`
	Reassignable  bool         `gorm:"column:reassignable" json:"reassignable"`
	ValidatedBy   *string      `gorm:"column:validated_by" json:"validatedBy,omitempty"`
	CreatedAt     time.Time    `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = newID()
	}
	return nil
}

// TaskProof represents the task_proofs table, the proofs submitted against one task.
type TaskProof struct {
	ID            string         `gorm:"primaryKey;column:id" json:"id"`
	TaskID        string         `gorm:"column:task_id;not null;index" json:"taskId"`
	SubmitterID   string         `gorm:"column:submitter_id;not null" json:"submitterId"`
	Type          ProofType      `gorm:"column:type" json:"type"`
	URL           string         `gorm:"column:url" json:"url"`
	Metadata      datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	Status        ProofStatus    `gorm:"column:status" json:"status"`
	ReviewerID    *string        `gorm:"column:reviewer_id" json:"reviewerId,omitempty"`
	ReviewComment *string        `gorm:"column:review_comment" json:"reviewComment,omitempty"`
	SubmittedAt   time.Time      `gorm:"column:submitted_at" json:"submittedAt"`
	ReviewedAt    *time.Time     `gorm:"column:reviewed_at" json:"reviewedAt,omitempty"`
}

func (TaskProof) TableName() string {
	return "task_proofs"
}

func (p *TaskProof) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return nil
}

// TaskReassignment is an append-only audit entry for a task assignee change.
type TaskReassignment struct {
	ID     string    `gorm:"primaryKey;column:id" json:"id"`
	TaskID string    `gorm:"column:task_id;not null;index" json:"taskId"`
	From   string    `gorm:"column:from_assignee" json:"from"`
	To     string    `gorm:"column:to_assignee" json:"to"`
	By     string    `gorm:"column:performed_by" json:"by"`
	At     time.Time `gorm:"column:performed_at" json:"at"`
}

func (TaskReassignment) TableName() string {
	return "task_reassignments"
}

func (r *TaskReassignment) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = newID()
	}
	return nil
}
