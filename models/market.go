package models

import (
	"time"

	"gorm.io/gorm"
)

type JobType string

const (
	JobTypeFixed  JobType = "fixed"
	JobTypeHourly JobType = "hourly"
)

type TransactionType string

const (
	TransactionTypePayment    TransactionType = "payment"
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Job represents the jobs table.
type Job struct {
	ID          string     `gorm:"primaryKey;column:id" json:"id"`
	OwnerID     string     `gorm:"column:owner_id;not null" json:"ownerId"`
	Title       string     `gorm:"column:title" json:"title"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	Budget      string     `gorm:"column:budget" json:"budget"`
	Type        JobType    `gorm:"column:type" json:"type"`
	Skills      StringList `gorm:"column:skills" json:"skills"`
	Location    string     `gorm:"column:location" json:"location,omitempty"`
	Timezone    string     `gorm:"column:timezone" json:"timezone,omitempty"`
	Language    string     `gorm:"column:language" json:"language,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Job) TableName() string {
	return "jobs"
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = newID()
	}
	return nil
}

// Transaction represents the transactions table.
type Transaction struct {
	ID        string            `gorm:"primaryKey;column:id" json:"id"`
	FromID    string            `gorm:"column:from_id;not null" json:"fromId"`
	ToID      string            `gorm:"column:to_id;not null" json:"toId"`
	Amount    float64           `gorm:"column:amount" json:"amount"`
	Type      TransactionType   `gorm:"column:type" json:"type"`
	Status    TransactionStatus `gorm:"column:status" json:"status"`
	TaskID    *string           `gorm:"column:task_id" json:"taskId,omitempty"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = newID()
	}
	return nil
}

// RequestLog represents the request_logs table, one row per API call.
type RequestLog struct {
	ID          string    `gorm:"primaryKey;column:id" json:"id"`
	MessageTime int64     `gorm:"column:message_time;not null" json:"message_time"`
	HTTPMethod  string    `gorm:"column:http_method" json:"http_method"`
	RawEndpoint string    `gorm:"column:raw_endpoint" json:"raw_endpoint"`
	HTTPBody    string    `gorm:"column:http_body;type:text" json:"http_body"`
	CallerID    string    `gorm:"column:caller_id" json:"caller_id,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (RequestLog) TableName() string {
	return "request_logs"
}

// All lists every model managed by the schema migration.
func All() []any {
	return []any{
		&UserProfile{},
		&UsernameReservation{},
		&Agency{},
		&Project{},
		&Task{},
		&TaskProof{},
		&TaskReassignment{},
		&MailMessage{},
		&AdminInvite{},
		&InviteCode{},
		&Workspace{},
		&Job{},
		&Transaction{},
		&RequestLog{},
	}
}
