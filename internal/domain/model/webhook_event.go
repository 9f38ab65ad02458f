package model

import (
	"database/sql/driver"
	"time"
)

// WebhookStatus represents the processing status of a webhook
type WebhookStatus string

const (
	WebhookStatusPending   WebhookStatus = "pending"
	WebhookStatusCompleted WebhookStatus = "completed"
	WebhookStatusIgnored   WebhookStatus = "ignored"
)

// Scan implements sql.Scanner interface
func (w *WebhookStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*w = WebhookStatus(v)
	case []byte:
		*w = WebhookStatus(v)
	default:
		*w = WebhookStatusPending
	}
	return nil
}

// Value implements driver.Valuer interface
func (w WebhookStatus) Value() (driver.Value, error) {
	return string(w), nil
}

// WebhookEvent is the audit row persisted for every inbound webhook delivery,
// kept regardless of whether a payment record matched.
type WebhookEvent struct {
	ID               int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID          string        `gorm:"column:event_id;unique;not null;size:255" json:"event_id"`
	EventType        string        `gorm:"size:100" json:"event_type,omitempty"`
	LocalID          *string       `gorm:"column:local_id;size:64;index" json:"local_id,omitempty"`
	ProcessingStatus WebhookStatus `gorm:"size:20;default:'pending';index" json:"processing_status"`
	Payload          JSONB         `gorm:"type:jsonb" json:"payload,omitempty"`
	ProcessedAt      *time.Time    `json:"processed_at,omitempty"`
	CreatedAt        time.Time     `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (WebhookEvent) TableName() string {
	return "webhook_events"
}
