package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment record lifecycle states. Remote-reported statuses are stored as-is,
// so the status column is free-form beyond these locally assigned values.
const (
	RecordStatusPending        = "pending"
	RecordStatusCreated        = "created"
	RecordStatusWebhookUpdated = "webhook_updated"
	RecordStatusReceived       = "received"
)

// PaymentRecord is one row per payment attempt. LocalID is the correlation
// token embedded in the outbound request metadata; it is the only key used to
// match asynchronous status updates back to a record.
type PaymentRecord struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	LocalID        string          `gorm:"column:local_id;uniqueIndex;size:64;not null" json:"local_id"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency       string          `gorm:"size:3;not null;default:'MXN'" json:"currency"`
	Payee          string          `gorm:"not null" json:"payee"`
	Status         string          `gorm:"size:50;not null" json:"status"`
	ResourceURL    *string         `gorm:"column:resource_url" json:"resource_url,omitempty"`
	RemoteResponse JSONB           `gorm:"column:remote_response;type:jsonb" json:"remote_response,omitempty"`
	CreatedAt      time.Time       `gorm:"default:now()" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PaymentRecord) TableName() string {
	return "payment_records"
}
