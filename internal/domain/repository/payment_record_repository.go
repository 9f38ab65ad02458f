package repository

import (
	"context"

	"github.com/merchbridge/payment-service/internal/domain/model"
)

// PaymentRecordRepository is the durable store of payment attempts.
type PaymentRecordRepository interface {
	// Insert stores a new record. A duplicate id yields a CONFLICT error.
	Insert(ctx context.Context, record *model.PaymentRecord) error

	// UpdateByLocalID merges a newly observed remote status into the matching
	// record. Zero matched rows is a no-op, not an error. A non-nil resourceURL
	// refreshes the stored URL; a nil one leaves it untouched.
	UpdateByLocalID(ctx context.Context, localID, status string, remoteResponse model.JSONB, resourceURL *string) error

	// GetByID fetches a single record by its primary key.
	GetByID(ctx context.Context, id string) (*model.PaymentRecord, error)

	// GetByLocalID fetches a single record by its correlation token.
	GetByLocalID(ctx context.Context, localID string) (*model.PaymentRecord, error)

	// ListRecent returns up to limit records, newest first by creation time.
	ListRecent(ctx context.Context, limit int) ([]*model.PaymentRecord, error)
}
