package repository

import (
	"context"

	"github.com/merchbridge/payment-service/internal/domain/model"
)

// WebhookEventRepository stores the audit trail of inbound webhook deliveries.
type WebhookEventRepository interface {
	// SaveEvent persists a delivery. Redeliveries of the same event id are
	// silently skipped.
	SaveEvent(ctx context.Context, event *model.WebhookEvent) error

	// MarkProcessed records that a delivery was applied to a payment record.
	MarkProcessed(ctx context.Context, eventID string, status model.WebhookStatus) error
}
