package repository

import (
	"context"
	"time"

	"github.com/merchbridge/payment-service/internal/domain/model"
	domainRepo "github.com/merchbridge/payment-service/internal/domain/repository"
	apperrors "github.com/merchbridge/payment-service/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type webhookEventRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewWebhookEventRepository creates a postgres-backed webhook audit store.
func NewWebhookEventRepository(db *gorm.DB, logger *zap.Logger) domainRepo.WebhookEventRepository {
	return &webhookEventRepository{
		db:     db,
		logger: logger,
	}
}

func (r *webhookEventRepository) SaveEvent(ctx context.Context, event *model.WebhookEvent) error {
	// Redeliveries carry the same event id; keep the first row only.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(event).Error

	if err != nil {
		r.logger.Error("Failed to save webhook event",
			zap.String("event_id", event.EventID),
			zap.String("event_type", event.EventType),
			zap.Error(err))
		return apperrors.Wrap(err, "failed to save webhook event")
	}

	return nil
}

func (r *webhookEventRepository) MarkProcessed(ctx context.Context, eventID string, status model.WebhookStatus) error {
	now := time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.WebhookEvent{}).
		Where("event_id = ?", eventID).
		Updates(map[string]interface{}{
			"processing_status": status,
			"processed_at":      &now,
		})

	if result.Error != nil {
		r.logger.Error("Failed to mark webhook event",
			zap.String("event_id", eventID),
			zap.Error(result.Error))
		return apperrors.Wrap(result.Error, "failed to mark webhook event")
	}

	return nil
}
