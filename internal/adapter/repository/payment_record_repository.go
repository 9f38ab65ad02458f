package repository

import (
	"context"
	"time"

	"github.com/merchbridge/payment-service/internal/domain/model"
	domainRepo "github.com/merchbridge/payment-service/internal/domain/repository"
	apperrors "github.com/merchbridge/payment-service/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type paymentRecordRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRecordRepository creates a postgres-backed record store.
func NewPaymentRecordRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PaymentRecordRepository {
	return &paymentRecordRepository{
		db:     db,
		logger: logger,
	}
}

func (r *paymentRecordRepository) Insert(ctx context.Context, record *model.PaymentRecord) error {
	err := r.db.WithContext(ctx).Create(record).Error
	if err != nil {
		if apperrors.Is(err, gorm.ErrDuplicatedKey) {
			r.logger.Warn("Duplicate payment record id",
				zap.String("id", record.ID))
			return apperrors.NewAppError(apperrors.ErrConflict, "payment record already exists", err)
		}
		r.logger.Error("Failed to insert payment record",
			zap.String("id", record.ID),
			zap.String("local_id", record.LocalID),
			zap.Error(err))
		return apperrors.Wrap(err, "failed to insert payment record")
	}

	return nil
}

func (r *paymentRecordRepository) UpdateByLocalID(ctx context.Context, localID, status string, remoteResponse model.JSONB, resourceURL *string) error {
	updates := map[string]interface{}{
		"status":          status,
		"remote_response": remoteResponse,
		"updated_at":      time.Now(),
	}
	// resource_url, once set, is never cleared; only a newer non-empty URL
	// replaces it.
	if resourceURL != nil && *resourceURL != "" {
		updates["resource_url"] = *resourceURL
	}

	result := r.db.WithContext(ctx).
		Model(&model.PaymentRecord{}).
		Where("local_id = ?", localID).
		Updates(updates)

	if result.Error != nil {
		r.logger.Error("Failed to update payment record",
			zap.String("local_id", localID),
			zap.Error(result.Error))
		return apperrors.Wrap(result.Error, "failed to update payment record")
	}

	// Late or unmatched callbacks are tolerated: no matching row is a no-op.
	if result.RowsAffected == 0 {
		r.logger.Debug("No payment record for local id, update dropped",
			zap.String("local_id", localID))
	}

	return nil
}

func (r *paymentRecordRepository) GetByID(ctx context.Context, id string) (*model.PaymentRecord, error) {
	var record model.PaymentRecord

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error

	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrNotFound, "payment record not found", err)
		}
		r.logger.Error("Failed to get payment record",
			zap.String("id", id),
			zap.Error(err))
		return nil, apperrors.Wrap(err, "failed to get payment record")
	}

	return &record, nil
}

func (r *paymentRecordRepository) GetByLocalID(ctx context.Context, localID string) (*model.PaymentRecord, error) {
	var record model.PaymentRecord

	err := r.db.WithContext(ctx).
		Where("local_id = ?", localID).
		First(&record).Error

	if err != nil {
		if apperrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewAppError(apperrors.ErrNotFound, "payment record not found", err)
		}
		r.logger.Error("Failed to get payment record by local id",
			zap.String("local_id", localID),
			zap.Error(err))
		return nil, apperrors.Wrap(err, "failed to get payment record")
	}

	return &record, nil
}

func (r *paymentRecordRepository) ListRecent(ctx context.Context, limit int) ([]*model.PaymentRecord, error) {
	var records []*model.PaymentRecord

	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&records).Error; err != nil {
		r.logger.Error("Failed to list payment records",
			zap.Int("limit", limit),
			zap.Error(err))
		return nil, apperrors.Wrap(err, "failed to list payment records")
	}

	return records, nil
}
