package database

import (
	adapterRepo "github.com/merchbridge/payment-service/internal/adapter/repository"
	"github.com/merchbridge/payment-service/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories bundles the concrete repositories handed to the HTTP layer.
type Repositories struct {
	PaymentRecord repository.PaymentRecordRepository
	WebhookEvent  repository.WebhookEventRepository
}

// NewRepositories wires the postgres repositories.
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		PaymentRecord: adapterRepo.NewPaymentRecordRepository(db, logger.With(zap.String("component", "PaymentRecordRepository"))),
		WebhookEvent:  adapterRepo.NewWebhookEventRepository(db, logger.With(zap.String("component", "WebhookEventRepository"))),
	}
}
