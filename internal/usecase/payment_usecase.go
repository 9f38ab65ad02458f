package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/merchbridge/payment-service/internal/domain/model"
	"github.com/merchbridge/payment-service/internal/domain/provider"
	"github.com/merchbridge/payment-service/internal/domain/repository"
	apperrors "github.com/merchbridge/payment-service/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// DefaultCurrency is assumed when the caller leaves the asset code out.
	DefaultCurrency = "MXN"
	// AssetScale is the fixed minor-unit scale. Two decimal digits for every
	// currency is a simplifying assumption, not derived from the asset.
	AssetScale = 2
)

// PaymentUsecase drives the payment-initiation flow: validate the caller's
// request, create the remote incoming payment and persist the local record.
type PaymentUsecase struct {
	records repository.PaymentRecordRepository
	gateway provider.IncomingPaymentGateway
	logger  *zap.Logger
}

func NewPaymentUsecase(
	records repository.PaymentRecordRepository,
	gateway provider.IncomingPaymentGateway,
	logger *zap.Logger,
) *PaymentUsecase {
	return &PaymentUsecase{
		records: records,
		gateway: gateway,
		logger:  logger,
	}
}

type CreatePaymentInput struct {
	Amount           string
	Currency         string
	Payee            string
	Memo             string
	ExpiresInSeconds float64
}

type CreatePaymentResult struct {
	LocalID     string
	RecordID    string
	ResourceURL *string
	Op          *provider.RemoteResponse
}

// MinorUnits converts a major-unit amount to its minor-unit integer string,
// round(amount x 100) at the fixed scale.
func MinorUnits(amount decimal.Decimal) string {
	return amount.Shift(AssetScale).Round(0).String()
}

// CreatePayment performs exactly one remote call and one record insert per
// invocation; there are no retries.
func (u *PaymentUsecase) CreatePayment(ctx context.Context, input CreatePaymentInput) (*CreatePaymentResult, error) {
	if input.Amount == "" || input.Payee == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "amount and payee required", nil)
	}

	amount, err := decimal.NewFromString(input.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "invalid amount", err)
	}

	currency := input.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	var expiresAt *time.Time
	if input.ExpiresInSeconds > 0 {
		t := time.Now().Add(time.Duration(input.ExpiresInSeconds * float64(time.Second)))
		expiresAt = &t
	}

	localID := uuid.NewString()
	endpoint := strings.TrimRight(input.Payee, "/")

	op, err := u.gateway.CreateIncomingPayment(ctx, &provider.CreateIncomingPaymentRequest{
		Endpoint:         endpoint,
		WalletAddress:    input.Payee,
		AmountMinorUnits: MinorUnits(amount),
		AssetCode:        currency,
		AssetScale:       AssetScale,
		LocalID:          localID,
		Memo:             input.Memo,
		ExpiresAt:        expiresAt,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to call incoming payment gateway")
	}

	status := model.RecordStatusPending
	if op.Created() {
		status = model.RecordStatusCreated
	}

	// The canonical resource location comes from the body's id, with the
	// Location header as fallback.
	var resourceURL *string
	if id := op.StringField("id"); id != "" {
		resourceURL = &id
	} else if loc := op.Headers.Get("Location"); loc != "" {
		resourceURL = &loc
	}

	record := &model.PaymentRecord{
		ID:             uuid.NewString(),
		LocalID:        localID,
		Amount:         amount,
		Currency:       currency,
		Payee:          input.Payee,
		Status:         status,
		ResourceURL:    resourceURL,
		RemoteResponse: remoteBlob(op),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := u.records.Insert(ctx, record); err != nil {
		return nil, err
	}

	u.logger.Info("Payment record created",
		zap.String("record_id", record.ID),
		zap.String("local_id", localID),
		zap.String("status", status),
		zap.Int("remote_status", op.StatusCode))

	return &CreatePaymentResult{
		LocalID:     localID,
		RecordID:    record.ID,
		ResourceURL: resourceURL,
		Op:          op,
	}, nil
}

// GetRecord fetches one payment record, trying the primary key first and the
// merchant-facing correlation id second, so callers may look up with either.
func (u *PaymentUsecase) GetRecord(ctx context.Context, id string) (*model.PaymentRecord, error) {
	if id == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "record id is required", nil)
	}

	record, err := u.records.GetByID(ctx, id)
	if err == nil {
		return record, nil
	}
	if apperrors.CodeOf(err) != apperrors.ErrNotFound {
		return nil, err
	}
	return u.records.GetByLocalID(ctx, id)
}

// ListRecent returns up to limit records, newest first.
func (u *PaymentUsecase) ListRecent(ctx context.Context, limit int) ([]*model.PaymentRecord, error) {
	if limit < 1 {
		limit = 10
	} else if limit > 100 {
		limit = 100
	}
	return u.records.ListRecent(ctx, limit)
}
