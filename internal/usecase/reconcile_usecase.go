package usecase

import (
	"context"
	"strings"

	"github.com/merchbridge/payment-service/internal/domain/model"
	"github.com/merchbridge/payment-service/internal/domain/provider"
	"github.com/merchbridge/payment-service/internal/domain/repository"
	"go.uber.org/zap"
)

// ReconcileUsecase merges remote-observed statuses into local payment
// records, fed either by polling or by pushed webhook notifications.
type ReconcileUsecase struct {
	records      repository.PaymentRecordRepository
	gateway      provider.IncomingPaymentGateway
	resourceBase string
	logger       *zap.Logger
}

func NewReconcileUsecase(
	records repository.PaymentRecordRepository,
	gateway provider.IncomingPaymentGateway,
	resourceBase string,
	logger *zap.Logger,
) *ReconcileUsecase {
	return &ReconcileUsecase{
		records:      records,
		gateway:      gateway,
		resourceBase: resourceBase,
		logger:       logger,
	}
}

// PollStatus fetches the remote resource and, when the body carries both a
// correlation id and a status, merges them into the matching record. The raw
// remote response is always returned to the caller; a failed or unmatched
// merge is logged and swallowed.
func (u *ReconcileUsecase) PollStatus(ctx context.Context, ref string) (*provider.RemoteResponse, error) {
	op, err := u.gateway.FetchResource(ctx, u.resolve(ref))
	if err != nil {
		return nil, err
	}

	localID, status := extractPolledStatus(op)
	if localID == "" || status == "" {
		u.logger.Debug("Polled response carried no mergeable status",
			zap.String("ref", ref),
			zap.String("local_id", localID),
			zap.String("status", status))
		return op, nil
	}

	if err := u.records.UpdateByLocalID(ctx, localID, status, remoteBlob(op), nil); err != nil {
		// The poll response still goes back to the caller.
		u.logger.Warn("Failed to merge polled status into record",
			zap.String("local_id", localID),
			zap.String("status", status),
			zap.Error(err))
	}

	return op, nil
}

// resolve treats an absolute URL as-is and resolves anything else against the
// configured resource base URL.
func (u *ReconcileUsecase) resolve(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimRight(u.resourceBase, "/") + "/" + strings.TrimLeft(ref, "/")
}

// extractPolledStatus pulls the correlation id and a status value out of a
// polled resource body. A resource without an explicit status but with a
// receiveAmount is reported as received.
func extractPolledStatus(op *provider.RemoteResponse) (localID, status string) {
	if op.JSON == nil {
		return "", ""
	}

	localID = nestedString(op.JSON, "metadata", "localId")

	if s, ok := op.JSON["status"].(string); ok && s != "" {
		status = s
	} else if _, ok := op.JSON["receiveAmount"]; ok {
		status = model.RecordStatusReceived
	}

	return localID, status
}

// WebhookOutcome reports what a webhook delivery did to the record store.
type WebhookOutcome struct {
	LocalID     string
	Status      string
	ResourceURL string
	Applied     bool
}

// ApplyWebhook merges a pushed notification into the matching record. A
// payload with no recognizable correlation id is accepted and dropped; an
// update failure is logged and swallowed so the sender never sees an error
// for a business-level mismatch.
func (u *ReconcileUsecase) ApplyWebhook(ctx context.Context, payload map[string]interface{}) WebhookOutcome {
	outcome := WebhookOutcome{
		LocalID:     ExtractWebhookLocalID(payload),
		Status:      extractWebhookStatus(payload),
		ResourceURL: extractWebhookResourceURL(payload),
	}

	if outcome.LocalID == "" {
		u.logger.Info("Webhook carried no local correlation id, dropped")
		return outcome
	}

	var resourceURL *string
	if outcome.ResourceURL != "" {
		resourceURL = &outcome.ResourceURL
	}

	if err := u.records.UpdateByLocalID(ctx, outcome.LocalID, outcome.Status, model.JSONB(payload), resourceURL); err != nil {
		u.logger.Warn("Failed to merge webhook into record",
			zap.String("local_id", outcome.LocalID),
			zap.String("status", outcome.Status),
			zap.Error(err))
		return outcome
	}

	outcome.Applied = true
	u.logger.Info("Webhook merged into record",
		zap.String("local_id", outcome.LocalID),
		zap.String("status", outcome.Status))

	return outcome
}

// ExtractWebhookLocalID checks the known payload shapes in order.
func ExtractWebhookLocalID(payload map[string]interface{}) string {
	if v := nestedString(payload, "data", "metadata", "localId"); v != "" {
		return v
	}
	if v := nestedString(payload, "metadata", "localId"); v != "" {
		return v
	}
	return nestedString(payload, "metadata", "local_id")
}

func extractWebhookStatus(payload map[string]interface{}) string {
	if v := nestedString(payload, "data", "status"); v != "" {
		return v
	}
	if v := nestedString(payload, "status"); v != "" {
		return v
	}
	return model.RecordStatusWebhookUpdated
}

func extractWebhookResourceURL(payload map[string]interface{}) string {
	if v := nestedString(payload, "data", "id"); v != "" {
		return v
	}
	return nestedString(payload, "id")
}
