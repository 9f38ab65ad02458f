package http

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/merchbridge/payment-service/internal/domain/model"
	"github.com/merchbridge/payment-service/internal/domain/repository"
	"github.com/merchbridge/payment-service/internal/usecase"
	"go.uber.org/zap"
)

// WebhookHandler accepts pushed status notifications from the remote side.
// It reports success to the sender even when the notification matches no
// record, so that business-level mismatches never trigger redelivery storms.
type WebhookHandler struct {
	reconcile *usecase.ReconcileUsecase
	events    repository.WebhookEventRepository
	logger    *zap.Logger
}

func NewWebhookHandler(
	reconcile *usecase.ReconcileUsecase,
	events repository.WebhookEventRepository,
	logger *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		reconcile: reconcile,
		events:    events,
		logger:    logger,
	}
}

func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Failed to read webhook body", zap.Error(err))
		return c.String(http.StatusInternalServerError, "error")
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		// Unparsable deliveries are accepted and dropped, same as deliveries
		// with no recognizable correlation id.
		h.logger.Warn("Webhook body is not a JSON object", zap.Error(err))
		return c.String(http.StatusOK, "ok")
	}

	eventID, _ := payload["id"].(string)
	if eventID == "" {
		eventID = uuid.NewString()
	}
	eventType, _ := payload["type"].(string)

	h.logger.Info("Webhook received",
		zap.String("event_id", eventID),
		zap.String("event_type", eventType))

	h.saveEvent(c, eventID, eventType, payload)

	outcome := h.reconcile.ApplyWebhook(c.Request().Context(), payload)

	status := model.WebhookStatusIgnored
	if outcome.Applied {
		status = model.WebhookStatusCompleted
	}
	if err := h.events.MarkProcessed(c.Request().Context(), eventID, status); err != nil {
		h.logger.Warn("Failed to mark webhook event",
			zap.String("event_id", eventID),
			zap.Error(err))
	}

	return c.String(http.StatusOK, "ok")
}

// saveEvent writes the audit row before reconciliation runs; a storage
// failure is logged and does not block the delivery.
func (h *WebhookHandler) saveEvent(c echo.Context, eventID, eventType string, payload map[string]interface{}) {
	event := &model.WebhookEvent{
		EventID:          eventID,
		EventType:        eventType,
		ProcessingStatus: model.WebhookStatusPending,
		Payload:          model.JSONB(payload),
		CreatedAt:        time.Now(),
	}
	if localID := usecase.ExtractWebhookLocalID(payload); localID != "" {
		event.LocalID = &localID
	}

	if err := h.events.SaveEvent(c.Request().Context(), event); err != nil {
		h.logger.Warn("Failed to save webhook event",
			zap.String("event_id", eventID),
			zap.Error(err))
	}
}
