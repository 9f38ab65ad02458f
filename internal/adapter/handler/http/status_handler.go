package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/merchbridge/payment-service/internal/usecase"
	"go.uber.org/zap"
)

type StatusHandler struct {
	reconcile *usecase.ReconcileUsecase
	logger    *zap.Logger
}

func NewStatusHandler(reconcile *usecase.ReconcileUsecase, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		reconcile: reconcile,
		logger:    logger,
	}
}

// PollStatus serves GET /status/*. Everything after the prefix is the
// resource reference, either an absolute URL or a path relative to the
// configured resource base.
func (h *StatusHandler) PollStatus(c echo.Context) error {
	ref := c.Param("*")
	if ref == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "status path required",
		})
	}

	op, err := h.reconcile.PollStatus(c.Request().Context(), ref)
	if err != nil {
		h.logger.Error("Status poll failed",
			zap.String("ref", ref),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"op":      op,
	})
}
