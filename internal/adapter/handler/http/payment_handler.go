package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/merchbridge/payment-service/internal/usecase"
	apperrors "github.com/merchbridge/payment-service/pkg/errors"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	usecase  *usecase.PaymentUsecase
	validate *validator.Validate
	logger   *zap.Logger
}

func NewPaymentHandler(uc *usecase.PaymentUsecase, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		usecase:  uc,
		validate: validator.New(),
		logger:   logger,
	}
}

// amountField accepts either a JSON number or a JSON string. String values
// are taken verbatim so malformed numeric text reaches the amount validation
// instead of failing the bind.
type amountField string

func (a *amountField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = amountField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = amountField(n)
	return nil
}

// CreatePaymentRequest is the merchant-facing creation payload.
type CreatePaymentRequest struct {
	Amount           amountField `json:"amount" validate:"required"`
	Currency         string      `json:"currency"`
	Payee            string      `json:"payee" validate:"required"`
	Memo             string      `json:"memo"`
	ExpiresInSeconds float64     `json:"expiresInSeconds"`
}

func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	var req CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Warn("Malformed create-payment body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "amount and payee required",
		})
	}

	result, err := h.usecase.CreatePayment(c.Request().Context(), usecase.CreatePaymentInput{
		Amount:           string(req.Amount),
		Currency:         req.Currency,
		Payee:            req.Payee,
		Memo:             req.Memo,
		ExpiresInSeconds: req.ExpiresInSeconds,
	})
	if err != nil {
		status := apperrors.HTTPStatusOf(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Create payment failed", zap.Error(err))
		}
		return c.JSON(status, echo.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"localId":      result.LocalID,
		"localDbId":    result.RecordID,
		"resource_url": result.ResourceURL,
		"op":           result.Op,
	})
}

func (h *PaymentHandler) GetPayment(c echo.Context) error {
	record, err := h.usecase.GetRecord(c.Request().Context(), c.Param("id"))
	if err != nil {
		status := apperrors.HTTPStatusOf(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Failed to get payment record",
				zap.String("id", c.Param("id")),
				zap.Error(err))
		}
		return c.JSON(status, echo.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, record)
}

// ListPayments returns up to 100 most recent records, newest first.
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	rows, err := h.usecase.ListRecent(c.Request().Context(), 100)
	if err != nil {
		h.logger.Error("Failed to list payment records", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(rows),
		"rows":  rows,
	})
}
