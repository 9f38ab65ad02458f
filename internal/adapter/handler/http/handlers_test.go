package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/merchbridge/payment-service/internal/domain/model"
	"github.com/merchbridge/payment-service/internal/domain/provider"
	"github.com/merchbridge/payment-service/internal/usecase"
	apperrors "github.com/merchbridge/payment-service/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeRecordRepo is an in-memory record store honoring the repository
// contract, including the no-op semantics of UpdateByLocalID.
type fakeRecordRepo struct {
	records []*model.PaymentRecord
	updates int
}

func (f *fakeRecordRepo) Insert(ctx context.Context, record *model.PaymentRecord) error {
	for _, r := range f.records {
		if r.ID == record.ID {
			return apperrors.NewAppError(apperrors.ErrConflict, "payment record already exists", nil)
		}
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeRecordRepo) UpdateByLocalID(ctx context.Context, localID, status string, remoteResponse model.JSONB, resourceURL *string) error {
	for _, r := range f.records {
		if r.LocalID == localID {
			r.Status = status
			r.RemoteResponse = remoteResponse
			if resourceURL != nil && *resourceURL != "" {
				r.ResourceURL = resourceURL
			}
			r.UpdatedAt = time.Now()
			f.updates++
			return nil
		}
	}
	return nil
}

func (f *fakeRecordRepo) GetByID(ctx context.Context, id string) (*model.PaymentRecord, error) {
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, apperrors.NewAppError(apperrors.ErrNotFound, "payment record not found", nil)
}

func (f *fakeRecordRepo) GetByLocalID(ctx context.Context, localID string) (*model.PaymentRecord, error) {
	for _, r := range f.records {
		if r.LocalID == localID {
			return r, nil
		}
	}
	return nil, apperrors.NewAppError(apperrors.ErrNotFound, "payment record not found", nil)
}

func (f *fakeRecordRepo) ListRecent(ctx context.Context, limit int) ([]*model.PaymentRecord, error) {
	out := make([]*model.PaymentRecord, len(f.records))
	copy(out, f.records)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeEventRepo struct {
	saved  []*model.WebhookEvent
	marked map[string]model.WebhookStatus
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{marked: make(map[string]model.WebhookStatus)}
}

func (f *fakeEventRepo) SaveEvent(ctx context.Context, event *model.WebhookEvent) error {
	f.saved = append(f.saved, event)
	return nil
}

func (f *fakeEventRepo) MarkProcessed(ctx context.Context, eventID string, status model.WebhookStatus) error {
	f.marked[eventID] = status
	return nil
}

type fakeGateway struct {
	createResp  *provider.RemoteResponse
	fetchResp   *provider.RemoteResponse
	createCalls int
}

func (f *fakeGateway) CreateIncomingPayment(ctx context.Context, req *provider.CreateIncomingPaymentRequest) (*provider.RemoteResponse, error) {
	f.createCalls++
	return f.createResp, nil
}

func (f *fakeGateway) FetchResource(ctx context.Context, url string) (*provider.RemoteResponse, error) {
	return f.fetchResp, nil
}

func TestPaymentHandler_CreatePayment(t *testing.T) {
	logger := zap.NewNop()

	t.Run("missing fields", func(t *testing.T) {
		repo := &fakeRecordRepo{}
		gateway := &fakeGateway{}
		handler := NewPaymentHandler(usecase.NewPaymentUsecase(repo, gateway, logger), logger)

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/create-payment", strings.NewReader(`{"amount":"5.00"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		err := handler.CreatePayment(e.NewContext(req, rec))

		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "amount and payee required")
		assert.Zero(t, gateway.createCalls)
		assert.Empty(t, repo.records)
	})

	t.Run("invalid amount", func(t *testing.T) {
		repo := &fakeRecordRepo{}
		gateway := &fakeGateway{}
		handler := NewPaymentHandler(usecase.NewPaymentUsecase(repo, gateway, logger), logger)

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/create-payment",
			strings.NewReader(`{"amount":"-1","payee":"https://wallet.example/merchant"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		err := handler.CreatePayment(e.NewContext(req, rec))

		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid amount")
		assert.Zero(t, gateway.createCalls)
	})

	t.Run("non-numeric string amount", func(t *testing.T) {
		repo := &fakeRecordRepo{}
		gateway := &fakeGateway{}
		handler := NewPaymentHandler(usecase.NewPaymentUsecase(repo, gateway, logger), logger)

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/create-payment",
			strings.NewReader(`{"amount":"five","payee":"https://wallet.example/merchant"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		err := handler.CreatePayment(e.NewContext(req, rec))

		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid amount")
		assert.Zero(t, gateway.createCalls)
	})

	t.Run("numeric amount accepted", func(t *testing.T) {
		repo := &fakeRecordRepo{}
		gateway := &fakeGateway{
			createResp: &provider.RemoteResponse{
				StatusCode: http.StatusCreated,
				Headers:    http.Header{},
				JSON:       map[string]interface{}{"id": "https://wallet.example/incoming-payments/abc"},
			},
		}
		handler := NewPaymentHandler(usecase.NewPaymentUsecase(repo, gateway, logger), logger)

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/create-payment",
			strings.NewReader(`{"amount":5.00,"payee":"https://wallet.example/merchant"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		err := handler.CreatePayment(e.NewContext(req, rec))

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":true`)
		assert.Contains(t, rec.Body.String(), "https://wallet.example/incoming-payments/abc")
		assert.Len(t, repo.records, 1)
		assert.Equal(t, model.RecordStatusCreated, repo.records[0].Status)
	})
}

func TestPaymentHandler_ListPayments(t *testing.T) {
	logger := zap.NewNop()
	repo := &fakeRecordRepo{}
	now := time.Now()
	for i, id := range []string{"a", "b", "c"} {
		repo.records = append(repo.records, &model.PaymentRecord{
			ID:        id,
			LocalID:   "local-" + id,
			Status:    model.RecordStatusPending,
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		})
	}

	handler := NewPaymentHandler(usecase.NewPaymentUsecase(repo, &fakeGateway{}, logger), logger)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/payments", nil)
	rec := httptest.NewRecorder()

	err := handler.ListPayments(e.NewContext(req, rec))

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":3`)
	// Newest first.
	body := rec.Body.String()
	assert.Less(t, strings.Index(body, "local-c"), strings.Index(body, "local-a"))
}

func TestStatusHandler_PollStatus(t *testing.T) {
	logger := zap.NewNop()

	t.Run("missing path", func(t *testing.T) {
		handler := NewStatusHandler(
			usecase.NewReconcileUsecase(&fakeRecordRepo{}, &fakeGateway{}, "", logger), logger)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/status/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("*")
		c.SetParamValues("")

		err := handler.PollStatus(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("poll merges and returns op", func(t *testing.T) {
		repo := &fakeRecordRepo{}
		repo.records = append(repo.records, &model.PaymentRecord{
			ID:      "rec-1",
			LocalID: "local-1",
			Status:  model.RecordStatusPending,
		})
		gateway := &fakeGateway{
			fetchResp: &provider.RemoteResponse{
				StatusCode: http.StatusOK,
				JSON: map[string]interface{}{
					"status":   "completed",
					"metadata": map[string]interface{}{"localId": "local-1"},
				},
			},
		}
		handler := NewStatusHandler(
			usecase.NewReconcileUsecase(repo, gateway, "https://wallet.example", logger), logger)

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/status/incoming-payments/abc", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("*")
		c.SetParamValues("incoming-payments/abc")

		err := handler.PollStatus(c)

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":true`)
		assert.Equal(t, "completed", repo.records[0].Status)
	})
}

func TestWebhookHandler_HandleWebhook(t *testing.T) {
	logger := zap.NewNop()

	newHandler := func(repo *fakeRecordRepo, events *fakeEventRepo) *WebhookHandler {
		reconcile := usecase.NewReconcileUsecase(repo, &fakeGateway{}, "", logger)
		return NewWebhookHandler(reconcile, events, logger)
	}

	post := func(handler *WebhookHandler, body string) *httptest.ResponseRecorder {
		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		err := handler.HandleWebhook(e.NewContext(req, rec))
		assert.NoError(t, err)
		return rec
	}

	t.Run("applies matching update", func(t *testing.T) {
		repo := &fakeRecordRepo{}
		repo.records = append(repo.records, &model.PaymentRecord{
			ID:      "rec-1",
			LocalID: "local-1",
			Status:  model.RecordStatusPending,
		})
		events := newFakeEventRepo()
		handler := newHandler(repo, events)

		rec := post(handler, `{
			"id": "evt-1",
			"type": "incoming_payment.completed",
			"data": {
				"id": "https://wallet.example/incoming-payments/abc",
				"status": "completed",
				"metadata": {"localId": "local-1"}
			}
		}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
		assert.Equal(t, "completed", repo.records[0].Status)
		assert.Equal(t, "https://wallet.example/incoming-payments/abc", *repo.records[0].ResourceURL)
		assert.Len(t, events.saved, 1)
		assert.Equal(t, model.WebhookStatusCompleted, events.marked["evt-1"])
	})

	t.Run("no recognizable local id still returns ok", func(t *testing.T) {
		repo := &fakeRecordRepo{}
		events := newFakeEventRepo()
		handler := newHandler(repo, events)

		rec := post(handler, `{"id":"evt-2","type":"ping","data":{"status":"completed"}}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
		assert.Zero(t, repo.updates)
		assert.Equal(t, model.WebhookStatusIgnored, events.marked["evt-2"])
	})

	t.Run("unmatched local id still returns ok", func(t *testing.T) {
		repo := &fakeRecordRepo{}
		events := newFakeEventRepo()
		handler := newHandler(repo, events)

		rec := post(handler, `{"id":"evt-3","metadata":{"localId":"nobody-home"}}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, repo.updates)
	})

	t.Run("non-JSON body accepted and dropped", func(t *testing.T) {
		repo := &fakeRecordRepo{}
		events := newFakeEventRepo()
		handler := newHandler(repo, events)

		rec := post(handler, "definitely not json")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
		assert.Empty(t, events.saved)
	})
}
