package usecase_test

import (
	"context"

	"github.com/merchbridge/payment-service/internal/domain/model"
	"github.com/merchbridge/payment-service/internal/domain/provider"
	"github.com/stretchr/testify/mock"
)

// MockPaymentRecordRepository is a mock implementation of PaymentRecordRepository
type MockPaymentRecordRepository struct {
	mock.Mock
}

func (m *MockPaymentRecordRepository) Insert(ctx context.Context, record *model.PaymentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPaymentRecordRepository) UpdateByLocalID(ctx context.Context, localID, status string, remoteResponse model.JSONB, resourceURL *string) error {
	args := m.Called(ctx, localID, status, remoteResponse, resourceURL)
	return args.Error(0)
}

func (m *MockPaymentRecordRepository) GetByID(ctx context.Context, id string) (*model.PaymentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRecordRepository) GetByLocalID(ctx context.Context, localID string) (*model.PaymentRecord, error) {
	args := m.Called(ctx, localID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRecordRepository) ListRecent(ctx context.Context, limit int) ([]*model.PaymentRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PaymentRecord), args.Error(1)
}

// MockIncomingPaymentGateway is a mock implementation of IncomingPaymentGateway
type MockIncomingPaymentGateway struct {
	mock.Mock
}

func (m *MockIncomingPaymentGateway) CreateIncomingPayment(ctx context.Context, req *provider.CreateIncomingPaymentRequest) (*provider.RemoteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.RemoteResponse), args.Error(1)
}

func (m *MockIncomingPaymentGateway) FetchResource(ctx context.Context, url string) (*provider.RemoteResponse, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.RemoteResponse), args.Error(1)
}
