package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// MockRepository реализует интерфейс payment.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) InsertPayment(ctx context.Context, p *models.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockRepository) ListPaymentsByUser(ctx context.Context, userDni string) ([]*models.Payment, error) {
	args := m.Called(ctx, userDni)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockRepository) MarkPaymentPaid(ctx context.Context, id string, paidAt time.Time) error {
	args := m.Called(ctx, id, paidAt)
	return args.Error(0)
}

func (m *MockRepository) MarkPaymentCancelled(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) DeletePayment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestNewRecord(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		wantErr      bool
		errorMessage string
	}{
		{
			name:    "valid amount",
			amount:  50.0,
			wantErr: false,
		},
		{
			name:    "upper boundary is allowed",
			amount:  100.0,
			wantErr: false,
		},
		{
			name:         "amount above the club limit",
			amount:       100.01,
			wantErr:      true,
			errorMessage: "Amount greater than 100 is not valid",
		},
		{
			name:         "zero amount",
			amount:       0,
			wantErr:      true,
			errorMessage: "amount must be positive",
		},
		{
			name:         "negative amount",
			amount:       -10,
			wantErr:      true,
			errorMessage: "amount must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewRecord(tt.amount, models.PaymentCategoryOther, "test", "test", "12345678Z")

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, models.ErrValidation)
				assert.Contains(t, err.Error(), tt.errorMessage)
				assert.Nil(t, p)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, p.ID)
			assert.Equal(t, models.PaymentStateUnpaid, p.State)
			assert.Equal(t, tt.amount, p.Amount)
			assert.Nil(t, p.PaidAt)
		})
	}
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name      string
		amount    float64
		setupMock func(*MockRepository)
		wantErr   bool
	}{
		{
			name:   "successful create",
			amount: 15.0,
			setupMock: func(m *MockRepository) {
				m.On("InsertPayment", mock.Anything, mock.AnythingOfType("*models.Payment")).
					Return(nil).Once()
			},
			wantErr: false,
		},
		{
			name:      "amount above limit never reaches repository",
			amount:    150.0,
			setupMock: func(_ *MockRepository) {},
			wantErr:   true,
		},
		{
			name:   "repository error",
			amount: 15.0,
			setupMock: func(m *MockRepository) {
				m.On("InsertPayment", mock.Anything, mock.AnythingOfType("*models.Payment")).
					Return(errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setupMock(repo)
			service := New(repo, newNoopLogger())

			p, err := service.Create(context.Background(), tt.amount,
				models.PaymentCategoryFederate, "Chess federation enrollment fee", "Federate payment", "12345678Z")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, p)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.PaymentStateUnpaid, p.State)
				assert.Equal(t, "12345678Z", p.UserDni)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Pay(t *testing.T) {
	paidAt := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(*MockRepository)
		wantErr   error
	}{
		{
			name: "successful payment of unpaid record",
			setupMock: func(m *MockRepository) {
				m.On("GetPayment", mock.Anything, "pay-1").
					Return(&models.Payment{ID: "pay-1", State: models.PaymentStateUnpaid}, nil).Once()
				m.On("MarkPaymentPaid", mock.Anything, "pay-1", paidAt).Return(nil).Once()
			},
		},
		{
			name: "already paid",
			setupMock: func(m *MockRepository) {
				m.On("GetPayment", mock.Anything, "pay-1").
					Return(&models.Payment{ID: "pay-1", State: models.PaymentStatePaid}, nil).Once()
			},
			wantErr: models.ErrInvalidState,
		},
		{
			name: "cancelled record cannot be paid",
			setupMock: func(m *MockRepository) {
				m.On("GetPayment", mock.Anything, "pay-1").
					Return(&models.Payment{ID: "pay-1", State: models.PaymentStateCancelled}, nil).Once()
			},
			wantErr: models.ErrInvalidState,
		},
		{
			name: "unknown payment",
			setupMock: func(m *MockRepository) {
				m.On("GetPayment", mock.Anything, "pay-1").
					Return(nil, models.ErrNotFound).Once()
			},
			wantErr: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setupMock(repo)
			service := New(repo, newNoopLogger())

			p, err := service.Pay(context.Background(), "pay-1", paidAt)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.PaymentStatePaid, p.State)
				require.NotNil(t, p.PaidAt)
				assert.Equal(t, paidAt, *p.PaidAt)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Cancel(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*MockRepository)
		wantErr   error
	}{
		{
			name: "cancel unpaid record",
			setupMock: func(m *MockRepository) {
				m.On("GetPayment", mock.Anything, "pay-1").
					Return(&models.Payment{ID: "pay-1", State: models.PaymentStateUnpaid}, nil).Once()
				m.On("MarkPaymentCancelled", mock.Anything, "pay-1").Return(nil).Once()
			},
		},
		{
			name: "cancel paid record is allowed",
			setupMock: func(m *MockRepository) {
				m.On("GetPayment", mock.Anything, "pay-1").
					Return(&models.Payment{ID: "pay-1", State: models.PaymentStatePaid}, nil).Once()
				m.On("MarkPaymentCancelled", mock.Anything, "pay-1").Return(nil).Once()
			},
		},
		{
			name: "double cancel is rejected",
			setupMock: func(m *MockRepository) {
				m.On("GetPayment", mock.Anything, "pay-1").
					Return(&models.Payment{ID: "pay-1", State: models.PaymentStateCancelled}, nil).Once()
			},
			wantErr: models.ErrInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setupMock(repo)
			service := New(repo, newNoopLogger())

			p, err := service.Cancel(context.Background(), "pay-1")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.PaymentStateCancelled, p.State)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_ListByUser(t *testing.T) {
	repo := new(MockRepository)
	payments := []*models.Payment{
		{ID: "pay-1", UserDni: "12345678Z", State: models.PaymentStateUnpaid},
		{ID: "pay-2", UserDni: "12345678Z", State: models.PaymentStatePaid},
	}
	repo.On("ListPaymentsByUser", mock.Anything, "12345678Z").Return(payments, nil).Once()

	service := New(repo, newNoopLogger())
	got, err := service.ListByUser(context.Background(), "12345678Z")

	require.NoError(t, err)
	assert.Len(t, got, 2)
	repo.AssertExpectations(t)
}
