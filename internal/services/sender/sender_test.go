package sender

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/chessclub-membership/internal/lib/smtp"
	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func setupHappySMTP(t *MockTransport) {
	mockClient := new(MockSMTPClient)
	mockWriter := new(MockSMTPWriter)

	t.On("GetSMTPUser").Return("noreply@club.es")
	t.On("Connect").Return(mockClient, nil).Once()
	mockClient.On("Mail", "noreply@club.es").Return(nil).Once()
	mockClient.On("Rcpt", "socio@club.es").Return(nil).Once()
	mockClient.On("Data").Return(mockWriter, nil).Once()
	mockWriter.On("Write", mock.AnythingOfType("[]uint8")).Return(100, nil).Once()
	mockWriter.On("Close").Return(nil).Once()
	mockClient.On("Quit").Return(nil).Once()
	mockClient.On("Close").Return(nil).Once()
}

func TestService_HandleNotification(t *testing.T) {
	tests := []struct {
		name          string
		body          []byte
		setupMocks    func(*MockTransport)
		expectedError bool
		errorMessage  string
	}{
		{
			name:          "success - welcome email",
			body:          []byte(`{"kind":"welcome","email":"socio@club.es","name":"Maria"}`),
			setupMocks:    setupHappySMTP,
			expectedError: false,
		},
		{
			name:          "success - acceptance email",
			body:          []byte(`{"kind":"accepted","email":"socio@club.es","name":"Maria"}`),
			setupMocks:    setupHappySMTP,
			expectedError: false,
		},
		{
			name: "unknown kind is dropped without error",
			body: []byte(`{"kind":"mystery","email":"socio@club.es","name":"Maria"}`),
			setupMocks: func(_ *MockTransport) {
				// Неизвестный вид уведомления не должен доходить до транспорта
			},
			expectedError: false,
		},
		{
			name: "invalid JSON is dropped without error",
			body: []byte(`invalid json`),
			setupMocks: func(_ *MockTransport) {
				// Кривое тело подтверждается без отправки, иначе оно
				// будет бесконечно передоставляться из очереди
			},
			expectedError: false,
		},
		{
			name: "SMTP connection error",
			body: []byte(`{"kind":"welcome","email":"socio@club.es","name":"Maria"}`),
			setupMocks: func(t *MockTransport) {
				t.On("GetSMTPUser").Return("noreply@club.es")
				t.On("Connect").Return(nil, errors.New("connection error")).Once()
			},
			expectedError: true,
			errorMessage:  "connection error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			service := New(transport, newNoopLogger())

			tt.setupMocks(transport)

			err := service.HandleNotification(tt.body)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMessage)
			} else {
				assert.NoError(t, err)
			}

			transport.AssertExpectations(t)
		})
	}
}

func TestService_HandleNotification_SendFailureWrapsIOError(t *testing.T) {
	transport := new(MockTransport)
	transport.On("GetSMTPUser").Return("noreply@club.es")
	transport.On("Connect").Return(nil, errors.New("connection refused")).Once()

	service := New(transport, newNoopLogger())
	err := service.HandleNotification([]byte(`{"kind":"accepted","email":"socio@club.es","name":"Maria"}`))

	assert.Error(t, err)
	assert.ErrorIs(t, err, models.ErrIO)
	transport.AssertExpectations(t)
}

func TestService_SMTPErrorHandling(t *testing.T) {
	body := []byte(`{"kind":"welcome","email":"socio@club.es","name":"Maria"}`)

	tests := []struct {
		name          string
		setupMocks    func(*MockTransport)
		errorMessage  string
	}{
		{
			name: "SMTP Mail error",
			setupMocks: func(t *MockTransport) {
				mockClient := new(MockSMTPClient)

				t.On("GetSMTPUser").Return("noreply@club.es")
				t.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "noreply@club.es").Return(errors.New("mail error")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			errorMessage: "mail error",
		},
		{
			name: "SMTP Rcpt error",
			setupMocks: func(t *MockTransport) {
				mockClient := new(MockSMTPClient)

				t.On("GetSMTPUser").Return("noreply@club.es")
				t.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "noreply@club.es").Return(nil).Once()
				mockClient.On("Rcpt", "socio@club.es").Return(errors.New("rcpt error")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			errorMessage: "rcpt error",
		},
		{
			name: "SMTP Data error",
			setupMocks: func(t *MockTransport) {
				mockClient := new(MockSMTPClient)

				t.On("GetSMTPUser").Return("noreply@club.es")
				t.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "noreply@club.es").Return(nil).Once()
				mockClient.On("Rcpt", "socio@club.es").Return(nil).Once()
				mockClient.On("Data").Return(nil, errors.New("data error")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			errorMessage: "data error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			service := New(transport, newNoopLogger())

			tt.setupMocks(transport)

			err := service.HandleNotification(body)

			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMessage)

			transport.AssertExpectations(t)
		})
	}
}
