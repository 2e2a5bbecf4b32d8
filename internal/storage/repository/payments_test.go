package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &Storage{DB: db}, mock
}

var paymentColumns = []string{
	"id", "amount", "category", "title", "description", "user_dni",
	"state", "created_at", "paid_at",
}

func TestGetPayment_Unit(t *testing.T) {
	storage, mock := newMockStorage(t)
	createdAt := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, amount, category, title, description, user_dni, state, created_at, paid_at`)).
		WithArgs("pay-1").
		WillReturnRows(sqlmock.NewRows(paymentColumns).
			AddRow("pay-1", 15.0, models.PaymentCategoryFederate, "Federate payment",
				"Chess federation enrollment fee", "12345678Z",
				models.PaymentStateUnpaid, createdAt, nil))

	p, err := storage.GetPayment(context.Background(), "pay-1")
	require.NoError(t, err)
	assert.Equal(t, "pay-1", p.ID)
	assert.Equal(t, 15.0, p.Amount)
	assert.Equal(t, models.PaymentStateUnpaid, p.State)
	assert.Nil(t, p.PaidAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPayment_Unit_NotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, amount`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(paymentColumns))

	_, err := storage.GetPayment(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertPayment_Unit(t *testing.T) {
	storage, mock := newMockStorage(t)
	p := testPayment("12345678Z", 15)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO payments`)).
		WithArgs(p.ID, p.Amount, p.Category, p.Title, p.Description, p.UserDni,
			p.State, p.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := storage.InsertPayment(context.Background(), p)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaymentPaid_Unit(t *testing.T) {
	storage, mock := newMockStorage(t)
	paidAt := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		rowsAffected int64
		execErr      error
		wantErr      error
	}{
		{name: "success", rowsAffected: 1},
		{name: "payment missing", rowsAffected: 0, wantErr: models.ErrNotFound},
		{name: "database error", execErr: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := mock.ExpectExec(regexp.QuoteMeta(`UPDATE payments SET state = $1, paid_at = $2 WHERE id = $3`)).
				WithArgs(models.PaymentStatePaid, paidAt, "pay-1")
			if tt.execErr != nil {
				exec.WillReturnError(tt.execErr)
			} else {
				exec.WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))
			}

			err := storage.MarkPaymentPaid(context.Background(), "pay-1", paidAt)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.execErr != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePayment_Unit_NotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM payments WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := storage.DeletePayment(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPaymentsByUser_Unit_Empty(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM payments WHERE user_dni = $1`)).
		WithArgs("12345678Z").
		WillReturnRows(sqlmock.NewRows(paymentColumns))

	payments, err := storage.ListPaymentsByUser(context.Background(), "12345678Z")
	require.NoError(t, err)
	assert.NotNil(t, payments)
	assert.Empty(t, payments)
	assert.NoError(t, mock.ExpectationsWereMet())
}
