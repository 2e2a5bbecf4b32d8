package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

func insertPaymentTx(ctx context.Context, tx *sql.Tx, p *models.Payment) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO payments (id, amount, category, title, description, user_dni,
		     state, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Amount, p.Category, p.Title, p.Description, p.UserDni,
		p.State, p.CreatedAt)
	return err
}

// InsertPayment сохраняет новую запись платежа.
func (s *Storage) InsertPayment(ctx context.Context, p *models.Payment) error {
	const op = "storage.InsertPayment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO payments (id, amount, category, title, description, user_dni,
		     state, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Amount, p.Category, p.Title, p.Description, p.UserDni,
		p.State, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetPayment возвращает платёж по его идентификатору.
func (s *Storage) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	const op = "storage.GetPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	p := &models.Payment{}
	var paidAt sql.NullTime
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, amount, category, title, description, user_dni, state, created_at, paid_at
		 FROM payments WHERE id = $1`, id).
		Scan(&p.ID, &p.Amount, &p.Category, &p.Title, &p.Description, &p.UserDni,
			&p.State, &p.CreatedAt, &paidAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if paidAt.Valid {
		p.PaidAt = &paidAt.Time
	}
	return p, nil
}

// ListPaymentsByUser возвращает все платежи пользователя.
// Отсутствие платежей не ошибка: возвращается пустой срез.
func (s *Storage) ListPaymentsByUser(ctx context.Context, userDni string) ([]*models.Payment, error) {
	const op = "storage.ListPaymentsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, amount, category, title, description, user_dni, state, created_at, paid_at
		 FROM payments WHERE user_dni = $1 ORDER BY created_at`, userDni)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Payment, 0)
	for rows.Next() {
		p := &models.Payment{}
		var paidAt sql.NullTime
		if err = rows.Scan(&p.ID, &p.Amount, &p.Category, &p.Title, &p.Description,
			&p.UserDni, &p.State, &p.CreatedAt, &paidAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if paidAt.Valid {
			p.PaidAt = &paidAt.Time
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkPaymentPaid переводит платёж в PAID с указанной датой оплаты.
func (s *Storage) MarkPaymentPaid(ctx context.Context, id string, paidAt time.Time) error {
	const op = "storage.MarkPaymentPaid"
	res, err := s.DB.ExecContext(ctx,
		`UPDATE payments SET state = $1, paid_at = $2 WHERE id = $3`,
		models.PaymentStatePaid, paidAt, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}

// MarkPaymentCancelled переводит платёж в CANCELLED, дата оплаты не меняется.
func (s *Storage) MarkPaymentCancelled(ctx context.Context, id string) error {
	const op = "storage.MarkPaymentCancelled"
	res, err := s.DB.ExecContext(ctx,
		`UPDATE payments SET state = $1 WHERE id = $2`,
		models.PaymentStateCancelled, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}

// DeletePayment удаляет запись платежа. Используется только потоком
// отмены федеративного статуса.
func (s *Storage) DeletePayment(ctx context.Context, id string) error {
	const op = "storage.DeletePayment"
	res, err := s.DB.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}
