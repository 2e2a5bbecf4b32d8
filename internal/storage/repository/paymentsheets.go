package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// InsertPaymentSheet сохраняет новый авансовый отчёт и возвращает его ID.
func (s *Storage) InsertPaymentSheet(ctx context.Context, ps models.PaymentSheet) (int, error) {
	const op = "storage.InsertPaymentSheet"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO payment_sheets (user_dni, reason, place, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		ps.UserDni, ps.Reason, ps.Place, ps.StartDate, ps.EndDate).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPaymentSheet возвращает авансовый отчёт по ID.
func (s *Storage) GetPaymentSheet(ctx context.Context, id int) (*models.PaymentSheet, error) {
	const op = "storage.GetPaymentSheet"
	ps := &models.PaymentSheet{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, user_dni, reason, place, start_date, end_date
		 FROM payment_sheets WHERE id = $1`, id).
		Scan(&ps.ID, &ps.UserDni, &ps.Reason, &ps.Place, &ps.StartDate, &ps.EndDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// ListPaymentSheets возвращает все авансовые отчёты.
func (s *Storage) ListPaymentSheets(ctx context.Context) ([]*models.PaymentSheet, error) {
	const op = "storage.ListPaymentSheets"
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, user_dni, reason, place, start_date, end_date
		 FROM payment_sheets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	result := make([]*models.PaymentSheet, 0)
	for rows.Next() {
		ps := &models.PaymentSheet{}
		if err = rows.Scan(&ps.ID, &ps.UserDni, &ps.Reason, &ps.Place,
			&ps.StartDate, &ps.EndDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, ps)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeletePaymentSheet удаляет авансовый отчёт по ID.
func (s *Storage) DeletePaymentSheet(ctx context.Context, id int) error {
	const op = "storage.DeletePaymentSheet"
	res, err := s.DB.ExecContext(ctx, `DELETE FROM payment_sheets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}
