package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

func scanFederateState(row *sql.Row) (*models.FederateState, error) {
	fs := &models.FederateState{}
	var paymentID sql.NullString
	var front, back sql.NullString
	if err := row.Scan(&fs.UserDni, &fs.State, &fs.AutoRenewal, &fs.DniLastUpdate,
		&front, &back, &paymentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	fs.FrontImageKey = front.String
	fs.BackImageKey = back.String
	if paymentID.Valid {
		fs.PaymentID = &paymentID.String
	}
	return fs, nil
}

// GetFederateState возвращает федеративный статус пользователя по DNI.
func (s *Storage) GetFederateState(ctx context.Context, userDni string) (*models.FederateState, error) {
	const op = "storage.GetFederateState"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT user_dni, state, auto_renewal, dni_last_update,
		     front_image_key, back_image_key, payment_id
		 FROM federate_states WHERE user_dni = $1`, userDni)
	fs, err := scanFederateState(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return fs, nil
}

// UpdateFederateImages заменяет ключи изображений DNI и дату обновления документов.
func (s *Storage) UpdateFederateImages(ctx context.Context, userDni, frontKey, backKey string) error {
	const op = "storage.UpdateFederateImages"
	res, err := s.DB.ExecContext(ctx,
		`UPDATE federate_states
		 SET front_image_key = $1, back_image_key = $2, dni_last_update = CURRENT_DATE
		 WHERE user_dni = $3`,
		frontKey, backKey, userDni)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}

// ToggleFederateAutoRenewal инвертирует флаг автопродления одним UPDATE.
// Инверсия выполняется в самой базе, а условие state = FEDERATE входит в тот
// же оператор: два конкурентных переключения не схлопываются в одно, а отмена
// федерирования между чтением и записью не пропускает переключение.
func (s *Storage) ToggleFederateAutoRenewal(ctx context.Context, userDni string) error {
	const op = "storage.ToggleFederateAutoRenewal"
	res, err := s.DB.ExecContext(ctx,
		`UPDATE federate_states SET auto_renewal = NOT auto_renewal
		 WHERE user_dni = $1 AND state = $2`,
		userDni, models.FederateStateFederate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrInvalidState)
	}
	return nil
}

// UpdateFederateState переводит запись из состояния from в to.
// Условие state = from входит в сам UPDATE: переход, прочитанный до
// конкурентной смены состояния, не применяется вслепую. Ноль затронутых
// строк означает, что запись уже не в from (или её нет) — ErrInvalidState.
func (s *Storage) UpdateFederateState(ctx context.Context, userDni, from, to string) error {
	const op = "storage.UpdateFederateState"
	res, err := s.DB.ExecContext(ctx,
		`UPDATE federate_states SET state = $1 WHERE user_dni = $2 AND state = $3`,
		to, userDni, from)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrInvalidState)
	}
	return nil
}

// EnrollFederateWithPayment атомарно создаёт платёж за федерирование
// и переводит запись в IN_PROGRESS, привязывая платёж и ключи изображений.
// Строка статуса блокируется FOR UPDATE: одновременные federate/confirm
// для одного пользователя сериализуются на уровне строки.
func (s *Storage) EnrollFederateWithPayment(ctx context.Context, userDni, frontKey, backKey string, autoRenewal bool, payment *models.Payment) error {
	const op = "storage.EnrollFederateWithPayment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var state string
		if err := tx.QueryRowContext(ctx,
			`SELECT state FROM federate_states WHERE user_dni = $1 FOR UPDATE`,
			userDni).Scan(&state); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.ErrNotFound
			}
			return err
		}
		if state != models.FederateStateNo {
			return models.ErrInvalidState
		}
		if err := insertPaymentTx(ctx, tx, payment); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE federate_states
			 SET state = $1, auto_renewal = $2, dni_last_update = CURRENT_DATE,
			     front_image_key = $3, back_image_key = $4, payment_id = $5
			 WHERE user_dni = $6`,
			models.FederateStateInProgress, autoRenewal, frontKey, backKey,
			payment.ID, userDni)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CancelFederateWithPayment атомарно переводит запись в NO_FEDERATE,
// отвязывает платёж и удаляет его из книги платежей.
func (s *Storage) CancelFederateWithPayment(ctx context.Context, userDni string) error {
	const op = "storage.CancelFederateWithPayment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var state string
		var paymentID sql.NullString
		if err := tx.QueryRowContext(ctx,
			`SELECT state, payment_id FROM federate_states WHERE user_dni = $1 FOR UPDATE`,
			userDni).Scan(&state, &paymentID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.ErrNotFound
			}
			return err
		}
		if state != models.FederateStateFederate {
			return models.ErrInvalidState
		}
		if !paymentID.Valid {
			return models.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE federate_states
			 SET state = $1, payment_id = NULL,
			     front_image_key = NULL, back_image_key = NULL
			 WHERE user_dni = $2`,
			models.FederateStateNo, userDni); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`DELETE FROM payments WHERE id = $1`, paymentID.String)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return models.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
