package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// RegisterUser сохраняет нового пользователя вместе с его ролями
// и начальным федеративным статусом NO_FEDERATE в одной транзакции.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) error {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE dni = $1 OR email = $2)`,
		user.Dni, user.Email).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return fmt.Errorf("%s: %w", op, models.ErrAlreadyExists)
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (dni, email, password_hash, name, surnames, birth_date,
			     gender, kind, enabled)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			user.Dni, user.Email, user.PasswordHash, user.Name, user.Surnames,
			user.BirthDate, user.Gender, user.Kind, user.Enabled)
		if err != nil {
			return err
		}
		for _, role := range user.Roles {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO user_roles (user_dni, role) VALUES ($1, $2)`,
				user.Dni, role); err != nil {
				return err
			}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO federate_states (user_dni, state, auto_renewal, dni_last_update)
			 VALUES ($1, $2, FALSE, CURRENT_DATE)`,
			user.Dni, models.FederateStateNo)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

const userColumns = `u.dni, u.email, u.password_hash, u.name, u.surnames, u.birth_date,
	u.gender, u.kind, u.enabled, u.team_name, u.created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var teamName sql.NullString
	if err := row.Scan(&u.Dni, &u.Email, &u.PasswordHash, &u.Name, &u.Surnames,
		&u.BirthDate, &u.Gender, &u.Kind, &u.Enabled, &teamName, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	if teamName.Valid {
		u.TeamName = &teamName.String
	}
	return u, nil
}

func (s *Storage) loadRoles(ctx context.Context, dni string) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT role FROM user_roles WHERE user_dni = $1 ORDER BY role`, dni)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()
	var roles []string
	for rows.Next() {
		var r string
		if err = rows.Scan(&r); err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

// GetUserByDni возвращает пользователя с его ролями по DNI.
func (s *Storage) GetUserByDni(ctx context.Context, dni string) (*models.User, error) {
	const op = "storage.GetUserByDni"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.dni = $1`, dni)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u.Roles, err = s.loadRoles(ctx, u.Dni); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя с его ролями по электронной почте.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u.Roles, err = s.loadRoles(ctx, u.Dni); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает список пользователей с пагинацией, без наборов ролей.
func (s *Storage) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT dni, email, name, surnames, birth_date, gender, kind, enabled, team_name, created_at
		 FROM users ORDER BY created_at LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u := &models.User{}
		var teamName sql.NullString
		if err = rows.Scan(&u.Dni, &u.Email, &u.Name, &u.Surnames, &u.BirthDate,
			&u.Gender, &u.Kind, &u.Enabled, &teamName, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if teamName.Valid {
			u.TeamName = &teamName.String
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateProfile обновляет профиль пользователя.
func (s *Storage) UpdateProfile(ctx context.Context, dni, name, surnames, gender string, birthDate time.Time) error {
	const op = "storage.UpdateProfile"
	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET name = $1, surnames = $2, gender = $3, birth_date = $4 WHERE dni = $5`,
		name, surnames, gender, birthDate, dni)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}

// UpdateEmail обновляет электронную почту пользователя.
func (s *Storage) UpdateEmail(ctx context.Context, dni, email string) error {
	const op = "storage.UpdateEmail"
	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET email = $1 WHERE dni = $2`, email, dni)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}

// UpdatePassword обновляет хэш пароля пользователя.
func (s *Storage) UpdatePassword(ctx context.Context, dni, passwordHash string) error {
	const op = "storage.UpdatePassword"
	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET password_hash = $1 WHERE dni = $2`, passwordHash, dni)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}

// UpdateKind обновляет вид членства пользователя.
func (s *Storage) UpdateKind(ctx context.Context, dni, kind string) error {
	const op = "storage.UpdateKind"
	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET kind = $1 WHERE dni = $2`, kind, dni)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}

// SetEnabled включает или отключает учётную запись (мягкая отписка).
func (s *Storage) SetEnabled(ctx context.Context, dni string, enabled bool) error {
	const op = "storage.SetEnabled"
	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET enabled = $1 WHERE dni = $2`, enabled, dni)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}

// AddRole добавляет роль пользователю, повторное добавление не ошибка.
func (s *Storage) AddRole(ctx context.Context, dni, role string) error {
	const op = "storage.AddRole"
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO user_roles (user_dni, role) VALUES ($1, $2)
		 ON CONFLICT (user_dni, role) DO NOTHING`, dni, role)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveRole удаляет роль пользователя.
func (s *Storage) RemoveRole(ctx context.Context, dni, role string) error {
	const op = "storage.RemoveRole"
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_dni = $1 AND role = $2`, dni, role)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReplaceRoleAndInsertPayment атомарно заменяет единственную роль пользователя
// и, если fee не nil, создаёт платёж членского взноса. Строка пользователя
// блокируется FOR UPDATE, чтобы конкурирующие принятия не потеряли обновления.
func (s *Storage) ReplaceRoleAndInsertPayment(ctx context.Context, dni, oldRole, newRole string, payment *models.Payment) error {
	const op = "storage.ReplaceRoleAndInsertPayment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var lockedDni string
		if err := tx.QueryRowContext(ctx,
			`SELECT dni FROM users WHERE dni = $1 FOR UPDATE`, dni).Scan(&lockedDni); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return models.ErrNotFound
			}
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE user_roles SET role = $1 WHERE user_dni = $2 AND role = $3`,
			newRole, dni, oldRole); err != nil {
			return err
		}
		if payment != nil {
			if err := insertPaymentTx(ctx, tx, payment); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteUser удаляет пользователя; роли и федеративный статус
// удаляются каскадно на уровне схемы.
func (s *Storage) DeleteUser(ctx context.Context, dni string) error {
	const op = "storage.DeleteUser"
	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE dni = $1`, dni)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}

func checkAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}
