package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// InsertTeam сохраняет новую команду, название должно быть уникально.
func (s *Storage) InsertTeam(ctx context.Context, t models.Team) error {
	const op = "storage.InsertTeam"
	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM teams WHERE name = $1)`, t.Name).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return fmt.Errorf("%s: %w", op, models.ErrAlreadyExists)
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO teams (name, description) VALUES ($1, $2)`, t.Name, t.Description)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetTeam возвращает команду вместе со списком DNI её членов.
func (s *Storage) GetTeam(ctx context.Context, name string) (*models.Team, error) {
	const op = "storage.GetTeam"
	t := &models.Team{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT name, description FROM teams WHERE name = $1`, name).
		Scan(&t.Name, &t.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT dni FROM users WHERE team_name = $1 ORDER BY dni`, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	for rows.Next() {
		var dni string
		if err = rows.Scan(&dni); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		t.Members = append(t.Members, dni)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// ListTeams возвращает все команды без составов.
func (s *Storage) ListTeams(ctx context.Context) ([]*models.Team, error) {
	const op = "storage.ListTeams"
	rows, err := s.DB.QueryContext(ctx, `SELECT name, description FROM teams ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	result := make([]*models.Team, 0)
	for rows.Next() {
		t := &models.Team{}
		if err = rows.Scan(&t.Name, &t.Description); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AssignUserToTeam назначает пользователя в команду, nil снимает назначение.
func (s *Storage) AssignUserToTeam(ctx context.Context, dni string, teamName *string) error {
	const op = "storage.AssignUserToTeam"
	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET team_name = $1 WHERE dni = $2`, teamName, dni)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}

// DeleteTeam удаляет команду и снимает назначение у её членов в одной транзакции.
func (s *Storage) DeleteTeam(ctx context.Context, name string) error {
	const op = "storage.DeleteTeam"
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET team_name = NULL WHERE team_name = $1`, name); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM teams WHERE name = $1`, name)
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
