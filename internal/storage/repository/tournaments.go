package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// InsertTournamentParticipant сохраняет участника турнира,
// идентификатор FIDE должен быть уникален.
func (s *Storage) InsertTournamentParticipant(ctx context.Context, tp models.TournamentParticipant) error {
	const op = "storage.InsertTournamentParticipant"
	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tournament_participants WHERE fide_id = $1)`,
		tp.FideID).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return fmt.Errorf("%s: %w", op, models.ErrAlreadyExists)
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO tournament_participants (fide_id, name, club, birth_date, category, byes)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		tp.FideID, tp.Name, tp.Club, tp.BirthDate, tp.Category, tp.Byes)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetTournamentParticipant возвращает участника по идентификатору FIDE.
func (s *Storage) GetTournamentParticipant(ctx context.Context, fideID int64) (*models.TournamentParticipant, error) {
	const op = "storage.GetTournamentParticipant"
	tp := &models.TournamentParticipant{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT fide_id, name, club, birth_date, category, byes
		 FROM tournament_participants WHERE fide_id = $1`, fideID).
		Scan(&tp.FideID, &tp.Name, &tp.Club, &tp.BirthDate, &tp.Category, &tp.Byes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tp, nil
}

// ListTournamentParticipants возвращает всех участников турнира.
func (s *Storage) ListTournamentParticipants(ctx context.Context) ([]*models.TournamentParticipant, error) {
	const op = "storage.ListTournamentParticipants"
	rows, err := s.DB.QueryContext(ctx,
		`SELECT fide_id, name, club, birth_date, category, byes
		 FROM tournament_participants ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	result := make([]*models.TournamentParticipant, 0)
	for rows.Next() {
		tp := &models.TournamentParticipant{}
		if err = rows.Scan(&tp.FideID, &tp.Name, &tp.Club, &tp.BirthDate,
			&tp.Category, &tp.Byes); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, tp)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateTournamentParticipantByes обновляет заявленные пропуски туров.
func (s *Storage) UpdateTournamentParticipantByes(ctx context.Context, fideID int64, byes string) error {
	const op = "storage.UpdateTournamentParticipantByes"
	res, err := s.DB.ExecContext(ctx,
		`UPDATE tournament_participants SET byes = $1 WHERE fide_id = $2`, byes, fideID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}

// DeleteTournamentParticipant удаляет участника по идентификатору FIDE.
func (s *Storage) DeleteTournamentParticipant(ctx context.Context, fideID int64) error {
	const op = "storage.DeleteTournamentParticipant"
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM tournament_participants WHERE fide_id = $1`, fideID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}
