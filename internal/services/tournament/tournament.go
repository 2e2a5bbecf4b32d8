// Package tournament содержит бизнес-логику списка участников турнира клуба.
package tournament

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

const dateLayout = "02-01-2006"

// Repository определяет методы для работы с участниками турнира в хранилище.
type Repository interface {
	InsertTournamentParticipant(ctx context.Context, tp models.TournamentParticipant) error
	GetTournamentParticipant(ctx context.Context, fideID int64) (*models.TournamentParticipant, error)
	ListTournamentParticipants(ctx context.Context) ([]*models.TournamentParticipant, error)
	UpdateTournamentParticipantByes(ctx context.Context, fideID int64, byes string) error
	DeleteTournamentParticipant(ctx context.Context, fideID int64) error
}

// Service реализует операции над списком участников турнира.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Register вносит участника в список турнира.
func (s *Service) Register(ctx context.Context, req models.DummyTournamentParticipant) (*models.TournamentParticipant, error) {
	birthDate, err := time.Parse(dateLayout, req.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("invalid birth date: %w", models.ErrValidation)
	}
	tp := models.TournamentParticipant{
		FideID:    req.FideID,
		Name:      req.Name,
		Club:      req.Club,
		BirthDate: birthDate,
		Category:  req.Category,
		Byes:      req.Byes,
	}
	if err = s.repo.InsertTournamentParticipant(ctx, tp); err != nil {
		return nil, err
	}
	s.log.Info("registered tournament participant", slog.Int64("fide_id", tp.FideID))
	return &tp, nil
}

// Get возвращает участника по идентификатору FIDE.
func (s *Service) Get(ctx context.Context, fideID int64) (*models.TournamentParticipant, error) {
	return s.repo.GetTournamentParticipant(ctx, fideID)
}

// List возвращает всех участников турнира.
func (s *Service) List(ctx context.Context) ([]*models.TournamentParticipant, error) {
	return s.repo.ListTournamentParticipants(ctx)
}

// UpdateByes обновляет заявленные пропуски туров участника.
func (s *Service) UpdateByes(ctx context.Context, fideID int64, byes string) error {
	return s.repo.UpdateTournamentParticipantByes(ctx, fideID, byes)
}

// Remove удаляет участника из списка турнира.
func (s *Service) Remove(ctx context.Context, fideID int64) error {
	return s.repo.DeleteTournamentParticipant(ctx, fideID)
}
