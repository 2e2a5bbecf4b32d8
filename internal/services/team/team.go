// Package team содержит бизнес-логику командных составов клуба.
package team

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// Repository определяет методы для работы с командами в хранилище.
type Repository interface {
	InsertTeam(ctx context.Context, t models.Team) error
	GetTeam(ctx context.Context, name string) (*models.Team, error)
	ListTeams(ctx context.Context) ([]*models.Team, error)
	AssignUserToTeam(ctx context.Context, dni string, teamName *string) error
	DeleteTeam(ctx context.Context, name string) error
}

// Service реализует операции над командами и их составами.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create создает новую команду.
func (s *Service) Create(ctx context.Context, req models.DummyTeam) (*models.Team, error) {
	t := models.Team{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.InsertTeam(ctx, t); err != nil {
		return nil, err
	}
	s.log.Info("created team", slog.String("name", t.Name))
	return &t, nil
}

// Get возвращает команду вместе со списком DNI её членов.
func (s *Service) Get(ctx context.Context, name string) (*models.Team, error) {
	return s.repo.GetTeam(ctx, name)
}

// List возвращает все команды без составов.
func (s *Service) List(ctx context.Context) ([]*models.Team, error) {
	return s.repo.ListTeams(ctx)
}

// AssignMember назначает члена клуба в существующую команду.
func (s *Service) AssignMember(ctx context.Context, teamName, dni string) error {
	if _, err := s.repo.GetTeam(ctx, teamName); err != nil {
		return err
	}
	return s.repo.AssignUserToTeam(ctx, dni, &teamName)
}

// RemoveMember снимает назначение члена клуба в команду.
func (s *Service) RemoveMember(ctx context.Context, dni string) error {
	return s.repo.AssignUserToTeam(ctx, dni, nil)
}

// Delete удаляет команду и снимает назначения её членов.
func (s *Service) Delete(ctx context.Context, name string) error {
	return s.repo.DeleteTeam(ctx, name)
}
