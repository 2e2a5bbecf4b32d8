// Package paymentsheet содержит бизнес-логику авансовых отчётов о поездках.
package paymentsheet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

const dateLayout = "02-01-2006"

// Repository определяет методы для работы с авансовыми отчётами в хранилище.
type Repository interface {
	InsertPaymentSheet(ctx context.Context, ps models.PaymentSheet) (int, error)
	GetPaymentSheet(ctx context.Context, id int) (*models.PaymentSheet, error)
	ListPaymentSheets(ctx context.Context) ([]*models.PaymentSheet, error)
	DeletePaymentSheet(ctx context.Context, id int) error
}

// UserRepository проверяет существование члена клуба, подающего отчёт.
type UserRepository interface {
	GetUserByDni(ctx context.Context, dni string) (*models.User, error)
}

// Service реализует операции над авансовыми отчётами.
type Service struct {
	repo  Repository
	users UserRepository
	log   *slog.Logger
}

// New создает новый Service.
func New(repo Repository, users UserRepository, log *slog.Logger) *Service {
	return &Service{repo: repo, users: users, log: log}
}

// Add сохраняет новый авансовый отчёт; податель должен быть членом клуба,
// дата окончания поездки не раньше даты начала.
func (s *Service) Add(ctx context.Context, req models.DummyPaymentSheet) (*models.PaymentSheet, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", models.ErrValidation)
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", models.ErrValidation)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end date before start date: %w", models.ErrValidation)
	}
	if _, err = s.users.GetUserByDni(ctx, req.UserDni); err != nil {
		return nil, err
	}

	ps := models.PaymentSheet{
		UserDni:   req.UserDni,
		Reason:    req.Reason,
		Place:     req.Place,
		StartDate: startDate,
		EndDate:   endDate,
	}
	id, err := s.repo.InsertPaymentSheet(ctx, ps)
	if err != nil {
		return nil, err
	}
	ps.ID = id
	s.log.Info("stored payment sheet",
		slog.Int("id", id),
		slog.String("user_dni", ps.UserDni))
	return &ps, nil
}

// Get возвращает авансовый отчёт по ID.
func (s *Service) Get(ctx context.Context, id int) (*models.PaymentSheet, error) {
	return s.repo.GetPaymentSheet(ctx, id)
}

// List возвращает все авансовые отчёты.
func (s *Service) List(ctx context.Context) ([]*models.PaymentSheet, error) {
	return s.repo.ListPaymentSheets(ctx)
}

// Remove удаляет авансовый отчёт по ID.
func (s *Service) Remove(ctx context.Context, id int) error {
	return s.repo.DeletePaymentSheet(ctx, id)
}
