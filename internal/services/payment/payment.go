// Package payment содержит бизнес-логику книги платежей клуба:
// создание, оплату, отмену и выборку денежных записей.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

var paymentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "club_payments_created_total",
	Help: "Number of payment records created, by category.",
}, []string{"category"})

// Repository определяет методы для работы с платежами в хранилище.
type Repository interface {
	// InsertPayment сохраняет новую запись платежа.
	InsertPayment(ctx context.Context, p *models.Payment) error
	// GetPayment возвращает платёж по ID или models.ErrNotFound.
	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	// ListPaymentsByUser возвращает все платежи пользователя.
	ListPaymentsByUser(ctx context.Context, userDni string) ([]*models.Payment, error)
	// MarkPaymentPaid переводит платёж в PAID.
	MarkPaymentPaid(ctx context.Context, id string, paidAt time.Time) error
	// MarkPaymentCancelled переводит платёж в CANCELLED.
	MarkPaymentCancelled(ctx context.Context, id string) error
	// DeletePayment удаляет запись платежа.
	DeletePayment(ctx context.Context, id string) error
}

// Service реализует операции книги платежей.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// NewRecord собирает валидную запись платежа без сохранения.
// Используется и книгой платежей, и составными транзакциями
// (федерирование, принятие в члены), чтобы правила суммы жили в одном месте.
func NewRecord(amount float64, category, description, title, userDni string) (*models.Payment, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", models.ErrValidation)
	}
	if amount > models.PaymentMaxAmount {
		return nil, fmt.Errorf("Amount greater than 100 is not valid: %w", models.ErrValidation)
	}
	return &models.Payment{
		ID:          uuid.NewString(),
		Amount:      amount,
		Category:    category,
		Title:       title,
		Description: description,
		UserDni:     userDni,
		State:       models.PaymentStateUnpaid,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Create создает новую запись платежа в состоянии UNPAID.
func (s *Service) Create(ctx context.Context, amount float64, category, description, title, userDni string) (*models.Payment, error) {
	p, err := NewRecord(amount, category, description, title, userDni)
	if err != nil {
		return nil, err
	}
	if err := s.repo.InsertPayment(ctx, p); err != nil {
		return nil, err
	}
	paymentsCreated.WithLabelValues(category).Inc()
	s.log.Info("created payment",
		slog.String("id", p.ID),
		slog.String("user_dni", userDni),
		slog.Float64("amount", amount))
	return p, nil
}

// Pay переводит платёж из UNPAID в PAID с указанной датой оплаты.
// Повторная оплата и оплата отменённого платежа запрещены.
func (s *Service) Pay(ctx context.Context, id string, paidAt time.Time) (*models.Payment, error) {
	p, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.State != models.PaymentStateUnpaid {
		return nil, fmt.Errorf("payment %s is %s: %w", id, p.State, models.ErrInvalidState)
	}
	if err := s.repo.MarkPaymentPaid(ctx, id, paidAt); err != nil {
		return nil, err
	}
	p.State = models.PaymentStatePaid
	p.PaidAt = &paidAt
	return p, nil
}

// Cancel переводит платёж в CANCELLED. Отмена допустима из любого
// неотменённого состояния, включая PAID; повторная отмена запрещена.
func (s *Service) Cancel(ctx context.Context, id string) (*models.Payment, error) {
	p, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.State == models.PaymentStateCancelled {
		return nil, fmt.Errorf("payment %s already cancelled: %w", id, models.ErrInvalidState)
	}
	if err := s.repo.MarkPaymentCancelled(ctx, id); err != nil {
		return nil, err
	}
	p.State = models.PaymentStateCancelled
	return p, nil
}

// Get возвращает платёж по ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Payment, error) {
	return s.repo.GetPayment(ctx, id)
}

// ListByUser возвращает все платежи пользователя;
// пустой срез, если платежей нет или пользователь неизвестен.
func (s *Service) ListByUser(ctx context.Context, userDni string) ([]*models.Payment, error) {
	return s.repo.ListPaymentsByUser(ctx, userDni)
}

// Remove удаляет запись платежа. Вызывается только потоком отмены
// федеративного статуса.
func (s *Service) Remove(ctx context.Context, id string) error {
	return s.repo.DeletePayment(ctx, id)
}
