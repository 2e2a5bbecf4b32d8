// Package billing содержит бизнес-логику счетов клуба и компаний-контрагентов.
package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

const dateLayout = "02-01-2006"

// Repository определяет методы для работы со счетами и компаниями в хранилище.
type Repository interface {
	InsertCompany(ctx context.Context, c models.Company) error
	GetCompany(ctx context.Context, nif string) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]*models.Company, error)
	DeleteCompany(ctx context.Context, nif string) error

	InsertInvoice(ctx context.Context, inv models.Invoice) error
	GetInvoice(ctx context.Context, number int, series string) (*models.Invoice, error)
	ListInvoices(ctx context.Context) ([]*models.Invoice, error)
	DeleteInvoice(ctx context.Context, number int, series string) error
}

// Service реализует операции по счетам и компаниям.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// AddCompany регистрирует компанию-контрагента.
func (s *Service) AddCompany(ctx context.Context, req models.DummyCompany) (*models.Company, error) {
	c := models.Company{
		Nif:     req.Nif,
		Name:    req.Name,
		Address: req.Address,
	}
	if err := s.repo.InsertCompany(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info("registered company", slog.String("nif", c.Nif))
	return &c, nil
}

// GetCompany возвращает компанию по NIF.
func (s *Service) GetCompany(ctx context.Context, nif string) (*models.Company, error) {
	return s.repo.GetCompany(ctx, nif)
}

// ListCompanies возвращает все компании.
func (s *Service) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	return s.repo.ListCompanies(ctx)
}

// RemoveCompany удаляет компанию; компания с выставленными счетами не удаляется.
func (s *Service) RemoveCompany(ctx context.Context, nif string) error {
	return s.repo.DeleteCompany(ctx, nif)
}

// AddInvoice регистрирует счёт между двумя существующими компаниями.
func (s *Service) AddInvoice(ctx context.Context, req models.DummyInvoice) (*models.Invoice, error) {
	expeditionDate, err := time.Parse(dateLayout, req.ExpeditionDate)
	if err != nil {
		return nil, fmt.Errorf("invalid expedition date: %w", models.ErrValidation)
	}
	inv := models.Invoice{
		Number:         req.Number,
		Series:         req.Series,
		SellerNif:      req.SellerNif,
		BuyerNif:       req.BuyerNif,
		ExpeditionDate: expeditionDate,
		TaxExempt:      req.TaxExempt,
	}
	if err = s.repo.InsertInvoice(ctx, inv); err != nil {
		return nil, err
	}
	s.log.Info("registered invoice",
		slog.Int("number", inv.Number),
		slog.String("series", inv.Series))
	return &inv, nil
}

// GetInvoice возвращает счёт по номеру и серии.
func (s *Service) GetInvoice(ctx context.Context, number int, series string) (*models.Invoice, error) {
	return s.repo.GetInvoice(ctx, number, series)
}

// ListInvoices возвращает все счета.
func (s *Service) ListInvoices(ctx context.Context) ([]*models.Invoice, error) {
	return s.repo.ListInvoices(ctx)
}

// RemoveInvoice удаляет счёт по номеру и серии.
func (s *Service) RemoveInvoice(ctx context.Context, number int, series string) error {
	return s.repo.DeleteInvoice(ctx, number, series)
}
