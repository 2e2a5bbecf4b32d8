// Package library содержит бизнес-логику библиотечного каталога клуба.
package library

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

const dateLayout = "02-01-2006"

// Repository определяет методы для работы с каталогом в хранилище.
type Repository interface {
	InsertBook(ctx context.Context, b models.Book) error
	GetBook(ctx context.Context, isbn string) (*models.Book, error)
	ListBooks(ctx context.Context) ([]*models.Book, error)
	DeleteBook(ctx context.Context, isbn string) error

	InsertMagazine(ctx context.Context, m models.Magazine) error
	GetMagazine(ctx context.Context, issn string) (*models.Magazine, error)
	ListMagazines(ctx context.Context) ([]*models.Magazine, error)
	DeleteMagazine(ctx context.Context, issn string) error
}

// Service реализует операции библиотечного каталога.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// AddBook добавляет книгу в каталог.
func (s *Service) AddBook(ctx context.Context, req models.DummyBook) (*models.Book, error) {
	publishDate, err := time.Parse(dateLayout, req.PublishDate)
	if err != nil {
		return nil, fmt.Errorf("invalid publish date: %w", models.ErrValidation)
	}
	b := models.Book{
		Isbn:        req.Isbn,
		Title:       req.Title,
		Author:      req.Author,
		Language:    req.Language,
		PublishDate: publishDate,
	}
	if err = s.repo.InsertBook(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info("added book to catalog", slog.String("isbn", b.Isbn))
	return &b, nil
}

// GetBook возвращает книгу по ISBN.
func (s *Service) GetBook(ctx context.Context, isbn string) (*models.Book, error) {
	return s.repo.GetBook(ctx, isbn)
}

// ListBooks возвращает каталог книг.
func (s *Service) ListBooks(ctx context.Context) ([]*models.Book, error) {
	return s.repo.ListBooks(ctx)
}

// RemoveBook удаляет книгу из каталога.
func (s *Service) RemoveBook(ctx context.Context, isbn string) error {
	return s.repo.DeleteBook(ctx, isbn)
}

// AddMagazine добавляет журнал в каталог.
func (s *Service) AddMagazine(ctx context.Context, req models.DummyMagazine) (*models.Magazine, error) {
	publishDate, err := time.Parse(dateLayout, req.PublishDate)
	if err != nil {
		return nil, fmt.Errorf("invalid publish date: %w", models.ErrValidation)
	}
	m := models.Magazine{
		Issn:          req.Issn,
		Title:         req.Title,
		Publisher:     req.Publisher,
		EditionNumber: req.EditionNumber,
		PublishDate:   publishDate,
	}
	if err = s.repo.InsertMagazine(ctx, m); err != nil {
		return nil, err
	}
	s.log.Info("added magazine to catalog", slog.String("issn", m.Issn))
	return &m, nil
}

// GetMagazine возвращает журнал по ISSN.
func (s *Service) GetMagazine(ctx context.Context, issn string) (*models.Magazine, error) {
	return s.repo.GetMagazine(ctx, issn)
}

// ListMagazines возвращает каталог журналов.
func (s *Service) ListMagazines(ctx context.Context) ([]*models.Magazine, error) {
	return s.repo.ListMagazines(ctx)
}

// RemoveMagazine удаляет журнал из каталога.
func (s *Service) RemoveMagazine(ctx context.Context, issn string) error {
	return s.repo.DeleteMagazine(ctx, issn)
}
