package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// InsertBook сохраняет новую книгу, ISBN должен быть уникален.
func (s *Storage) InsertBook(ctx context.Context, b models.Book) error {
	const op = "storage.InsertBook"
	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM books WHERE isbn = $1)`, b.Isbn).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return fmt.Errorf("%s: %w", op, models.ErrAlreadyExists)
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO books (isbn, title, author, language, publish_date)
		 VALUES ($1, $2, $3, $4, $5)`,
		b.Isbn, b.Title, b.Author, b.Language, b.PublishDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetBook возвращает книгу по ISBN.
func (s *Storage) GetBook(ctx context.Context, isbn string) (*models.Book, error) {
	const op = "storage.GetBook"
	b := &models.Book{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT isbn, title, author, language, publish_date FROM books WHERE isbn = $1`, isbn).
		Scan(&b.Isbn, &b.Title, &b.Author, &b.Language, &b.PublishDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// ListBooks возвращает каталог книг.
func (s *Storage) ListBooks(ctx context.Context) ([]*models.Book, error) {
	const op = "storage.ListBooks"
	rows, err := s.DB.QueryContext(ctx,
		`SELECT isbn, title, author, language, publish_date FROM books ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	result := make([]*models.Book, 0)
	for rows.Next() {
		b := &models.Book{}
		if err = rows.Scan(&b.Isbn, &b.Title, &b.Author, &b.Language, &b.PublishDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteBook удаляет книгу по ISBN.
func (s *Storage) DeleteBook(ctx context.Context, isbn string) error {
	const op = "storage.DeleteBook"
	res, err := s.DB.ExecContext(ctx, `DELETE FROM books WHERE isbn = $1`, isbn)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}

// InsertMagazine сохраняет новый журнал, ISSN должен быть уникален.
func (s *Storage) InsertMagazine(ctx context.Context, m models.Magazine) error {
	const op = "storage.InsertMagazine"
	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM magazines WHERE issn = $1)`, m.Issn).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return fmt.Errorf("%s: %w", op, models.ErrAlreadyExists)
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO magazines (issn, title, publisher, edition_number, publish_date)
		 VALUES ($1, $2, $3, $4, $5)`,
		m.Issn, m.Title, m.Publisher, m.EditionNumber, m.PublishDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetMagazine возвращает журнал по ISSN.
func (s *Storage) GetMagazine(ctx context.Context, issn string) (*models.Magazine, error) {
	const op = "storage.GetMagazine"
	m := &models.Magazine{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT issn, title, publisher, edition_number, publish_date FROM magazines WHERE issn = $1`, issn).
		Scan(&m.Issn, &m.Title, &m.Publisher, &m.EditionNumber, &m.PublishDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// ListMagazines возвращает каталог журналов.
func (s *Storage) ListMagazines(ctx context.Context) ([]*models.Magazine, error) {
	const op = "storage.ListMagazines"
	rows, err := s.DB.QueryContext(ctx,
		`SELECT issn, title, publisher, edition_number, publish_date FROM magazines ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	result := make([]*models.Magazine, 0)
	for rows.Next() {
		m := &models.Magazine{}
		if err = rows.Scan(&m.Issn, &m.Title, &m.Publisher, &m.EditionNumber, &m.PublishDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteMagazine удаляет журнал по ISSN.
func (s *Storage) DeleteMagazine(ctx context.Context, issn string) error {
	const op = "storage.DeleteMagazine"
	res, err := s.DB.ExecContext(ctx, `DELETE FROM magazines WHERE issn = $1`, issn)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}
