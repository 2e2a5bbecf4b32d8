package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/chessclub-membership/internal/models"
)

// InsertCompany сохраняет новую компанию, NIF должен быть уникален.
func (s *Storage) InsertCompany(ctx context.Context, c models.Company) error {
	const op = "storage.InsertCompany"
	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM companies WHERE nif = $1)`, c.Nif).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return fmt.Errorf("%s: %w", op, models.ErrAlreadyExists)
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO companies (nif, name, address) VALUES ($1, $2, $3)`,
		c.Nif, c.Name, c.Address)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetCompany возвращает компанию по NIF.
func (s *Storage) GetCompany(ctx context.Context, nif string) (*models.Company, error) {
	const op = "storage.GetCompany"
	c := &models.Company{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT nif, name, address FROM companies WHERE nif = $1`, nif).
		Scan(&c.Nif, &c.Name, &c.Address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// ListCompanies возвращает все компании.
func (s *Storage) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	const op = "storage.ListCompanies"
	rows, err := s.DB.QueryContext(ctx, `SELECT nif, name, address FROM companies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	result := make([]*models.Company, 0)
	for rows.Next() {
		c := &models.Company{}
		if err = rows.Scan(&c.Nif, &c.Name, &c.Address); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteCompany удаляет компанию. Компания с выставленными счетами не удаляется.
func (s *Storage) DeleteCompany(ctx context.Context, nif string) error {
	const op = "storage.DeleteCompany"
	var hasInvoices bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE seller_nif = $1 OR buyer_nif = $1)`,
		nif).Scan(&hasInvoices); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if hasInvoices {
		return fmt.Errorf("%s: %w", op, models.ErrInvalidState)
	}
	res, err := s.DB.ExecContext(ctx, `DELETE FROM companies WHERE nif = $1`, nif)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}

// InsertInvoice сохраняет новый счёт, пара (номер, серия) должна быть уникальна,
// обе компании должны существовать.
func (s *Storage) InsertInvoice(ctx context.Context, inv models.Invoice) error {
	const op = "storage.InsertInvoice"
	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM invoices WHERE number = $1 AND series = $2)`,
		inv.Number, inv.Series).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return fmt.Errorf("%s: %w", op, models.ErrAlreadyExists)
	}
	var companies int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM companies WHERE nif IN ($1, $2)`,
		inv.SellerNif, inv.BuyerNif).Scan(&companies); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	want := 2
	if inv.SellerNif == inv.BuyerNif {
		want = 1
	}
	if companies < want {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO invoices (number, series, seller_nif, buyer_nif, expedition_date, tax_exempt, payment_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		inv.Number, inv.Series, inv.SellerNif, inv.BuyerNif, inv.ExpeditionDate,
		inv.TaxExempt, inv.PaymentDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetInvoice возвращает счёт по номеру и серии.
func (s *Storage) GetInvoice(ctx context.Context, number int, series string) (*models.Invoice, error) {
	const op = "storage.GetInvoice"
	inv := &models.Invoice{}
	var paymentDate sql.NullTime
	err := s.DB.QueryRowContext(ctx,
		`SELECT number, series, seller_nif, buyer_nif, expedition_date, tax_exempt, payment_date
		 FROM invoices WHERE number = $1 AND series = $2`, number, series).
		Scan(&inv.Number, &inv.Series, &inv.SellerNif, &inv.BuyerNif,
			&inv.ExpeditionDate, &inv.TaxExempt, &paymentDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if paymentDate.Valid {
		inv.PaymentDate = &paymentDate.Time
	}
	return inv, nil
}

// ListInvoices возвращает все счета.
func (s *Storage) ListInvoices(ctx context.Context) ([]*models.Invoice, error) {
	const op = "storage.ListInvoices"
	rows, err := s.DB.QueryContext(ctx,
		`SELECT number, series, seller_nif, buyer_nif, expedition_date, tax_exempt, payment_date
		 FROM invoices ORDER BY series, number`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	result := make([]*models.Invoice, 0)
	for rows.Next() {
		inv := &models.Invoice{}
		var paymentDate sql.NullTime
		if err = rows.Scan(&inv.Number, &inv.Series, &inv.SellerNif, &inv.BuyerNif,
			&inv.ExpeditionDate, &inv.TaxExempt, &paymentDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if paymentDate.Valid {
			inv.PaymentDate = &paymentDate.Time
		}
		result = append(result, inv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteInvoice удаляет счёт по номеру и серии.
func (s *Storage) DeleteInvoice(ctx context.Context, number int, series string) error {
	const op = "storage.DeleteInvoice"
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM invoices WHERE number = $1 AND series = $2`, number, series)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return checkAffected(res, op)
}
