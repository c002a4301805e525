package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/domain"
)

const productColumns = `id, name, unit, unit_price, stock, created_at, updated_at`

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id,
	)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrProductNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, search string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += ` WHERE name ILIKE $1`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO products (id, name, unit, unit_price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		product.ID, product.Name, product.Unit, product.UnitPrice, product.Stock,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = $1, unit = $2, unit_price = $3, updated_at = $4
		WHERE id = $5`,
		product.Name, product.Unit, product.UnitPrice, product.UpdatedAt, product.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Update: %w", domain.ErrProductNotFound)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrProductNotFound)
	}
	return nil
}

// AdjustStock moves stock by delta inside the caller's transaction. The guard
// keeps stock from going negative; a zero-row update on an existing product
// means there was not enough on hand.
func (r *ProductRepository) AdjustStock(ctx context.Context, tx *sql.Tx, id uuid.UUID, delta decimal.Decimal) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE products SET stock = stock + $1, updated_at = now()
		WHERE id = $2 AND stock + $1 >= 0`,
		delta, id,
	)
	if err != nil {
		return fmt.Errorf("AdjustStock: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("AdjustStock: rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return fmt.Errorf("AdjustStock: existence check: %w", err)
		}
		if !exists {
			return fmt.Errorf("AdjustStock: %w", domain.ErrProductNotFound)
		}
		return fmt.Errorf("AdjustStock: %w", domain.ErrInsufficientStock)
	}
	return nil
}

func scanProduct(s scanner) (*domain.Product, error) {
	var p domain.Product
	err := s.Scan(&p.ID, &p.Name, &p.Unit, &p.UnitPrice, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
