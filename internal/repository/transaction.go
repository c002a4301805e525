package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sitebooks/sitebooks/internal/domain"
)

const transactionColumns = `id, account_id, type, date, total_amount, paid_amount,
	product_id, quantity, description, created_at, updated_at`

// TransactionFilter narrows List; nil/zero fields are ignored. Date bounds
// compare on the calendar date, matching the ledger window semantics.
type TransactionFilter struct {
	AccountID *uuid.UUID
	Type      *domain.TransactionType
	DateFrom  time.Time
	DateTo    time.Time
	Limit     int
	Offset    int
}

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id,
	)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrTransactionNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (
			id, account_id, type, date, total_amount, paid_amount,
			product_id, quantity, description, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.AccountID, t.Type, t.Date, t.TotalAmount, t.PaidAmount,
		t.ProductID, t.Quantity, t.Description, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *TransactionRepository) Update(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE transactions SET type = $1, date = $2, total_amount = $3,
			paid_amount = $4, product_id = $5, quantity = $6, description = $7,
			updated_at = $8
		WHERE id = $9`,
		t.Type, t.Date, t.TotalAmount, t.PaidAmount, t.ProductID, t.Quantity,
		t.Description, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Update: %w", domain.ErrTransactionNotFound)
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrTransactionNotFound)
	}
	return nil
}

func (r *TransactionRepository) List(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, int, error) {
	where := ` WHERE 1=1`
	args := []any{}

	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		where += fmt.Sprintf(` AND account_id = $%d`, len(args))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		where += fmt.Sprintf(` AND type = $%d`, len(args))
	}
	if !filter.DateFrom.IsZero() {
		args = append(args, filter.DateFrom)
		where += fmt.Sprintf(` AND date::date >= $%d::date`, len(args))
	}
	if !filter.DateTo.IsZero() {
		args = append(args, filter.DateTo)
		where += fmt.Sprintf(` AND date::date <= $%d::date`, len(args))
	}

	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("List: count: %w", err)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions` + where +
		` ORDER BY date NULLS FIRST, created_at`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	txs, err := collectTransactions(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	return txs, total, nil
}

// ListByAccount returns an account's entire history in statement order. The
// ledger engine re-sorts defensively, but returning ordered rows keeps reads
// cheap and output stable.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE account_id = $1 ORDER BY date NULLS FIRST, created_at`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByAccount: %w", err)
	}
	defer rows.Close()

	txs, err := collectTransactions(rows)
	if err != nil {
		return nil, fmt.Errorf("ListByAccount: %w", err)
	}
	return txs, nil
}

func (r *TransactionRepository) ListByDate(ctx context.Context, day time.Time) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE date::date = $1::date ORDER BY created_at`,
		day,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByDate: %w", err)
	}
	defer rows.Close()

	txs, err := collectTransactions(rows)
	if err != nil {
		return nil, fmt.Errorf("ListByDate: %w", err)
	}
	return txs, nil
}

func (r *TransactionRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("CountByAccount: %w", err)
	}
	return n, nil
}

func collectTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		txs = append(txs, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return txs, nil
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := s.Scan(
		&t.ID, &t.AccountID, &t.Type, &t.Date, &t.TotalAmount, &t.PaidAmount,
		&t.ProductID, &t.Quantity, &t.Description, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
