package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/domain"
	"github.com/sitebooks/sitebooks/internal/logging"
	"github.com/sitebooks/sitebooks/internal/repository"
)

type TransactionInput struct {
	AccountID   uuid.UUID
	Type        domain.TransactionType
	Date        *time.Time
	TotalAmount decimal.NullDecimal
	PaidAmount  decimal.NullDecimal
	ProductID   *uuid.UUID
	Quantity    decimal.NullDecimal
	Description *string
}

type TransactionService struct {
	db           *repository.DB
	transactions transactionRepository
	accounts     accountRepository
	products     productRepository
}

func NewTransactionService(db *repository.DB, transactions transactionRepository, accounts accountRepository, products productRepository) *TransactionService {
	return &TransactionService{
		db:           db,
		transactions: transactions,
		accounts:     accounts,
		products:     products,
	}
}

// Create validates and records a transaction; when a product is attached and
// the type moves inventory, the stock adjustment commits atomically with the
// row. Unknown type tags are rejected at the door even though the ledger fold
// tolerates them on read.
func (s *TransactionService) Create(ctx context.Context, in TransactionInput) (*domain.Transaction, error) {
	if err := s.validate(ctx, in); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	now := time.Now().UTC()
	t := &domain.Transaction{
		ID:          uuid.New(),
		AccountID:   in.AccountID,
		Type:        in.Type,
		Date:        in.Date,
		TotalAmount: in.TotalAmount,
		PaidAmount:  in.PaidAmount,
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	defer dbtx.Rollback()

	if err := s.transactions.Create(ctx, dbtx, t); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	if delta := stockDelta(t); !delta.IsZero() {
		if err := s.products.AdjustStock(ctx, dbtx, *t.ProductID, delta); err != nil {
			return nil, fmt.Errorf("Create: %w", err)
		}
	}

	if err := dbtx.Commit(); err != nil {
		return nil, fmt.Errorf("Create: commit: %w", err)
	}

	logging.FromContext(ctx).Info("transaction recorded",
		"transaction_id", t.ID,
		"account_id", t.AccountID,
		"type", t.Type,
	)
	return t, nil
}

func (s *TransactionService) Get(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	t, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return t, nil
}

func (s *TransactionService) List(ctx context.Context, filter repository.TransactionFilter) ([]domain.Transaction, int, error) {
	if !filter.DateFrom.IsZero() && !filter.DateTo.IsZero() && filter.DateTo.Before(filter.DateFrom) {
		return nil, 0, fmt.Errorf("List: %w", domain.ErrInvalidDateRange)
	}
	txs, total, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	return txs, total, nil
}

// Update rewrites a transaction, reversing the old stock movement and applying
// the new one in the same database transaction.
func (s *TransactionService) Update(ctx context.Context, id uuid.UUID, in TransactionInput) (*domain.Transaction, error) {
	existing, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}

	in.AccountID = existing.AccountID
	if err := s.validate(ctx, in); err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}

	updated := *existing
	updated.Type = in.Type
	updated.Date = in.Date
	updated.TotalAmount = in.TotalAmount
	updated.PaidAmount = in.PaidAmount
	updated.ProductID = in.ProductID
	updated.Quantity = in.Quantity
	updated.Description = in.Description
	updated.UpdatedAt = time.Now().UTC()

	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}
	defer dbtx.Rollback()

	if delta := stockDelta(existing); !delta.IsZero() {
		if err := s.products.AdjustStock(ctx, dbtx, *existing.ProductID, delta.Neg()); err != nil {
			return nil, fmt.Errorf("Update: reverse stock: %w", err)
		}
	}
	if delta := stockDelta(&updated); !delta.IsZero() {
		if err := s.products.AdjustStock(ctx, dbtx, *updated.ProductID, delta); err != nil {
			return nil, fmt.Errorf("Update: apply stock: %w", err)
		}
	}

	if err := s.transactions.Update(ctx, dbtx, &updated); err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}

	if err := dbtx.Commit(); err != nil {
		return nil, fmt.Errorf("Update: commit: %w", err)
	}
	return &updated, nil
}

// Delete removes a transaction and reverses its stock movement.
func (s *TransactionService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}

	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	defer dbtx.Rollback()

	if delta := stockDelta(existing); !delta.IsZero() {
		if err := s.products.AdjustStock(ctx, dbtx, *existing.ProductID, delta.Neg()); err != nil {
			return fmt.Errorf("Delete: reverse stock: %w", err)
		}
	}

	if err := s.transactions.Delete(ctx, dbtx, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}

	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("Delete: commit: %w", err)
	}

	logging.FromContext(ctx).Info("transaction deleted", "transaction_id", id)
	return nil
}

func (s *TransactionService) validate(ctx context.Context, in TransactionInput) error {
	if !in.Type.IsKnown() {
		return domain.ErrInvalidTxType
	}
	if in.TotalAmount.Valid && in.TotalAmount.Decimal.Sign() < 0 {
		return domain.ErrInvalidAmount
	}
	if in.PaidAmount.Valid && in.PaidAmount.Decimal.Sign() < 0 {
		return domain.ErrInvalidAmount
	}
	if in.ProductID != nil && in.Quantity.Valid && in.Quantity.Decimal.Sign() <= 0 {
		return domain.ErrInvalidAmount
	}

	account, err := s.accounts.GetByID(ctx, in.AccountID)
	if err != nil {
		return err
	}
	if account.Status == domain.AccountStatusArchived {
		return domain.ErrAccountArchived
	}

	if in.ProductID != nil {
		if _, err := s.products.GetByID(ctx, *in.ProductID); err != nil {
			return err
		}
	}
	return nil
}

func stockDelta(t *domain.Transaction) decimal.Decimal {
	if t.ProductID == nil || !t.Quantity.Valid || !t.Type.MovesStock() {
		return decimal.Zero
	}
	return t.Type.StockDelta(t.Quantity.Decimal)
}
