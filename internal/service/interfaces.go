package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/domain"
	"github.com/sitebooks/sitebooks/internal/repository"
)

type userRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type refreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByHash(ctx context.Context, hash string) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, id uuid.UUID, at time.Time) error
}

type accountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	List(ctx context.Context, kind *domain.AccountKind, search string) ([]domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, search string) ([]domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, tx *sql.Tx, id uuid.UUID, delta decimal.Decimal) error
}

type transactionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error
	Update(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error
	Delete(ctx context.Context, tx *sql.Tx, id uuid.UUID) error
	List(ctx context.Context, filter repository.TransactionFilter) ([]domain.Transaction, int, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
	ListByDate(ctx context.Context, day time.Time) ([]domain.Transaction, error)
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error)
}
