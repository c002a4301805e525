package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/domain"
	"github.com/sitebooks/sitebooks/internal/ledger"
	"github.com/sitebooks/sitebooks/internal/logging"
)

type CreateAccountInput struct {
	Name           string
	Kind           domain.AccountKind
	Phone          *string
	Address        *string
	InitialBalance decimal.Decimal
}

type UpdateAccountInput struct {
	Name           string
	Phone          *string
	Address        *string
	InitialBalance decimal.Decimal
	Status         domain.AccountStatus
}

type AccountService struct {
	accounts     accountRepository
	transactions transactionRepository
}

func NewAccountService(accounts accountRepository, transactions transactionRepository) *AccountService {
	return &AccountService{accounts: accounts, transactions: transactions}
}

func (s *AccountService) CreateAccount(ctx context.Context, in CreateAccountInput) (*domain.Account, error) {
	if !in.Kind.IsValid() {
		return nil, fmt.Errorf("CreateAccount: %w", domain.ErrInvalidAccountKind)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:             uuid.New(),
		Name:           in.Name,
		Kind:           in.Kind,
		Phone:          in.Phone,
		Address:        in.Address,
		InitialBalance: in.InitialBalance,
		Status:         domain.AccountStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}

	logging.FromContext(ctx).Info("account created",
		"account_id", account.ID,
		"kind", account.Kind,
	)
	return account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetAccount: %w", err)
	}
	return account, nil
}

func (s *AccountService) ListAccounts(ctx context.Context, kind *domain.AccountKind, search string) ([]domain.Account, error) {
	if kind != nil && !kind.IsValid() {
		return nil, fmt.Errorf("ListAccounts: %w", domain.ErrInvalidAccountKind)
	}
	accounts, err := s.accounts.List(ctx, kind, search)
	if err != nil {
		return nil, fmt.Errorf("ListAccounts: %w", err)
	}
	return accounts, nil
}

func (s *AccountService) UpdateAccount(ctx context.Context, id uuid.UUID, in UpdateAccountInput) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("UpdateAccount: %w", err)
	}

	account.Name = in.Name
	account.Phone = in.Phone
	account.Address = in.Address
	account.InitialBalance = in.InitialBalance
	if in.Status != "" {
		account.Status = in.Status
	}
	account.UpdatedAt = time.Now().UTC()

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("UpdateAccount: %w", err)
	}
	return account, nil
}

// DeleteAccount refuses to delete an account that has recorded transactions;
// those books must stay auditable. Archive instead.
func (s *AccountService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if _, err := s.accounts.GetByID(ctx, id); err != nil {
		return fmt.Errorf("DeleteAccount: %w", err)
	}

	n, err := s.transactions.CountByAccount(ctx, id)
	if err != nil {
		return fmt.Errorf("DeleteAccount: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("DeleteAccount: %w", domain.ErrAccountHasActivity)
	}

	if err := s.accounts.Delete(ctx, id); err != nil {
		return fmt.Errorf("DeleteAccount: %w", err)
	}

	logging.FromContext(ctx).Info("account deleted", "account_id", id)
	return nil
}

// Balance folds the account's full history on top of its initial balance.
func (s *AccountService) Balance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, fmt.Errorf("Balance: %w", err)
	}

	history, err := s.transactions.ListByAccount(ctx, id)
	if err != nil {
		return decimal.Zero, fmt.Errorf("Balance: %w", err)
	}

	return ledger.ClosingBalance(account.Kind, account.InitialBalance, history), nil
}
