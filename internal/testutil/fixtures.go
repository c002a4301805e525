package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/sitebooks/sitebooks/internal/domain"
)

func SeedTestUser(t *testing.T, db *sql.DB, email, name string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Status:       domain.UserStatusActive,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO users (id, email, name, password_hash, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Status, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test user %s: %v", email, err)
	}
	return u
}

func SeedTestAccount(t *testing.T, db *sql.DB, name string, kind domain.AccountKind, initialBalance string) *domain.Account {
	t.Helper()

	a := &domain.Account{
		ID:             uuid.New(),
		Name:           name,
		Kind:           kind,
		InitialBalance: decimal.RequireFromString(initialBalance),
		Status:         domain.AccountStatusActive,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO accounts (id, name, kind, initial_balance, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.Name, a.Kind, a.InitialBalance, a.Status, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed test account %s: %v", name, err)
	}
	return a
}

func SeedTestProduct(t *testing.T, db *sql.DB, name, unit, unitPrice, stock string) *domain.Product {
	t.Helper()

	p := &domain.Product{
		ID:        uuid.New(),
		Name:      name,
		Unit:      unit,
		UnitPrice: decimal.RequireFromString(unitPrice),
		Stock:     decimal.RequireFromString(stock),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO products (id, name, unit, unit_price, stock, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.Unit, p.UnitPrice, p.Stock, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed test product %s: %v", name, err)
	}
	return p
}

func SeedTestTransaction(t *testing.T, db *sql.DB, accountID uuid.UUID, typ domain.TransactionType, total, paid string, date *time.Time) *domain.Transaction {
	t.Helper()

	tx := &domain.Transaction{
		ID:          uuid.New(),
		AccountID:   accountID,
		Type:        typ,
		Date:        date,
		TotalAmount: decimal.NewNullDecimal(decimal.RequireFromString(total)),
		PaidAmount:  decimal.NewNullDecimal(decimal.RequireFromString(paid)),
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO transactions (id, account_id, type, date, total_amount, paid_amount, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tx.ID, tx.AccountID, tx.Type, tx.Date, tx.TotalAmount, tx.PaidAmount, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed test transaction: %v", err)
	}
	return tx
}

func GetProductStock(t *testing.T, db *sql.DB, productID uuid.UUID) decimal.Decimal {
	t.Helper()

	var stock decimal.Decimal
	err := db.QueryRow(`SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock)
	if err != nil {
		t.Fatalf("get product stock %s: %v", productID, err)
	}
	return stock
}
