package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitebooks/sitebooks/internal/domain"
	"github.com/sitebooks/sitebooks/internal/repository"
	"github.com/sitebooks/sitebooks/internal/service"
	"github.com/sitebooks/sitebooks/internal/testutil"
)

func setupTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()
	return service.NewTransactionService(
		repository.NewDB(db),
		repository.NewTransactionRepository(db),
		repository.NewAccountRepository(db),
		repository.NewProductRepository(db),
	)
}

func setupReportService(t *testing.T, db *sql.DB) *service.ReportService {
	t.Helper()
	return service.NewReportService(
		repository.NewAccountRepository(db),
		repository.NewTransactionRepository(db),
	)
}

func amt(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestCreateTransaction_MovesStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupTransactionService(t, db)
	ctx := context.Background()

	account := testutil.SeedTestAccount(t, db, "Hassan Traders", domain.AccountKindReceivable, "0")
	product := testutil.SeedTestProduct(t, db, "Cement", "bag", "1250", "100")

	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	tx, err := svc.Create(ctx, service.TransactionInput{
		AccountID:   account.ID,
		Type:        domain.TxTypeSale,
		Date:        &date,
		TotalAmount: amt("12500"),
		PaidAmount:  amt("5000"),
		ProductID:   &product.ID,
		Quantity:    amt("10"),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.TxTypeSale, tx.Type)
	assert.True(t, testutil.GetProductStock(t, db, product.ID).Equal(decimal.RequireFromString("90")))
}

func TestCreateTransaction_InsufficientStockRollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupTransactionService(t, db)
	ctx := context.Background()

	account := testutil.SeedTestAccount(t, db, "Hassan Traders", domain.AccountKindReceivable, "0")
	product := testutil.SeedTestProduct(t, db, "Cement", "bag", "1250", "5")

	_, err := svc.Create(ctx, service.TransactionInput{
		AccountID:   account.ID,
		Type:        domain.TxTypeSale,
		TotalAmount: amt("12500"),
		PaidAmount:  amt("0"),
		ProductID:   &product.ID,
		Quantity:    amt("10"),
	})

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, testutil.GetProductStock(t, db, product.ID).Equal(decimal.RequireFromString("5")))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&count))
	assert.Zero(t, count, "the row must not survive a failed stock adjustment")
}

func TestCreateTransaction_UnknownTypeRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupTransactionService(t, db)
	ctx := context.Background()

	account := testutil.SeedTestAccount(t, db, "Hassan Traders", domain.AccountKindReceivable, "0")

	_, err := svc.Create(ctx, service.TransactionInput{
		AccountID:   account.ID,
		Type:        domain.TransactionType("barter"),
		TotalAmount: amt("100"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidTxType)
}

func TestUpdateTransaction_ReappliesStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupTransactionService(t, db)
	ctx := context.Background()

	account := testutil.SeedTestAccount(t, db, "Hassan Traders", domain.AccountKindReceivable, "0")
	product := testutil.SeedTestProduct(t, db, "Cement", "bag", "1250", "100")

	tx, err := svc.Create(ctx, service.TransactionInput{
		AccountID:   account.ID,
		Type:        domain.TxTypeSale,
		TotalAmount: amt("12500"),
		PaidAmount:  amt("0"),
		ProductID:   &product.ID,
		Quantity:    amt("10"),
	})
	require.NoError(t, err)
	require.True(t, testutil.GetProductStock(t, db, product.ID).Equal(decimal.RequireFromString("90")))

	_, err = svc.Update(ctx, tx.ID, service.TransactionInput{
		Type:        domain.TxTypeSale,
		TotalAmount: amt("5000"),
		PaidAmount:  amt("0"),
		ProductID:   &product.ID,
		Quantity:    amt("4"),
	})
	require.NoError(t, err)
	assert.True(t, testutil.GetProductStock(t, db, product.ID).Equal(decimal.RequireFromString("96")))
}

func TestDeleteTransaction_ReversesStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupTransactionService(t, db)
	ctx := context.Background()

	account := testutil.SeedTestAccount(t, db, "Hassan Traders", domain.AccountKindReceivable, "0")
	product := testutil.SeedTestProduct(t, db, "Cement", "bag", "1250", "100")

	tx, err := svc.Create(ctx, service.TransactionInput{
		AccountID:   account.ID,
		Type:        domain.TxTypeSale,
		TotalAmount: amt("12500"),
		PaidAmount:  amt("0"),
		ProductID:   &product.ID,
		Quantity:    amt("10"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, tx.ID))
	assert.True(t, testutil.GetProductStock(t, db, product.ID).Equal(decimal.RequireFromString("100")))

	_, err = svc.Get(ctx, tx.ID)
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestLedgerReport_EndToEnd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	reports := setupReportService(t, db)
	ctx := context.Background()

	account := testutil.SeedTestAccount(t, db, "Hassan Traders", domain.AccountKindReceivable, "1000")

	may := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	june10 := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	june15 := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	// Prior history: a 500 credit sale raises the opening balance to 1500.
	testutil.SeedTestTransaction(t, db, account.ID, domain.TxTypeSale, "500", "0", &may)
	testutil.SeedTestTransaction(t, db, account.ID, domain.TxTypeSale, "800", "300", &june10)
	testutil.SeedTestTransaction(t, db, account.ID, domain.TxTypeAdvanceSalePayment, "0", "200", &june15)

	report, err := reports.Ledger(ctx, account.ID, june10, june15)
	require.NoError(t, err)

	assert.True(t, report.OpeningBalance.Equal(decimal.RequireFromString("1500")))
	require.Len(t, report.Rows, 2)
	assert.True(t, report.Rows[0].Balance.Equal(decimal.RequireFromString("2000")))
	assert.True(t, report.Rows[1].Balance.Equal(decimal.RequireFromString("1800")))
	assert.True(t, report.ClosingBalance.Equal(decimal.RequireFromString("1800")))
}
