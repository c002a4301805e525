package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitebooks/sitebooks/internal/domain"
	"github.com/sitebooks/sitebooks/internal/repository"
)

type fakeAccountRepo struct {
	accounts map[uuid.UUID]*domain.Account
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	if a, ok := f.accounts[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (f *fakeAccountRepo) List(_ context.Context, kind *domain.AccountKind, _ string) ([]domain.Account, error) {
	var out []domain.Account
	for _, a := range f.accounts {
		if kind == nil || a.Kind == *kind {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) Create(_ context.Context, a *domain.Account) error {
	f.accounts[a.ID] = a
	return nil
}

func (f *fakeAccountRepo) Update(_ context.Context, a *domain.Account) error {
	f.accounts[a.ID] = a
	return nil
}

func (f *fakeAccountRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.accounts, id)
	return nil
}

type fakeTransactionRepo struct {
	txs []domain.Transaction
}

func (f *fakeTransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	for _, t := range f.txs {
		if t.ID == id {
			copied := t
			return &copied, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (f *fakeTransactionRepo) Create(_ context.Context, _ *sql.Tx, t *domain.Transaction) error {
	f.txs = append(f.txs, *t)
	return nil
}

func (f *fakeTransactionRepo) Update(_ context.Context, _ *sql.Tx, t *domain.Transaction) error {
	for i := range f.txs {
		if f.txs[i].ID == t.ID {
			f.txs[i] = *t
			return nil
		}
	}
	return domain.ErrTransactionNotFound
}

func (f *fakeTransactionRepo) Delete(_ context.Context, _ *sql.Tx, id uuid.UUID) error {
	for i := range f.txs {
		if f.txs[i].ID == id {
			f.txs = append(f.txs[:i], f.txs[i+1:]...)
			return nil
		}
	}
	return domain.ErrTransactionNotFound
}

func (f *fakeTransactionRepo) List(_ context.Context, _ repository.TransactionFilter) ([]domain.Transaction, int, error) {
	return f.txs, len(f.txs), nil
}

func (f *fakeTransactionRepo) ListByAccount(_ context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, t := range f.txs {
		if t.AccountID == accountID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTransactionRepo) ListByDate(_ context.Context, day time.Time) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, t := range f.txs {
		if t.Date != nil && t.Date.Year() == day.Year() && t.Date.YearDay() == day.YearDay() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTransactionRepo) CountByAccount(_ context.Context, accountID uuid.UUID) (int, error) {
	n := 0
	for _, t := range f.txs {
		if t.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func nd(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func day(d int) *time.Time {
	t := time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func seedTx(accountID uuid.UUID, typ domain.TransactionType, total, paid string, date *time.Time, created time.Time) domain.Transaction {
	t := domain.Transaction{
		ID:        uuid.New(),
		AccountID: accountID,
		Type:      typ,
		Date:      date,
		CreatedAt: created,
	}
	if total != "" {
		t.TotalAmount = nd(total)
	}
	if paid != "" {
		t.PaidAmount = nd(paid)
	}
	return t
}

func TestReportService_Ledger_TwoPass(t *testing.T) {
	accountID := uuid.New()
	accounts := &fakeAccountRepo{accounts: map[uuid.UUID]*domain.Account{
		accountID: {
			ID:             accountID,
			Name:           "Karim Traders",
			Kind:           domain.AccountKindReceivable,
			InitialBalance: decimal.NewFromInt(100),
			Status:         domain.AccountStatusActive,
		},
	}}

	created := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	transactions := &fakeTransactionRepo{txs: []domain.Transaction{
		// Prior history: 100 + 500 - 100 = 500 opening.
		seedTx(accountID, domain.TxTypeSale, "500", "100", day(5), created),
		// On the boundary: belongs to the window, not the pre-pass.
		seedTx(accountID, domain.TxTypeSale, "1000", "200", day(10), created.Add(time.Hour)),
		seedTx(accountID, domain.TxTypeReceiveAble, "", "300", day(12), created.Add(2*time.Hour)),
		// Outside the window.
		seedTx(accountID, domain.TxTypeSale, "9999", "0", day(25), created.Add(3*time.Hour)),
	}}

	svc := NewReportService(accounts, transactions)
	from := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)

	report, err := svc.Ledger(context.Background(), accountID, from, to)
	require.NoError(t, err)

	assert.True(t, report.OpeningBalance.Equal(decimal.NewFromInt(500)),
		"opening: got %s", report.OpeningBalance)
	require.Len(t, report.Rows, 2)

	assert.True(t, report.Rows[0].Balance.Equal(decimal.NewFromInt(1300)), "got %s", report.Rows[0].Balance)
	assert.True(t, report.Rows[1].Balance.Equal(decimal.NewFromInt(1000)), "got %s", report.Rows[1].Balance)
	assert.True(t, report.ClosingBalance.Equal(decimal.NewFromInt(1000)))

	assert.Equal(t, "1000.00", report.Rows[0].DebitDisplay)
	assert.Equal(t, "200.00", report.Rows[0].CreditDisplay)
	assert.Equal(t, "", report.Rows[1].DebitDisplay, "zero debit renders empty")
	assert.Equal(t, "1000.00", report.Rows[1].BalanceDisplay)
}

func TestReportService_Ledger_NoBoundsUsesInitialBalance(t *testing.T) {
	accountID := uuid.New()
	accounts := &fakeAccountRepo{accounts: map[uuid.UUID]*domain.Account{
		accountID: {
			ID:             accountID,
			Name:           "Steel Depot",
			Kind:           domain.AccountKindPayable,
			InitialBalance: decimal.NewFromInt(250),
			Status:         domain.AccountStatusActive,
		},
	}}
	created := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	transactions := &fakeTransactionRepo{txs: []domain.Transaction{
		seedTx(accountID, domain.TxTypePurchase, "500", "100", day(3), created),
	}}

	svc := NewReportService(accounts, transactions)
	report, err := svc.Ledger(context.Background(), accountID, time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.True(t, report.OpeningBalance.Equal(decimal.NewFromInt(250)))
	require.Len(t, report.Rows, 1)
	// 250 + 500 - 100 under the liability convention.
	assert.True(t, report.ClosingBalance.Equal(decimal.NewFromInt(650)), "got %s", report.ClosingBalance)
}

func TestReportService_Ledger_InvalidRange(t *testing.T) {
	svc := NewReportService(&fakeAccountRepo{accounts: map[uuid.UUID]*domain.Account{}}, &fakeTransactionRepo{})

	from := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.Ledger(context.Background(), uuid.New(), from, to)
	require.ErrorIs(t, err, domain.ErrInvalidDateRange)
}

func TestReportService_Ledger_UnknownAccount(t *testing.T) {
	svc := NewReportService(&fakeAccountRepo{accounts: map[uuid.UUID]*domain.Account{}}, &fakeTransactionRepo{})

	_, err := svc.Ledger(context.Background(), uuid.New(), time.Time{}, time.Time{})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestReportService_DayBook(t *testing.T) {
	accountID := uuid.New()
	created := time.Date(2025, time.June, 7, 9, 0, 0, 0, time.UTC)
	transactions := &fakeTransactionRepo{txs: []domain.Transaction{
		seedTx(accountID, domain.TxTypeSale, "1000", "200", day(7), created),
		seedTx(accountID, domain.TxTypeReceiveAble, "", "300", day(7), created.Add(time.Hour)),
		seedTx(accountID, domain.TxTypePayAble, "", "150", day(7), created.Add(2*time.Hour)),
		seedTx(accountID, domain.TxTypeSale, "50", "50", day(8), created.Add(3*time.Hour)),
	}}

	svc := NewReportService(&fakeAccountRepo{accounts: map[uuid.UUID]*domain.Account{}}, transactions)
	book, err := svc.DayBook(context.Background(), *day(7))
	require.NoError(t, err)

	assert.Len(t, book.Transactions, 3)
	assert.True(t, book.TotalReceived.Equal(decimal.NewFromInt(500)), "got %s", book.TotalReceived)
	assert.True(t, book.TotalPaid.Equal(decimal.NewFromInt(150)), "got %s", book.TotalPaid)
}

func TestReportService_Summary(t *testing.T) {
	customerID, vendorID := uuid.New(), uuid.New()
	accounts := &fakeAccountRepo{accounts: map[uuid.UUID]*domain.Account{
		customerID: {
			ID:             customerID,
			Kind:           domain.AccountKindReceivable,
			InitialBalance: decimal.Zero,
			Status:         domain.AccountStatusActive,
		},
		vendorID: {
			ID:             vendorID,
			Kind:           domain.AccountKindPayable,
			InitialBalance: decimal.NewFromInt(50),
			Status:         domain.AccountStatusActive,
		},
	}}
	created := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	transactions := &fakeTransactionRepo{txs: []domain.Transaction{
		seedTx(customerID, domain.TxTypeSale, "1000", "200", day(1), created),
		seedTx(vendorID, domain.TxTypePurchase, "500", "100", day(2), created),
	}}

	svc := NewReportService(accounts, transactions)
	sum, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sum.ReceivableAccounts)
	assert.Equal(t, 1, sum.PayableAccounts)
	assert.True(t, sum.TotalReceivable.Equal(decimal.NewFromInt(800)), "got %s", sum.TotalReceivable)
	assert.True(t, sum.TotalPayable.Equal(decimal.NewFromInt(450)), "got %s", sum.TotalPayable)
}
