package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitebooks/sitebooks/internal/domain"
)

func nd(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func dateAt(day int) *time.Time {
	d := time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func tx(typ domain.TransactionType, total, paid string, date *time.Time, created time.Time) domain.Transaction {
	t := domain.Transaction{
		ID:        uuid.New(),
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

func TestClassifyReceivable(t *testing.T) {
	tests := []struct {
		name       string
		typ        domain.TransactionType
		total      string
		paid       string
		wantDebit  string
		wantCredit string
	}{
		{"sale", domain.TxTypeSale, "1000", "200", "1000", "200"},
		{"receivable advance", domain.TxTypeReceivableAdvance, "500", "100", "500", "100"},
		{"advance sale inventory", domain.TxTypeAdvanceSaleInventory, "750", "0", "750", "0"},
		{"advance sale payment", domain.TxTypeAdvanceSalePayment, "", "300", "0", "300"},
		{"receipt", domain.TxTypeReceiveAble, "", "300", "0", "300"},
		{"advance receivable payment", domain.TxTypeAdvanceReceivablePaymnt, "", "150", "0", "150"},
		{"payment out to client", domain.TxTypePayAbleClient, "", "80", "80", "0"},
		{"sale return", domain.TxTypeSaleReturn, "400", "50", "-400", "-50"},
		{"unknown positive falls back to debit", domain.TransactionType("adjustment"), "120", "", "120", "0"},
		{"unknown negative falls back to credit", domain.TransactionType("adjustment"), "-75", "", "0", "75"},
		{"unknown with only paid amount", domain.TransactionType("adjustment"), "", "40", "40", "0"},
		{"missing amounts coerce to zero", domain.TxTypeSale, "", "", "0", "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entry := Classify(domain.AccountKindReceivable, tx(tc.typ, tc.total, tc.paid, dateAt(1), time.Now()))
			assert.True(t, entry.Debit.Equal(decimal.RequireFromString(tc.wantDebit)),
				"debit: got %s, want %s", entry.Debit, tc.wantDebit)
			assert.True(t, entry.Credit.Equal(decimal.RequireFromString(tc.wantCredit)),
				"credit: got %s, want %s", entry.Credit, tc.wantCredit)
		})
	}
}

func TestClassifyPayable(t *testing.T) {
	tests := []struct {
		name       string
		typ        domain.TransactionType
		total      string
		paid       string
		wantDebit  string
		wantCredit string
	}{
		{"purchase", domain.TxTypePurchase, "500", "100", "100", "500"},
		{"advance purchase inventory", domain.TxTypeAdvancePurchaseInventry, "900", "0", "0", "900"},
		{"payable advance", domain.TxTypePayableAdvance, "250", "250", "250", "250"},
		{"advance purchase payment", domain.TxTypeAdvancePurchasePayment, "", "120", "120", "0"},
		{"payment to vendor", domain.TxTypePayAble, "", "200", "200", "0"},
		{"refund from vendor", domain.TxTypeReceiveAbleVendor, "", "60", "-60", "0"},
		{"purchase return", domain.TxTypePurchaseReturn, "300", "30", "-30", "-300"},
		{"unknown positive falls back to credit", domain.TransactionType("adjustment"), "120", "", "0", "120"},
		{"unknown negative falls back to debit", domain.TransactionType("adjustment"), "-75", "", "75", "0"},
		{"missing amounts coerce to zero", domain.TxTypePurchase, "", "", "0", "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entry := Classify(domain.AccountKindPayable, tx(tc.typ, tc.total, tc.paid, dateAt(1), time.Now()))
			assert.True(t, entry.Debit.Equal(decimal.RequireFromString(tc.wantDebit)),
				"debit: got %s, want %s", entry.Debit, tc.wantDebit)
			assert.True(t, entry.Credit.Equal(decimal.RequireFromString(tc.wantCredit)),
				"credit: got %s, want %s", entry.Credit, tc.wantCredit)
		})
	}
}

func TestCompute_ReceivableStatement(t *testing.T) {
	created := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		tx(domain.TxTypeSale, "1000", "200", dateAt(1), created),
		tx(domain.TxTypeReceiveAble, "", "300", dateAt(2), created.Add(time.Hour)),
	}

	rows := Compute(domain.AccountKindReceivable, decimal.Zero, txs)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].Debit.Equal(decimal.NewFromInt(1000)))
	assert.True(t, rows[0].Credit.Equal(decimal.NewFromInt(200)))
	assert.True(t, rows[0].Balance.Equal(decimal.NewFromInt(800)), "got %s", rows[0].Balance)

	assert.True(t, rows[1].Debit.IsZero())
	assert.True(t, rows[1].Credit.Equal(decimal.NewFromInt(300)))
	assert.True(t, rows[1].Balance.Equal(decimal.NewFromInt(500)), "got %s", rows[1].Balance)
}

func TestCompute_PayableStatement(t *testing.T) {
	created := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		tx(domain.TxTypePurchase, "500", "100", dateAt(1), created),
		tx(domain.TxTypePayAble, "", "200", dateAt(2), created.Add(time.Hour)),
	}

	rows := Compute(domain.AccountKindPayable, decimal.Zero, txs)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].Debit.Equal(decimal.NewFromInt(100)))
	assert.True(t, rows[0].Credit.Equal(decimal.NewFromInt(500)))
	assert.True(t, rows[0].Balance.Equal(decimal.NewFromInt(400)), "got %s", rows[0].Balance)

	assert.True(t, rows[1].Debit.Equal(decimal.NewFromInt(200)))
	assert.True(t, rows[1].Credit.IsZero())
	assert.True(t, rows[1].Balance.Equal(decimal.NewFromInt(200)), "got %s", rows[1].Balance)
}

func TestCompute_SaleReturnLowersBalance(t *testing.T) {
	created := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		tx(domain.TxTypeSale, "1000", "200", dateAt(1), created),
		tx(domain.TxTypeSaleReturn, "400", "50", dateAt(2), created.Add(time.Hour)),
	}

	rows := Compute(domain.AccountKindReceivable, decimal.Zero, txs)
	require.Len(t, rows, 2)

	// 800 + (-400) - (-50) = 450
	assert.True(t, rows[1].Debit.Equal(decimal.NewFromInt(-400)))
	assert.True(t, rows[1].Credit.Equal(decimal.NewFromInt(-50)))
	assert.True(t, rows[1].Balance.Equal(decimal.NewFromInt(450)), "got %s", rows[1].Balance)
}

func TestCompute_ReturnEntriesNonPositive(t *testing.T) {
	created := time.Now().UTC()
	saleReturn := Classify(domain.AccountKindReceivable, tx(domain.TxTypeSaleReturn, "400", "50", dateAt(3), created))
	assert.True(t, saleReturn.Debit.Sign() <= 0)
	assert.True(t, saleReturn.Credit.Sign() <= 0)
	assert.True(t, saleReturn.Debit.Abs().Equal(decimal.NewFromInt(400)))
	assert.True(t, saleReturn.Credit.Abs().Equal(decimal.NewFromInt(50)))

	purchaseReturn := Classify(domain.AccountKindPayable, tx(domain.TxTypePurchaseReturn, "300", "30", dateAt(3), created))
	assert.True(t, purchaseReturn.Debit.Sign() <= 0)
	assert.True(t, purchaseReturn.Credit.Sign() <= 0)
	assert.True(t, purchaseReturn.Debit.Abs().Equal(decimal.NewFromInt(30)))
	assert.True(t, purchaseReturn.Credit.Abs().Equal(decimal.NewFromInt(300)))
}

func TestCompute_RunningBalanceRecurrence(t *testing.T) {
	created := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		tx(domain.TxTypeSale, "1200.50", "200", dateAt(1), created),
		tx(domain.TxTypeReceiveAble, "", "300.25", dateAt(2), created.Add(time.Hour)),
		tx(domain.TxTypeSaleReturn, "100", "10", dateAt(2), created.Add(2*time.Hour)),
		tx(domain.TransactionType("adjustment"), "-42.42", "", dateAt(3), created.Add(3*time.Hour)),
		tx(domain.TxTypePayAbleClient, "", "55", dateAt(4), created.Add(4*time.Hour)),
	}

	for _, kind := range []domain.AccountKind{domain.AccountKindReceivable, domain.AccountKindPayable} {
		opening := decimal.RequireFromString("17.35")
		rows := Compute(kind, opening, txs)
		require.Len(t, rows, len(txs))

		prev := opening
		for i, row := range rows {
			var want decimal.Decimal
			if kind == domain.AccountKindPayable {
				want = prev.Add(row.Credit).Sub(row.Debit)
			} else {
				want = prev.Add(row.Debit).Sub(row.Credit)
			}
			assert.True(t, row.Balance.Equal(want),
				"%s row %d: balance %s, want %s", kind, i, row.Balance, want)
			prev = row.Balance
		}
	}
}

func TestCompute_Deterministic(t *testing.T) {
	created := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{
		tx(domain.TxTypeSale, "100", "0", dateAt(2), created.Add(time.Minute)),
		tx(domain.TxTypeReceiveAble, "", "50", dateAt(1), created),
		tx(domain.TxTypeSale, "200", "0", dateAt(2), created.Add(2*time.Minute)),
	}
	opening := decimal.NewFromInt(10)

	first := Compute(domain.AccountKindReceivable, opening, txs)
	second := Compute(domain.AccountKindReceivable, opening, txs)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Transaction.ID, second[i].Transaction.ID)
		assert.True(t, first[i].Balance.Equal(second[i].Balance))
	}
}

func TestOrder_StableAndTotal(t *testing.T) {
	created := time.Date(2025, time.March, 1, 8, 0, 0, 0, time.UTC)
	a := tx(domain.TxTypeSale, "1", "", dateAt(2), created)
	b := tx(domain.TxTypeSale, "2", "", dateAt(2), created.Add(time.Second))
	c := tx(domain.TxTypeSale, "3", "", nil, created) // nil date sorts first
	d := tx(domain.TxTypeSale, "4", "", dateAt(1), created)

	shuffles := [][]domain.Transaction{
		{a, b, c, d},
		{b, a, d, c},
		{d, c, b, a},
		{c, d, a, b},
	}

	want := []uuid.UUID{c.ID, d.ID, a.ID, b.ID}
	for _, in := range shuffles {
		got := Order(in)
		require.Len(t, got, 4)
		for i, id := range want {
			assert.Equal(t, id, got[i].ID, "position %d", i)
		}
	}
}

func TestOrder_DoesNotMutateInput(t *testing.T) {
	created := time.Now().UTC()
	txs := []domain.Transaction{
		tx(domain.TxTypeSale, "1", "", dateAt(3), created),
		tx(domain.TxTypeSale, "2", "", dateAt(1), created),
	}
	firstID := txs[0].ID

	Order(txs)
	assert.Equal(t, firstID, txs[0].ID)
}

func TestOpeningBalance(t *testing.T) {
	created := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	from := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	t.Run("empty history returns initial unchanged", func(t *testing.T) {
		initial := decimal.RequireFromString("123.45")
		got := OpeningBalance(domain.AccountKindReceivable, initial, nil, from)
		assert.True(t, got.Equal(initial), "got %s", got)
	})

	t.Run("transaction on date_from belongs to the window", func(t *testing.T) {
		onBoundary := tx(domain.TxTypeSale, "500", "0", dateAt(10), created)
		got := OpeningBalance(domain.AccountKindReceivable, decimal.Zero, []domain.Transaction{onBoundary}, from)
		assert.True(t, got.IsZero(), "boundary transaction leaked into pre-pass: %s", got)
	})

	t.Run("prior day with late time-of-day is still prior", func(t *testing.T) {
		lateEvening := time.Date(2025, time.March, 9, 23, 30, 0, 0, time.UTC)
		prior := tx(domain.TxTypeSale, "500", "100", &lateEvening, created)
		got := OpeningBalance(domain.AccountKindReceivable, decimal.Zero, []domain.Transaction{prior}, from)
		assert.True(t, got.Equal(decimal.NewFromInt(400)), "got %s", got)
	})

	t.Run("nil date counts as prior history", func(t *testing.T) {
		undated := tx(domain.TxTypeReceiveAble, "", "75", nil, created)
		got := OpeningBalance(domain.AccountKindReceivable, decimal.NewFromInt(100), []domain.Transaction{undated}, from)
		assert.True(t, got.Equal(decimal.NewFromInt(25)), "got %s", got)
	})
}

func TestWindow(t *testing.T) {
	created := time.Now().UTC()
	before := tx(domain.TxTypeSale, "1", "", dateAt(5), created)
	onFrom := tx(domain.TxTypeSale, "2", "", dateAt(10), created)
	inside := tx(domain.TxTypeSale, "3", "", dateAt(15), created)
	onTo := tx(domain.TxTypeSale, "4", "", dateAt(20), created)
	after := tx(domain.TxTypeSale, "5", "", dateAt(25), created)
	all := []domain.Transaction{before, onFrom, inside, onTo, after}

	from := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)

	got := Window(all, from, to)
	require.Len(t, got, 3)
	assert.Equal(t, onFrom.ID, got[0].ID)
	assert.Equal(t, inside.ID, got[1].ID)
	assert.Equal(t, onTo.ID, got[2].ID)

	unboundedLow := Window(all, time.Time{}, to)
	assert.Len(t, unboundedLow, 4)

	unboundedHigh := Window(all, from, time.Time{})
	assert.Len(t, unboundedHigh, 4)
}

func TestClosingBalance(t *testing.T) {
	created := time.Now().UTC()
	txs := []domain.Transaction{
		tx(domain.TxTypePurchase, "500", "100", dateAt(1), created),
		tx(domain.TxTypePayAble, "", "200", dateAt(2), created),
	}
	got := ClosingBalance(domain.AccountKindPayable, decimal.Zero, txs)
	assert.True(t, got.Equal(decimal.NewFromInt(200)), "got %s", got)
}
