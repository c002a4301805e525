// Package ledger computes running-balance statements for trading-party
// accounts. It is a pure fold: the same opening balance and transaction list
// always produce the same rows, so the interactive table, the print export and
// the opening-balance pre-pass all call the one implementation here.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/domain"
)

// Entry is the debit/credit pair a transaction contributes to its account's
// ledger. Return types carry negative entries; everything else is non-negative.
type Entry struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Row is one line of a computed statement: the source transaction, its
// classified entry and the running balance after applying it. Rows are derived
// on every computation and never persisted.
type Row struct {
	Transaction domain.Transaction
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Balance     decimal.Decimal
}

// Classify maps a transaction onto a debit/credit pair under the sign
// convention of the account kind. Unrecognised type tags fall through to a
// sign-based fallback on whichever amount field is populated; missing amounts
// coerce to zero. Classify is total: every transaction maps to some entry.
func Classify(kind domain.AccountKind, tx domain.Transaction) Entry {
	total := nullAmount(tx.TotalAmount)
	paid := nullAmount(tx.PaidAmount)

	if kind == domain.AccountKindPayable {
		return classifyPayable(tx.Type, total, paid)
	}
	return classifyReceivable(tx.Type, total, paid)
}

// Receivable accounts are assets: debits raise the balance, credits lower it.
func classifyReceivable(typ domain.TransactionType, total, paid decimal.Decimal) Entry {
	switch typ {
	case domain.TxTypeSale, domain.TxTypeReceivableAdvance, domain.TxTypeAdvanceSaleInventory:
		return Entry{Debit: total, Credit: paid}
	case domain.TxTypeAdvanceSalePayment, domain.TxTypeReceiveAble, domain.TxTypeAdvanceReceivablePaymnt:
		return Entry{Credit: paid}
	case domain.TxTypePayAbleClient:
		return Entry{Debit: paid}
	case domain.TxTypeSaleReturn:
		return Entry{Debit: total.Neg(), Credit: paid.Neg()}
	}

	amt := fallbackAmount(total, paid)
	if amt.Sign() < 0 {
		return Entry{Credit: amt.Abs()}
	}
	return Entry{Debit: amt}
}

// Payable accounts are liabilities: the mirror convention, credits raise the
// balance, debits lower it.
func classifyPayable(typ domain.TransactionType, total, paid decimal.Decimal) Entry {
	switch typ {
	case domain.TxTypePurchase, domain.TxTypeAdvancePurchaseInventry, domain.TxTypePayableAdvance:
		return Entry{Debit: paid, Credit: total}
	case domain.TxTypeAdvancePurchasePayment, domain.TxTypePayAble:
		return Entry{Debit: paid}
	case domain.TxTypeReceiveAbleVendor:
		return Entry{Debit: paid.Neg()}
	case domain.TxTypePurchaseReturn:
		return Entry{Debit: paid.Neg(), Credit: total.Neg()}
	}

	amt := fallbackAmount(total, paid)
	if amt.Sign() < 0 {
		return Entry{Debit: amt.Abs()}
	}
	return Entry{Credit: amt}
}

// apply advances the running balance by one entry under the kind's convention.
func (e Entry) apply(kind domain.AccountKind, prev decimal.Decimal) decimal.Decimal {
	if kind == domain.AccountKindPayable {
		return prev.Add(e.Credit).Sub(e.Debit)
	}
	return prev.Add(e.Debit).Sub(e.Credit)
}

// Order returns a copy of txs in statement order: ascending by date (a nil
// date sorts as the zero time), ties broken by ascending created_at. The sort
// is stable; running balances are order-dependent, so this is the only valid
// sequence for folding.
func Order(txs []domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := orderDate(out[i].Date), orderDate(out[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Compute folds the transactions, in statement order, into ledger rows
// starting from opening. The input slice is not mutated.
func Compute(kind domain.AccountKind, opening decimal.Decimal, txs []domain.Transaction) []Row {
	ordered := Order(txs)
	rows := make([]Row, 0, len(ordered))
	balance := opening
	for _, tx := range ordered {
		entry := Classify(kind, tx)
		balance = entry.apply(kind, balance)
		rows = append(rows, Row{
			Transaction: tx,
			Debit:       entry.Debit,
			Credit:      entry.Credit,
			Balance:     balance,
		})
	}
	return rows
}

// ClosingBalance folds txs from opening and returns the final balance without
// materialising rows.
func ClosingBalance(kind domain.AccountKind, opening decimal.Decimal, txs []domain.Transaction) decimal.Decimal {
	balance := opening
	for _, tx := range Order(txs) {
		balance = Classify(kind, tx).apply(kind, balance)
	}
	return balance
}

// OpeningBalance pre-folds every transaction strictly before from, starting at
// the account's persisted initial balance. The comparison is date-only
// (midnight-truncated): a transaction dated exactly on from belongs to the
// displayed window, not to this pre-pass. With no prior history the initial
// balance is returned unchanged.
func OpeningBalance(kind domain.AccountKind, initial decimal.Decimal, txs []domain.Transaction, from time.Time) decimal.Decimal {
	fromDay := DayOf(from)
	var before []domain.Transaction
	for _, tx := range txs {
		if DayOf(orderDate(tx.Date)).Before(fromDay) {
			before = append(before, tx)
		}
	}
	return ClosingBalance(kind, initial, before)
}

// Window selects the transactions whose (midnight-truncated) date falls inside
// [from, to], both inclusive. A zero from or to leaves that side unbounded.
func Window(txs []domain.Transaction, from, to time.Time) []domain.Transaction {
	fromDay, toDay := DayOf(from), DayOf(to)
	var out []domain.Transaction
	for _, tx := range txs {
		day := DayOf(orderDate(tx.Date))
		if !from.IsZero() && day.Before(fromDay) {
			continue
		}
		if !to.IsZero() && day.After(toDay) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// DayOf truncates t to midnight, preserving its location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func orderDate(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func nullAmount(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// fallbackAmount picks the single amount the fallback branch keys on: the
// total when one is recorded, otherwise the paid amount.
func fallbackAmount(total, paid decimal.Decimal) decimal.Decimal {
	if !total.IsZero() {
		return total
	}
	return paid
}
