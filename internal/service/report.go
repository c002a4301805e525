package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/domain"
	"github.com/sitebooks/sitebooks/internal/ledger"
)

// LedgerRow is one statement line ready for presentation: raw decimals for
// consumers that keep computing, display strings for the table and the print
// document.
type LedgerRow struct {
	Transaction    domain.Transaction
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	Balance        decimal.Decimal
	DebitDisplay   string
	CreditDisplay  string
	BalanceDisplay string
}

type LedgerReport struct {
	Account        domain.Account
	From           time.Time
	To             time.Time
	OpeningBalance decimal.Decimal
	Rows           []LedgerRow
	ClosingBalance decimal.Decimal
}

type DayBook struct {
	Date          time.Time
	Transactions  []domain.Transaction
	TotalReceived decimal.Decimal
	TotalPaid     decimal.Decimal
}

type Summary struct {
	ReceivableAccounts int
	PayableAccounts    int
	TotalReceivable    decimal.Decimal
	TotalPayable       decimal.Decimal
}

type ReportService struct {
	accounts     accountRepository
	transactions transactionRepository
}

func NewReportService(accounts accountRepository, transactions transactionRepository) *ReportService {
	return &ReportService{accounts: accounts, transactions: transactions}
}

// Ledger runs the two-pass statement computation for one account: everything
// strictly before from folds into the opening balance, the [from, to] window
// becomes the displayed rows. Without a from bound the opening balance is the
// account's initial balance.
func (s *ReportService) Ledger(ctx context.Context, accountID uuid.UUID, from, to time.Time) (*LedgerReport, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, fmt.Errorf("Ledger: %w", domain.ErrInvalidDateRange)
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("Ledger: %w", err)
	}

	history, err := s.transactions.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("Ledger: %w", err)
	}

	opening := account.InitialBalance
	if !from.IsZero() {
		opening = ledger.OpeningBalance(account.Kind, account.InitialBalance, history, from)
	}

	window := ledger.Window(history, from, to)
	rows := ledger.Compute(account.Kind, opening, window)

	report := &LedgerReport{
		Account:        *account,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		Rows:           make([]LedgerRow, len(rows)),
		ClosingBalance: opening,
	}
	for i, row := range rows {
		report.Rows[i] = LedgerRow{
			Transaction:    row.Transaction,
			Debit:          row.Debit,
			Credit:         row.Credit,
			Balance:        row.Balance,
			DebitDisplay:   ledger.FormatAmount(row.Debit),
			CreditDisplay:  ledger.FormatAmount(row.Credit),
			BalanceDisplay: ledger.FormatBalance(row.Balance),
		}
	}
	if len(rows) > 0 {
		report.ClosingBalance = rows[len(rows)-1].Balance
	}
	return report, nil
}

// DayBook lists one calendar day's transactions with cash-in/cash-out totals.
func (s *ReportService) DayBook(ctx context.Context, day time.Time) (*DayBook, error) {
	txs, err := s.transactions.ListByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("DayBook: %w", err)
	}

	book := &DayBook{Date: ledger.DayOf(day), Transactions: txs}
	for _, t := range txs {
		if !t.PaidAmount.Valid {
			continue
		}
		switch t.Type.CashDirection() {
		case 1:
			book.TotalReceived = book.TotalReceived.Add(t.PaidAmount.Decimal)
		case -1:
			book.TotalPaid = book.TotalPaid.Add(t.PaidAmount.Decimal)
		}
	}
	return book, nil
}

// Summary aggregates outstanding balances across all active accounts for the
// dashboard.
func (s *ReportService) Summary(ctx context.Context) (*Summary, error) {
	sum := &Summary{}

	for _, kind := range []domain.AccountKind{domain.AccountKindReceivable, domain.AccountKindPayable} {
		accounts, err := s.accounts.List(ctx, &kind, "")
		if err != nil {
			return nil, fmt.Errorf("Summary: %w", err)
		}

		for _, account := range accounts {
			history, err := s.transactions.ListByAccount(ctx, account.ID)
			if err != nil {
				return nil, fmt.Errorf("Summary: %w", err)
			}
			balance := ledger.ClosingBalance(account.Kind, account.InitialBalance, history)

			if kind == domain.AccountKindReceivable {
				sum.ReceivableAccounts++
				sum.TotalReceivable = sum.TotalReceivable.Add(balance)
			} else {
				sum.PayableAccounts++
				sum.TotalPayable = sum.TotalPayable.Add(balance)
			}
		}
	}
	return sum, nil
}
