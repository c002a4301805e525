package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/ledger"
	"github.com/sitebooks/sitebooks/internal/logging"
	"github.com/sitebooks/sitebooks/internal/service"
)

type reportService interface {
	Ledger(ctx context.Context, accountID uuid.UUID, from, to time.Time) (*service.LedgerReport, error)
	DayBook(ctx context.Context, day time.Time) (*service.DayBook, error)
	Summary(ctx context.Context) (*service.Summary, error)
}

type ReportHandler struct {
	reports reportService
}

func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

type ledgerRowDTO struct {
	Transaction    transactionDTO  `json:"transaction"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Balance        decimal.Decimal `json:"balance"`
	DebitDisplay   string          `json:"debit_display"`
	CreditDisplay  string          `json:"credit_display"`
	BalanceDisplay string          `json:"balance_display"`
}

type ledgerReportDTO struct {
	Account        accountDTO      `json:"account"`
	DateFrom       *string         `json:"date_from"`
	DateTo         *string         `json:"date_to"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	OpeningDisplay string          `json:"opening_balance_display"`
	Rows           []ledgerRowDTO  `json:"rows"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	ClosingDisplay string          `json:"closing_balance_display"`
}

func (h *ReportHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	id, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var fields []FieldError
	from, ferr := queryDate(r, "date_from")
	if ferr != nil {
		fields = append(fields, *ferr)
	}
	to, ferr := queryDate(r, "date_to")
	if ferr != nil {
		fields = append(fields, *ferr)
	}
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	report, err := h.reports.Ledger(r.Context(), id, from, to)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to build ledger report", "error", err, "account_id", id)
		RespondDomainError(w, err)
		return
	}

	dto := ledgerReportDTO{
		Account:        toAccountDTO(&report.Account),
		OpeningBalance: report.OpeningBalance,
		OpeningDisplay: ledger.FormatBalance(report.OpeningBalance),
		Rows:           make([]ledgerRowDTO, len(report.Rows)),
		ClosingBalance: report.ClosingBalance,
		ClosingDisplay: ledger.FormatBalance(report.ClosingBalance),
	}
	if !report.From.IsZero() {
		s := report.From.Format(dateLayout)
		dto.DateFrom = &s
	}
	if !report.To.IsZero() {
		s := report.To.Format(dateLayout)
		dto.DateTo = &s
	}
	for i, row := range report.Rows {
		dto.Rows[i] = ledgerRowDTO{
			Transaction:    toTransactionDTO(&row.Transaction),
			Debit:          row.Debit,
			Credit:         row.Credit,
			Balance:        row.Balance,
			DebitDisplay:   row.DebitDisplay,
			CreditDisplay:  row.CreditDisplay,
			BalanceDisplay: row.BalanceDisplay,
		}
	}

	RespondSuccess(w, http.StatusOK, dto)
}

type dayBookDTO struct {
	Date          string           `json:"date"`
	Transactions  []transactionDTO `json:"transactions"`
	TotalReceived decimal.Decimal  `json:"total_received"`
	TotalPaid     decimal.Decimal  `json:"total_paid"`
}

func (h *ReportHandler) DayBook(w http.ResponseWriter, r *http.Request) {
	day, ferr := queryDate(r, "date")
	if ferr != nil {
		RespondValidationError(w, []FieldError{*ferr})
		return
	}
	if day.IsZero() {
		day = time.Now().UTC()
	}

	book, err := h.reports.DayBook(r.Context(), day)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to build day book", "error", err)
		RespondDomainError(w, err)
		return
	}

	dto := dayBookDTO{
		Date:          book.Date.Format(dateLayout),
		Transactions:  make([]transactionDTO, len(book.Transactions)),
		TotalReceived: book.TotalReceived,
		TotalPaid:     book.TotalPaid,
	}
	for i := range book.Transactions {
		dto.Transactions[i] = toTransactionDTO(&book.Transactions[i])
	}
	RespondSuccess(w, http.StatusOK, dto)
}

type summaryDTO struct {
	ReceivableAccounts int             `json:"receivable_accounts"`
	PayableAccounts    int             `json:"payable_accounts"`
	TotalReceivable    decimal.Decimal `json:"total_receivable"`
	TotalPayable       decimal.Decimal `json:"total_payable"`
}

func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.reports.Summary(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to build summary", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, summaryDTO{
		ReceivableAccounts: sum.ReceivableAccounts,
		PayableAccounts:    sum.PayableAccounts,
		TotalReceivable:    sum.TotalReceivable,
		TotalPayable:       sum.TotalPayable,
	})
}
