package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/domain"
	"github.com/sitebooks/sitebooks/internal/logging"
	"github.com/sitebooks/sitebooks/internal/repository"
	"github.com/sitebooks/sitebooks/internal/service"
)

type transactionService interface {
	Create(ctx context.Context, in service.TransactionInput) (*domain.Transaction, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	List(ctx context.Context, filter repository.TransactionFilter) ([]domain.Transaction, int, error)
	Update(ctx context.Context, id uuid.UUID, in service.TransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TransactionHandler struct {
	transactions transactionService
}

func NewTransactionHandler(transactions transactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

type transactionRequest struct {
	AccountID   string              `json:"account_id"`
	Type        string              `json:"type"`
	Date        *string             `json:"date"`
	TotalAmount decimal.NullDecimal `json:"total_amount"`
	PaidAmount  decimal.NullDecimal `json:"paid_amount"`
	ProductID   *string             `json:"product_id"`
	Quantity    decimal.NullDecimal `json:"quantity"`
	Description *string             `json:"description"`
}

func (r transactionRequest) Validate() []FieldError {
	var errs []FieldError
	if r.AccountID == "" {
		errs = append(errs, FieldError{Field: "account_id", Message: "required"})
	} else if _, err := uuid.Parse(r.AccountID); err != nil {
		errs = append(errs, FieldError{Field: "account_id", Message: "must be a uuid"})
	}
	if r.Type == "" {
		errs = append(errs, FieldError{Field: "type", Message: "required"})
	}
	if r.ProductID != nil {
		if _, err := uuid.Parse(*r.ProductID); err != nil {
			errs = append(errs, FieldError{Field: "product_id", Message: "must be a uuid"})
		}
	}
	return errs
}

func (r transactionRequest) toInput() (service.TransactionInput, []FieldError) {
	date, ferr := parseDatePtr(r.Date)
	if ferr != nil {
		return service.TransactionInput{}, []FieldError{*ferr}
	}

	in := service.TransactionInput{
		Type:        domain.TransactionType(r.Type),
		Date:        date,
		TotalAmount: r.TotalAmount,
		PaidAmount:  r.PaidAmount,
		Quantity:    r.Quantity,
		Description: r.Description,
	}
	if r.AccountID != "" {
		in.AccountID = uuid.MustParse(r.AccountID)
	}
	if r.ProductID != nil {
		id := uuid.MustParse(*r.ProductID)
		in.ProductID = &id
	}
	return in, nil
}

type transactionDTO struct {
	ID          uuid.UUID           `json:"id"`
	AccountID   uuid.UUID           `json:"account_id"`
	Type        string              `json:"type"`
	Date        *string             `json:"date"`
	TotalAmount decimal.NullDecimal `json:"total_amount"`
	PaidAmount  decimal.NullDecimal `json:"paid_amount"`
	ProductID   *uuid.UUID          `json:"product_id"`
	Quantity    decimal.NullDecimal `json:"quantity"`
	Description *string             `json:"description"`
	CreatedAt   time.Time           `json:"created_at"`
}

func toTransactionDTO(t *domain.Transaction) transactionDTO {
	dto := transactionDTO{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Type:        string(t.Type),
		TotalAmount: t.TotalAmount,
		PaidAmount:  t.PaidAmount,
		ProductID:   t.ProductID,
		Quantity:    t.Quantity,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
	if t.Date != nil {
		formatted := t.Date.Format(dateLayout)
		dto.Date = &formatted
	}
	return dto
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	in, fields := req.toInput()
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	t, err := h.transactions.Create(r.Context(), in)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to record transaction", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, toTransactionDTO(t))
}

type transactionListDTO struct {
	Transactions []transactionDTO `json:"transactions"`
	Total        int              `json:"total"`
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, fields := listFilterFromQuery(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	txs, total, err := h.transactions.List(r.Context(), filter)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list transactions", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]transactionDTO, len(txs))
	for i := range txs {
		dtos[i] = toTransactionDTO(&txs[i])
	}
	RespondSuccess(w, http.StatusOK, transactionListDTO{Transactions: dtos, Total: total})
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	t, err := h.transactions.Get(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toTransactionDTO(t))
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if req.Type == "" {
		RespondValidationError(w, []FieldError{{Field: "type", Message: "required"}})
		return
	}
	if req.ProductID != nil {
		if _, err := uuid.Parse(*req.ProductID); err != nil {
			RespondValidationError(w, []FieldError{{Field: "product_id", Message: "must be a uuid"}})
			return
		}
	}

	in, fields := req.toInput()
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	t, err := h.transactions.Update(r.Context(), id, in)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to update transaction", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toTransactionDTO(t))
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.transactions.Delete(r.Context(), id); err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, nil)
}

func listFilterFromQuery(r *http.Request) (repository.TransactionFilter, []FieldError) {
	var filter repository.TransactionFilter
	var fields []FieldError
	q := r.URL.Query()

	if raw := q.Get("account_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			fields = append(fields, FieldError{Field: "account_id", Message: "must be a uuid"})
		} else {
			filter.AccountID = &id
		}
	}
	if raw := q.Get("type"); raw != "" {
		typ := domain.TransactionType(raw)
		filter.Type = &typ
	}

	from, ferr := queryDate(r, "date_from")
	if ferr != nil {
		fields = append(fields, *ferr)
	}
	to, ferr := queryDate(r, "date_to")
	if ferr != nil {
		fields = append(fields, *ferr)
	}
	filter.DateFrom, filter.DateTo = from, to

	filter.Limit = 50
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			fields = append(fields, FieldError{Field: "limit", Message: "must be 1-500"})
		} else {
			filter.Limit = n
		}
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fields = append(fields, FieldError{Field: "offset", Message: "must be non-negative"})
		} else {
			filter.Offset = n
		}
	}

	return filter, fields
}
