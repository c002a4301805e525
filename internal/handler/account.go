package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/domain"
	"github.com/sitebooks/sitebooks/internal/ledger"
	"github.com/sitebooks/sitebooks/internal/logging"
	"github.com/sitebooks/sitebooks/internal/service"
)

type accountService interface {
	CreateAccount(ctx context.Context, in service.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ListAccounts(ctx context.Context, kind *domain.AccountKind, search string) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, id uuid.UUID, in service.UpdateAccountInput) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	Balance(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
}

type AccountHandler struct {
	accounts accountService
}

func NewAccountHandler(accounts accountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type createAccountRequest struct {
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	Phone          *string         `json:"phone"`
	Address        *string         `json:"address"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

func (r createAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if r.Kind == "" {
		errs = append(errs, FieldError{Field: "kind", Message: "required"})
	} else if !domain.AccountKind(r.Kind).IsValid() {
		errs = append(errs, FieldError{Field: "kind", Message: "must be receivable or payable"})
	}
	return errs
}

type updateAccountRequest struct {
	Name           string          `json:"name"`
	Phone          *string         `json:"phone"`
	Address        *string         `json:"address"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Status         string          `json:"status"`
}

func (r updateAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if r.Status != "" &&
		r.Status != string(domain.AccountStatusActive) &&
		r.Status != string(domain.AccountStatusArchived) {
		errs = append(errs, FieldError{Field: "status", Message: "must be active or archived"})
	}
	return errs
}

type accountDTO struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	Phone          *string         `json:"phone"`
	Address        *string         `json:"address"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:             a.ID,
		Name:           a.Name,
		Kind:           string(a.Kind),
		Phone:          a.Phone,
		Address:        a.Address,
		InitialBalance: a.InitialBalance,
		Status:         string(a.Status),
		CreatedAt:      a.CreatedAt,
	}
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.accounts.CreateAccount(r.Context(), service.CreateAccountInput{
		Name:           req.Name,
		Kind:           domain.AccountKind(req.Kind),
		Phone:          req.Phone,
		Address:        req.Address,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toAccountDTO(account))
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	var kind *domain.AccountKind
	if raw := r.URL.Query().Get("kind"); raw != "" {
		k := domain.AccountKind(raw)
		if !k.IsValid() {
			RespondValidationError(w, []FieldError{{Field: "kind", Message: "must be receivable or payable"}})
			return
		}
		kind = &k
	}

	accounts, err := h.accounts.ListAccounts(r.Context(), kind, r.URL.Query().Get("search"))
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list accounts", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]accountDTO, len(accounts))
	for i := range accounts {
		dtos[i] = toAccountDTO(&accounts[i])
	}
	RespondSuccess(w, http.StatusOK, dtos)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.accounts.UpdateAccount(r.Context(), id, service.UpdateAccountInput{
		Name:           req.Name,
		Phone:          req.Phone,
		Address:        req.Address,
		InitialBalance: req.InitialBalance,
		Status:         domain.AccountStatus(req.Status),
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to update account", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), id); err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, nil)
}

type balanceDTO struct {
	AccountID      uuid.UUID       `json:"account_id"`
	Balance        decimal.Decimal `json:"balance"`
	BalanceDisplay string          `json:"balance_display"`
}

func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id, appErr := pathID(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	balance, err := h.accounts.Balance(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, balanceDTO{
		AccountID:      id,
		Balance:        balance,
		BalanceDisplay: ledger.FormatBalance(balance),
	})
}
