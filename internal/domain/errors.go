package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAccountArchived     = errors.New("account archived")
	ErrAccountHasActivity  = errors.New("account has recorded transactions")
	ErrInvalidAccountKind  = errors.New("invalid account kind")
	ErrInvalidTxType       = errors.New("invalid transaction type")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDateRange    = errors.New("invalid date range")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidRefreshToken = errors.New("refresh token invalid or expired")
	ErrInvalidRequest      = errors.New("invalid request")
)
