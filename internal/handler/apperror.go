package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrAccountNotFound     = &AppError{http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found"}
	ErrProductNotFound     = &AppError{http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found"}
	ErrTransactionNotFound = &AppError{http.StatusNotFound, "TRANSACTION_NOT_FOUND", "Transaction not found"}
	ErrAccountArchived     = &AppError{http.StatusUnprocessableEntity, "ACCOUNT_ARCHIVED", "Account is archived"}
	ErrAccountHasActivity  = &AppError{http.StatusConflict, "ACCOUNT_HAS_ACTIVITY", "Account has recorded transactions; archive it instead"}
	ErrInvalidAccountKind  = &AppError{http.StatusBadRequest, "INVALID_ACCOUNT_KIND", "Account kind must be receivable or payable"}
	ErrInvalidTxType       = &AppError{http.StatusBadRequest, "INVALID_TRANSACTION_TYPE", "Unrecognised transaction type"}
	ErrInvalidAmount       = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amounts must be non-negative"}
	ErrInvalidDateRange    = &AppError{http.StatusBadRequest, "INVALID_DATE_RANGE", "date_from must not be after date_to"}
	ErrInsufficientStock   = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK", "Not enough stock on hand"}
	ErrInvalidRefreshToken = &AppError{http.StatusUnauthorized, "INVALID_REFRESH_TOKEN", "Refresh token invalid or expired"}

	ErrMissingIdempotencyKey = &AppError{http.StatusBadRequest, "MISSING_IDEMPOTENCY_KEY", "Idempotency-Key header is required"}
	ErrIdempotencyConflict   = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key already used with a different request"}
)
