package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountKind is the side of the books a trading party sits on: customers we
// sell to are receivable (asset), vendors we buy from are payable (liability).
type AccountKind string

const (
	AccountKindReceivable AccountKind = "receivable"
	AccountKindPayable    AccountKind = "payable"
)

func (k AccountKind) IsValid() bool {
	return k == AccountKindReceivable || k == AccountKindPayable
}

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusArchived AccountStatus = "archived"
)

type Account struct {
	ID             uuid.UUID
	Name           string
	Kind           AccountKind
	Phone          *string
	Address        *string
	InitialBalance decimal.Decimal
	Status         AccountStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
