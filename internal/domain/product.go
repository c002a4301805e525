package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID        uuid.UUID
	Name      string
	Unit      string
	UnitPrice decimal.Decimal
	Stock     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
