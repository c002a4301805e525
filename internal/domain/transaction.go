package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	// Receivable-side types (customer accounts).
	TxTypeSale                    TransactionType = "sale"
	TxTypeReceivableAdvance       TransactionType = "receivable_advance"
	TxTypeAdvanceSaleInventory    TransactionType = "advance_sale_inventory"
	TxTypeAdvanceSalePayment      TransactionType = "advance_sale_payment"
	TxTypeReceiveAble             TransactionType = "receive_able"
	TxTypeAdvanceReceivablePaymnt TransactionType = "advance_account_receivable_payment"
	TxTypePayAbleClient           TransactionType = "pay_able_client"
	TxTypeSaleReturn              TransactionType = "sale_return"

	// Payable-side types (vendor accounts).
	TxTypePurchase                TransactionType = "purchase"
	TxTypeAdvancePurchaseInventry TransactionType = "advance_purchase_inventory"
	TxTypePayableAdvance          TransactionType = "payable_advance"
	TxTypeAdvancePurchasePayment  TransactionType = "advance_purchase_payment"
	TxTypePayAble                 TransactionType = "pay_able"
	TxTypeReceiveAbleVendor       TransactionType = "receive_able_vendor"
	TxTypePurchaseReturn          TransactionType = "purchase_return"
)

var receivableTypes = map[TransactionType]bool{
	TxTypeSale:                    true,
	TxTypeReceivableAdvance:       true,
	TxTypeAdvanceSaleInventory:    true,
	TxTypeAdvanceSalePayment:      true,
	TxTypeReceiveAble:             true,
	TxTypeAdvanceReceivablePaymnt: true,
	TxTypePayAbleClient:           true,
	TxTypeSaleReturn:              true,
}

var payableTypes = map[TransactionType]bool{
	TxTypePurchase:                true,
	TxTypeAdvancePurchaseInventry: true,
	TxTypePayableAdvance:          true,
	TxTypeAdvancePurchasePayment:  true,
	TxTypePayAble:                 true,
	TxTypeReceiveAbleVendor:       true,
	TxTypePurchaseReturn:          true,
}

// IsKnown reports whether t is one of the recognised type tags. Unknown tags
// are still accepted by the ledger fold via its fallback branch.
func (t TransactionType) IsKnown() bool {
	return receivableTypes[t] || payableTypes[t]
}

func (t TransactionType) IsReceivableSide() bool { return receivableTypes[t] }

func (t TransactionType) IsPayableSide() bool { return payableTypes[t] }

// MovesStock reports whether a transaction of this type moves product
// inventory when a product is attached.
func (t TransactionType) MovesStock() bool {
	switch t {
	case TxTypeSale, TxTypeAdvanceSaleInventory, TxTypeSaleReturn,
		TxTypePurchase, TxTypeAdvancePurchaseInventry, TxTypePurchaseReturn:
		return true
	}
	return false
}

// StockDelta returns the signed stock movement for one unit of quantity:
// purchases add stock, sales remove it, returns reverse the original movement.
func (t TransactionType) StockDelta(quantity decimal.Decimal) decimal.Decimal {
	switch t {
	case TxTypeSale, TxTypeAdvanceSaleInventory, TxTypePurchaseReturn:
		return quantity.Neg()
	case TxTypePurchase, TxTypeAdvancePurchaseInventry, TxTypeSaleReturn:
		return quantity
	}
	return decimal.Zero
}

// CashDirection reports how a transaction's paid amount moves cash at the
// counter: +1 received, -1 paid out, 0 for unrecognised tags.
func (t TransactionType) CashDirection() int {
	switch t {
	case TxTypeSale, TxTypeReceivableAdvance, TxTypeAdvanceSaleInventory,
		TxTypeAdvanceSalePayment, TxTypeReceiveAble, TxTypeAdvanceReceivablePaymnt,
		TxTypeReceiveAbleVendor, TxTypePurchaseReturn:
		return 1
	case TxTypePayAbleClient, TxTypePurchase, TxTypeAdvancePurchaseInventry,
		TxTypePayableAdvance, TxTypeAdvancePurchasePayment, TxTypePayAble,
		TxTypeSaleReturn:
		return -1
	}
	return 0
}

type Transaction struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	Type        TransactionType
	Date        *time.Time
	TotalAmount decimal.NullDecimal
	PaidAmount  decimal.NullDecimal
	ProductID   *uuid.UUID
	Quantity    decimal.NullDecimal
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
