package ledger

import "github.com/shopspring/decimal"

// FormatAmount renders a debit or credit cell for display. A zero entry is an
// empty placeholder rather than "0.00" or "-0.00"; non-zero return entries
// keep their explicit minus sign.
func FormatAmount(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}

// FormatBalance renders a running balance: parenthesized when negative, plain
// otherwise.
func FormatBalance(d decimal.Decimal) string {
	if d.Sign() < 0 {
		return "(" + d.Neg().StringFixed(2) + ")"
	}
	return d.StringFixed(2)
}
