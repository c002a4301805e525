package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"zero is an empty placeholder", "0", ""},
		{"positive entry", "1234.5", "1234.50"},
		{"return entry keeps its sign", "-400", "-400.00"},
		{"negative zero is still empty", "-0.00", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatAmount(decimal.RequireFromString(tc.value))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatBalance(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"positive renders plain", "500", "500.00"},
		{"zero renders plain", "0", "0.00"},
		{"negative renders parenthesized", "-512.3", "(512.30)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatBalance(decimal.RequireFromString(tc.value))
			assert.Equal(t, tc.want, got)
		})
	}
}
