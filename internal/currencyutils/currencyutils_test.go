package currencyutils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		amountStr string
		expected  decimal.Decimal
		hasError  bool
	}{
		{"Empty string", "", decimal.Zero, false},
		{"Simple decimal", "123.45", decimal.RequireFromString("123.45"), false},
		{"Negative decimal", "-123.45", decimal.RequireFromString("-123.45"), false},
		{"Integer", "100", decimal.NewFromInt(100), false},
		{"Comma decimal separator", "123,45", decimal.RequireFromString("123.45"), false},
		{"Thousand separator comma", "1,234.56", decimal.RequireFromString("1234.56"), false},
		{"Thousand separator apostrophe", "1'234.56", decimal.RequireFromString("1234.56"), false},
		{"European format", "1.234,56", decimal.RequireFromString("1234.56"), false},
		{"Euro symbol", "€ 12,50", decimal.RequireFromString("12.50"), false},
		{"Currency code", "EUR 99.95", decimal.RequireFromString("99.95"), false},
		{"With spaces", "  123.45  ", decimal.RequireFromString("123.45"), false},
		{"Malformed decimal", "123.45.67", decimal.Zero, true},
		{"Non-numeric", "abc", decimal.Zero, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseAmount(tc.amountStr)
			if tc.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(result), "Expected %s but got %s", tc.expected, result)
		})
	}
}

func TestParseOptionalAmount(t *testing.T) {
	amount, err := ParseOptionalAmount(" ")
	require.NoError(t, err)
	assert.False(t, amount.Valid)

	amount, err = ParseOptionalAmount("0")
	require.NoError(t, err)
	assert.True(t, amount.Valid)
	assert.True(t, amount.Decimal.IsZero())

	_, err = ParseOptionalAmount("twelve")
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1234.50", FormatAmount(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "-0.10", FormatAmount(decimal.RequireFromString("-0.1")))
	assert.Equal(t, "", FormatOptionalAmount(decimal.NullDecimal{}))
	assert.Equal(t, "7.00", FormatOptionalAmount(decimal.NewNullDecimal(decimal.NewFromInt(7))))
}
