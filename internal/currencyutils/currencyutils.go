// Package currencyutils provides common currency and decimal operations used throughout the application.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyNoise = regexp.MustCompile(`(?i)EUR|[€$£\s]`)

// ParseAmount parses a string representation of an amount into a decimal value
// It handles various formats like "1.234,56", "1234.56", "1234,56", "€ 12,50"
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, nil
	}

	standardized := StandardizeAmount(amountStr)

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// ParseOptionalAmount is ParseAmount for fields that may be absent. An
// empty string yields an invalid NullDecimal.
func ParseOptionalAmount(amountStr string) (decimal.NullDecimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.NullDecimal{}, nil
	}
	amount, err := ParseAmount(amountStr)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(amount), nil
}

// StandardizeAmount converts various currency string formats to a standard format that can be parsed by decimal.NewFromString
func StandardizeAmount(amountStr string) string {
	amountStr = currencyNoise.ReplaceAllString(amountStr, "")

	// European format (1.234,56) -> (1234.56)
	if strings.Contains(amountStr, ",") && strings.Contains(amountStr, ".") {
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	} else if strings.Contains(amountStr, ",") {
		parts := strings.Split(amountStr, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	}

	amountStr = strings.ReplaceAll(amountStr, "'", "")

	return amountStr
}

// FormatAmount formats a decimal amount with two decimal places and no
// thousands separators.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatOptionalAmount formats amount, or returns "" when it is absent.
func FormatOptionalAmount(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return ""
	}
	return FormatAmount(amount.Decimal)
}
