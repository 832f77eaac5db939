package categorizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"nvv/ebh-import/internal/models"
	"nvv/ebh-import/internal/textutils"
)

// Item used for every bank-cost line.
const (
	BankCostItemCode = "Bank-Costs"
	BankCostItemName = "Bank Costs"
)

const (
	maxItemCodeLength = 30
	maxItemNameLength = 100
	defaultUOM        = "Unit"
)

// PriceClass returns the price band of a unit price, using all bands.
// Missing and non-positive prices have no class.
func (c *Categorizer) PriceClass(price decimal.NullDecimal) models.PriceClass {
	p, ok := unitPrice(models.LineItem{UnitPrice: price})
	if !ok {
		return models.PriceClassNone
	}
	return c.rules.PriceClass(p)
}

// IsBankCost reports whether a line is a bank charge, judged by its
// description or the name part of its account code.
func (c *Categorizer) IsBankCost(description, accountCode string) bool {
	if _, ok := c.rules.BankCostPhrase(description); ok {
		return true
	}
	_, ok := c.rules.BankCostPhrase(accountCode)
	return ok
}

// MapUnit maps a unit from the export to a canonical unit of measure.
// Unknown and empty units map to "Unit".
func (c *Categorizer) MapUnit(unit string) string {
	if uom, ok := c.rules.Unit(unit); ok {
		return uom
	}
	return defaultUOM
}

// ItemCode derives an item code from a description: letters, digits,
// spaces, "-" and "_" are kept, spaces become "-", and the result is
// upper-cased and cut to 30 characters.
func ItemCode(description string) string {
	kept := textutils.KeepRunes(description, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_'
	})
	code := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(kept), " ", "-"))
	if runes := []rune(code); len(runes) > maxItemCodeLength {
		code = string(runes[:maxItemCodeLength])
	}
	return code
}

var (
	accountNumberPrefix = regexp.MustCompile(`^\d+\s*-\s*`)
	companySuffix       = regexp.MustCompile(`\s*-\s*[A-Z]{2,4}$`)
	ebhPrefix           = regexp.MustCompile(`^EBH-`)
	virtualServerID     = regexp.MustCompile(`Virtual Server ID:\s*\d+,?\s*`)
	idNoise             = regexp.MustCompile(`ID:\s*\d+,?\s*`)
	monthSuffix         = regexp.MustCompile(`,?\s*maand\s+\w+$`)
	prefixIDNoise       = regexp.MustCompile(`-ID-\d+`)
	prefixMonth         = regexp.MustCompile(`-MAA$`)
	edgePunctuation     = regexp.MustCompile(`^[:\-,\s]+|[:\-,\s]+$`)
)

// CleanItemName turns a ledger account name into an item name. It strips
// the account number, a trailing company abbreviation, an "EBH-" prefix and
// server/ID/month noise, and limits the result to 100 characters.
func CleanItemName(accountName string) string {
	cleaned := strings.TrimSpace(accountName)
	cleaned = accountNumberPrefix.ReplaceAllString(cleaned, "")
	cleaned = companySuffix.ReplaceAllString(cleaned, "")
	cleaned = ebhPrefix.ReplaceAllString(cleaned, "")

	if prefix, rest, ok := strings.Cut(cleaned, ":"); ok {
		rest = stripIDNoise(strings.TrimSpace(rest))
		rest = strings.TrimSpace(rest)
		if len(rest) > 3 && !isGenericItemWord(rest) {
			cleaned = rest
		} else {
			prefix = prefixIDNoise.ReplaceAllString(prefix, "")
			prefix = strings.ReplaceAll(prefix, "EBH-VIRTUAL-SERVER", "Virtual-Server")
			prefix = prefixMonth.ReplaceAllString(prefix, "")
			cleaned = strings.TrimSpace(prefix)
		}
	} else {
		cleaned = stripIDNoise(cleaned)
	}

	cleaned = edgePunctuation.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(textutils.Truncate(cleaned, maxItemNameLength))
}

// ItemName names the item of a line: the cleaned name part of its account
// code when it has one, otherwise the line description.
func ItemName(item models.LineItem) string {
	if _, name, ok := strings.Cut(item.AccountCode, "-"); ok && strings.TrimSpace(name) != "" {
		if cleaned := CleanItemName(item.AccountCode); cleaned != "" {
			return cleaned
		}
	}
	return item.Description
}

func stripIDNoise(s string) string {
	s = virtualServerID.ReplaceAllString(s, "")
	s = idNoise.ReplaceAllString(s, "")
	return monthSuffix.ReplaceAllString(s, "")
}

func isGenericItemWord(s string) bool {
	switch strings.ToLower(s) {
	case "service", "item":
		return true
	}
	return false
}
