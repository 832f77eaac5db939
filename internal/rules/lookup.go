package rules

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"nvv/ebh-import/internal/models"
)

// DefaultCategory is returned when no signal matches.
func (c *Compiled) DefaultCategory() string {
	return c.defaultCategory
}

// MatchKeyword returns the first category, in table order, with a keyword
// occurring in description. Matching is case-insensitive substring matching.
func (c *Compiled) MatchKeyword(description string) (category, keyword string, ok bool) {
	lower := strings.ToLower(description)
	if lower == "" {
		return "", "", false
	}
	for _, rule := range c.keywords {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category, kw, true
			}
		}
	}
	return "", "", false
}

// TaxCategory returns the category hinted by a tax code.
func (c *Compiled) TaxCategory(code string) (string, bool) {
	code = normalizeTaxCode(code)
	if code == "" {
		return "", false
	}
	cat, ok := c.taxCodes[code]
	return cat, ok
}

// AccountRange returns the first range containing account.
func (c *Compiled) AccountRange(account int) (AccountRange, bool) {
	for _, r := range c.ranges {
		if r.Contains(account) {
			return r, true
		}
	}
	return AccountRange{}, false
}

// LowestBandUpper returns the upper bound of the lowest price band.
func (c *Compiled) LowestBandUpper() (decimal.Decimal, bool) {
	if len(c.bands) == 0 || c.bands[0].unbounded {
		return decimal.Zero, false
	}
	return c.bands[0].upper, true
}

// PriceClass returns the band a positive price falls into.
func (c *Compiled) PriceClass(price decimal.Decimal) models.PriceClass {
	if !price.IsPositive() {
		return models.PriceClassNone
	}
	for _, b := range c.bands {
		if b.unbounded || price.LessThanOrEqual(b.upper) {
			return b.class
		}
	}
	return models.PriceClassNone
}

// BankCostPhrase returns the bank-cost phrase found in description.
func (c *Compiled) BankCostPhrase(description string) (string, bool) {
	lower := strings.ToLower(description)
	for _, phrase := range c.bankCost {
		if strings.Contains(lower, phrase) {
			return phrase, true
		}
	}
	return "", false
}

// Unit maps a unit of measure from the export to its canonical name.
func (c *Compiled) Unit(unit string) (string, bool) {
	uom, ok := c.units[strings.ToLower(strings.TrimSpace(unit))]
	return uom, ok
}

// CleanupPatterns returns the boilerplate patterns in application order.
func (c *Compiled) CleanupPatterns() []*regexp.Regexp {
	return append([]*regexp.Regexp(nil), c.cleanup...)
}

// ExtractionPatterns returns the party patterns in priority order.
func (c *Compiled) ExtractionPatterns() []*regexp.Regexp {
	return append([]*regexp.Regexp(nil), c.extraction...)
}

// StripPurpose removes a trailing purpose clause such as "voor kantoorkosten".
func (c *Compiled) StripPurpose(s string) string {
	if c.purposeClause == nil {
		return s
	}
	return c.purposeClause.ReplaceAllString(s, "")
}

// StripArticle removes a leading article.
func (c *Compiled) StripArticle(s string) string {
	if c.leadingArticle == nil {
		return s
	}
	return c.leadingArticle.ReplaceAllString(s, "")
}

// IsGenericTerm reports whether word is a generic term. The comparison is
// on the whole, case-folded word.
func (c *Compiled) IsGenericTerm(word string) bool {
	_, ok := c.generic[strings.ToLower(strings.TrimSpace(word))]
	return ok
}

// IsNoiseWord reports whether word is a connector such as "naar" or an
// article. Noise words never make a party name on their own.
func (c *Compiled) IsNoiseWord(word string) bool {
	_, ok := c.noise[strings.ToLower(strings.TrimSpace(word))]
	return ok
}

// ContainsOrganizationWord reports whether s contains a word that starts an
// organisation name, such as "Stichting".
func (c *Compiled) ContainsOrganizationWord(s string) bool {
	for _, word := range strings.Fields(s) {
		if _, ok := c.organization[strings.ToLower(word)]; ok {
			return true
		}
	}
	return false
}

// MinNameLength is the minimum length of an accepted party name.
func (c *Compiled) MinNameLength() int {
	return c.minNameLength
}

// DirectionHints reports whether description contains income and expense
// keywords.
func (c *Compiled) DirectionHints(description string) (income, expense bool) {
	lower := strings.ToLower(description)
	return containsAny(lower, c.income), containsAny(lower, c.expense)
}

// RuleSet returns a copy of the rule set the tables were compiled from.
func (c *Compiled) RuleSet() RuleSet {
	return c.source.Clone()
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
