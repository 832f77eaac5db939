// Package models provides the data structures used throughout the application.
package models

import "strings"

// Categories assigned to imported line items.
const (
	CategoryServices       = "Services"
	CategoryProducts       = "Products"
	CategoryOfficeSupplies = "Office Supplies"
	CategoryTravel         = "Travel and Expenses"
	CategoryMarketing      = "Marketing and Advertising"
	CategoryFinancial      = "Financial Services"
	CategoryCatering       = "Catering and Events"
	CategoryUtilities      = "Utilities"
	CategorySoftware       = "Software and Subscriptions"
)

var knownCategories = []string{
	CategoryServices,
	CategoryProducts,
	CategoryOfficeSupplies,
	CategoryTravel,
	CategoryMarketing,
	CategoryFinancial,
	CategoryCatering,
	CategoryUtilities,
	CategorySoftware,
}

// KnownCategories returns the closed set of category names.
func KnownCategories() []string {
	out := make([]string, len(knownCategories))
	copy(out, knownCategories)
	return out
}

// IsKnownCategory reports whether name belongs to the closed category set.
// The comparison is exact.
func IsKnownCategory(name string) bool {
	for _, c := range knownCategories {
		if c == name {
			return true
		}
	}
	return false
}

// Signal identifies which input decided a category.
type Signal string

const (
	SignalKeyword      Signal = "keyword"
	SignalTaxCode      Signal = "tax_code"
	SignalAccountRange Signal = "account_range"
	SignalPriceBand    Signal = "price_band"
	SignalDefault      Signal = "default"
)

// PriceClass is the coarse price band of a unit price.
type PriceClass string

const (
	PriceClassNone       PriceClass = ""
	PriceClassConsumable PriceClass = "Consumable"
	PriceClassEquipment  PriceClass = "Equipment"
	PriceClassInvestment PriceClass = "Investment"
)

// ParsePriceClass maps a band name from a rule file to a PriceClass.
func ParsePriceClass(s string) (PriceClass, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "consumable":
		return PriceClassConsumable, true
	case "equipment":
		return PriceClassEquipment, true
	case "investment":
		return PriceClassInvestment, true
	}
	return PriceClassNone, false
}
