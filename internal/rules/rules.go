// Package rules holds the rule tables that drive item categorization and
// party extraction. A RuleSet is plain data that can be loaded from YAML;
// Compile validates it and produces an immutable Compiled value that is safe
// for concurrent use.
package rules

import (
	"github.com/shopspring/decimal"

	"nvv/ebh-import/internal/models"
)

// CategoryRule maps a category to the keywords that select it.
type CategoryRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// TaxCodeHint maps a tax (BTW) code to a category.
type TaxCodeHint struct {
	Code     string `yaml:"code"`
	Category string `yaml:"category"`
}

// AccountRange maps an inclusive ledger account number range to a category.
type AccountRange struct {
	Low      int    `yaml:"low"`
	High     int    `yaml:"high"`
	Category string `yaml:"category"`
}

// Contains reports whether account lies within the range.
func (r AccountRange) Contains(account int) bool {
	return account >= r.Low && account <= r.High
}

// PriceBand is an upper-inclusive unit price band. The last band may leave
// Upper unset to cover everything above the previous band.
type PriceBand struct {
	Class string           `yaml:"class"`
	Upper *decimal.Decimal `yaml:"upper,omitempty"`
}

// PartyRules configures party name extraction and party type detection.
type PartyRules struct {
	CleanupPatterns    []string `yaml:"cleanup_patterns"`
	ExtractionPatterns []string `yaml:"extraction_patterns"`
	PurposeWords       []string `yaml:"purpose_words"`
	Articles           []string `yaml:"articles"`
	GenericTerms       []string `yaml:"generic_terms"`
	Connectors         []string `yaml:"connectors"`
	OrganizationWords  []string `yaml:"organization_words"`
	MinNameLength      int      `yaml:"min_name_length"`
	IncomeKeywords     []string `yaml:"income_keywords"`
	ExpenseKeywords    []string `yaml:"expense_keywords"`
}

// RuleSet is the full, serialisable set of rule tables.
type RuleSet struct {
	DefaultCategory string            `yaml:"default_category"`
	Keywords        []CategoryRule    `yaml:"keywords"`
	TaxCodes        []TaxCodeHint     `yaml:"tax_codes"`
	AccountRanges   []AccountRange    `yaml:"account_ranges"`
	PriceBands      []PriceBand       `yaml:"price_bands"`
	BankCostPhrases []string          `yaml:"bank_cost_phrases"`
	Units           map[string]string `yaml:"units"`
	Party           PartyRules        `yaml:"party"`
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// Default returns the built-in Dutch rule tables.
func Default() RuleSet {
	return RuleSet{
		DefaultCategory: models.CategoryServices,
		Keywords: []CategoryRule{
			{Category: models.CategoryTravel, Keywords: []string{
				"reiskosten", "travel", "hotel", "trein", "vliegtuig", "flight", "taxi", "parkeer", "parking", "accommodat",
			}},
			{Category: models.CategoryMarketing, Keywords: []string{
				"marketing", "advertis", "reclame", "promoti", "poster", "flyer", "banner", "drukwerk",
			}},
			{Category: models.CategoryOfficeSupplies, Keywords: []string{
				"kantoor", "office", "supplies", "stationery", "stationary", "paperclip", "papier", "paper", "toner", "enveloppen",
			}},
			{Category: models.CategoryFinancial, Keywords: []string{
				"bankkosten", "bank fee", "bank charges", "transactiekosten", "transaction fee", "sisow", "mollie", "provisie",
			}},
			{Category: models.CategoryCatering, Keywords: []string{
				"catering", "restaurant", "diner", "lunch", "maaltijd", "meal", "borrel", "zaalhuur", "evenement", "event",
			}},
			{Category: models.CategoryUtilities, Keywords: []string{
				"energie", "elektr", "electric", "gasverbruik", "waterbedrijf", "internet", "telefoon", "phone",
			}},
			{Category: models.CategorySoftware, Keywords: []string{
				"subscription", "abonnement", "license", "licentie", "software", "saas", "hosting", "domein", "domain",
			}},
			{Category: models.CategoryServices, Keywords: []string{
				"service", "dienst", "consult", "advies", "repair", "reparatie", "onderhoud", "maintenance", "training", "cursus", "workshop",
			}},
			{Category: models.CategoryProducts, Keywords: []string{
				"product", "artikel", "goederen", "merchandise", "boek", "book", "shirt", "materiaal", "hardware", "computer", "apparatuur", "equipment",
			}},
		},
		TaxCodes: []TaxCodeHint{
			{Code: "HOOG_VERK_21", Category: models.CategoryProducts},
			{Code: "LAAG_VERK_9", Category: models.CategoryProducts},
			{Code: "HOOG_INK_21", Category: models.CategoryProducts},
			{Code: "LAAG_INK_9", Category: models.CategoryProducts},
			{Code: "BI_EU_VERK", Category: models.CategoryProducts},
			{Code: "BI_EU_INK", Category: models.CategoryProducts},
			{Code: "BU_EU_VERK", Category: models.CategoryServices},
			{Code: "VERL_VERK", Category: models.CategoryServices},
			{Code: "GEEN", Category: models.CategoryServices},
			{Code: "VRIJ", Category: models.CategoryServices},
		},
		AccountRanges: []AccountRange{
			{Low: 30000, High: 39999, Category: models.CategoryProducts},
			{Low: 41000, High: 41999, Category: models.CategoryUtilities},
			{Low: 42000, High: 42999, Category: models.CategoryTravel},
			{Low: 43000, High: 43999, Category: models.CategoryOfficeSupplies},
			{Low: 44000, High: 44999, Category: models.CategoryMarketing},
			{Low: 45000, High: 45999, Category: models.CategoryServices},
			{Low: 46000, High: 46999, Category: models.CategoryOfficeSupplies},
			{Low: 47000, High: 47999, Category: models.CategoryFinancial},
			{Low: 70000, High: 79999, Category: models.CategoryProducts},
			{Low: 80000, High: 89999, Category: models.CategoryServices},
		},
		PriceBands: []PriceBand{
			{Class: string(models.PriceClassConsumable), Upper: price(50)},
			{Class: string(models.PriceClassEquipment), Upper: price(500)},
			{Class: string(models.PriceClassInvestment)},
		},
		BankCostPhrases: []string{
			"bankkosten", "bank charges", "bank fee", "banking fees", "bank cost",
			"transaction fee", "transactiekosten", "provisie bank", "bank commission",
		},
		Units: map[string]string{
			"nos": "Unit", "unit": "Unit", "eenheid": "Unit", "stuks": "Unit", "stuk": "Unit", "per stuk": "Unit",
			"uur": "Hour", "hour": "Hour", "dag": "Day", "day": "Day",
			"maand": "Month", "month": "Month", "jaar": "Year", "year": "Year",
			"kg": "Kg", "kilogram": "Kg", "liter": "Litre", "litre": "Litre", "meter": "Meter", "m": "Meter",
			"service": "Unit", "trip": "Unit", "license": "Unit",
		},
		Party: PartyRules{
			CleanupPatterns: []string{
				`^(?:(?:payment|betaling|invoice|factuur)\s+(?:from|van|to|naar)\s+|mutatie\s+\d+:\s*)+`,
				`(?:\s*\([^()]*\))+$`,
			},
			ExtractionPatterns: []string{
				`^(?:sepa\s+incasso|incasso|machtiging|overboeking|overschrijving|ideal|tikkie)\s+(?:(?:van|from|aan|naar|to)\s+)?(.+)$`,
				`\b(?:van|from|door|by)\s+(.+)$`,
				`\b(?:aan|naar|to)\s+(.+)$`,
				`^(.+?)\s+(?:payment|betaling|invoice|factuur|nota)\b`,
				`^(.+)$`,
			},
			PurposeWords: []string{"for", "voor"},
			Articles:     []string{"de", "het", "the"},
			GenericTerms: []string{
				"payment", "betaling", "invoice", "factuur", "transfer", "overboeking", "unknown", "onbekend",
				"bank", "incasso", "customer", "supplier", "klant", "leverancier", "kosten", "costs", "diversen",
				"overschrijving", "machtiging", "ideal", "tikkie", "sepa",
			},
			Connectors: []string{"van", "from", "aan", "naar", "to", "door", "by"},
			OrganizationWords: []string{
				"stichting", "vereniging", "vrienden", "genootschap", "federatie", "coöperatie",
				"foundation", "friends", "society", "association", "union",
			},
			MinNameLength: 3,
			IncomeKeywords: []string{
				"ontvangen", "received", "contributie", "lidmaatschap", "membership", "donatie", "donation", "gift",
				"inkomsten", "income", "verkoop", "sales", "terugbetaling", "refund",
			},
			ExpenseKeywords: []string{
				"betaald", "paid", "kosten", "costs", "uitgave", "expense", "inkoop", "purchase", "huur", "rent",
				"abonnement", "subscription", "fee",
			},
		},
	}
}
