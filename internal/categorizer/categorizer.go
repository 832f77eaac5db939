// Package categorizer assigns a category to imported line items by trying
// signals in priority order:
//  1. keywords in the description
//  2. the tax (BTW) code hint
//  3. the ledger account number range
//  4. the unit price band
//
// and falls back to the default category when none applies. Categorization
// is pure and total: it never fails and is safe for concurrent use.
package categorizer

import (
	"github.com/shopspring/decimal"

	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/models"
	"nvv/ebh-import/internal/rules"
)

// Categorizer runs the strategy chain over a compiled rule set.
type Categorizer struct {
	rules      *rules.Compiled
	strategies []CategorizationStrategy
	logger     logging.Logger
}

// NewCategorizer creates a Categorizer with the standard strategy order.
// A nil logger discards log output.
func NewCategorizer(compiled *rules.Compiled, logger logging.Logger) *Categorizer {
	logger = logging.OrNop(logger)
	return NewCategorizerWithStrategies(compiled, logger,
		NewKeywordStrategy(compiled, logger),
		NewTaxCodeStrategy(compiled, logger),
		NewAccountRangeStrategy(compiled, logger),
		NewPriceBandStrategy(compiled, logger),
	)
}

// NewCategorizerWithStrategies creates a Categorizer with a custom strategy
// chain. Strategies are tried in the given order.
func NewCategorizerWithStrategies(compiled *rules.Compiled, logger logging.Logger, strategies ...CategorizationStrategy) *Categorizer {
	return &Categorizer{
		rules:      compiled,
		strategies: strategies,
		logger:     logging.OrNop(logger),
	}
}

// Categorize returns the category of item.
func (c *Categorizer) Categorize(item models.LineItem) string {
	category, _ := c.decide(item)
	return category
}

// CategorizeItem is Categorize for loose arguments. An empty taxCode or
// accountCode and an invalid unitPrice mean the signal is absent.
func (c *Categorizer) CategorizeItem(description, taxCode, accountCode string, unitPrice decimal.NullDecimal) string {
	return c.Categorize(models.LineItem{
		Description: description,
		TaxCode:     taxCode,
		AccountCode: accountCode,
		UnitPrice:   unitPrice,
	})
}

// Explanation describes how a category was chosen.
type Explanation struct {
	Category string
	Signal   models.Signal
	Evidence string
	Trace    StrategyResults
}

// Explain runs every strategy and reports which one decided the category.
func (c *Categorizer) Explain(item models.LineItem) Explanation {
	var trace StrategyResults
	for _, s := range c.strategies {
		r, _ := s.Categorize(item)
		trace.Results = append(trace.Results, r)
	}

	if best, ok := trace.GetBestResult(); ok {
		return Explanation{Category: best.Category, Signal: best.Signal, Evidence: best.Evidence, Trace: trace}
	}
	return Explanation{Category: c.rules.DefaultCategory(), Signal: models.SignalDefault, Trace: trace}
}

// Classify categorizes item and fills in the derived item metadata.
func (c *Categorizer) Classify(item models.LineItem) models.ClassifiedLine {
	category, signal := c.decide(item)
	line := models.ClassifiedLine{
		LineItem:   item,
		Category:   category,
		Signal:     signal,
		ItemCode:   ItemCode(item.Description),
		ItemName:   ItemName(item),
		UOM:        c.MapUnit(item.Unit),
		BankCost:   c.IsBankCost(item.Description, item.AccountCode),
		PriceClass: c.PriceClass(item.UnitPrice),
	}
	if line.BankCost {
		line.ItemCode = BankCostItemCode
		line.ItemName = BankCostItemName
	}
	return line
}

func (c *Categorizer) decide(item models.LineItem) (string, models.Signal) {
	for _, s := range c.strategies {
		if r, ok := s.Categorize(item); ok {
			return r.Category, r.Signal
		}
	}
	c.logger.Debug("No signal matched, using default category",
		logging.Field{Key: logging.FieldCategory, Value: c.rules.DefaultCategory()})
	return c.rules.DefaultCategory(), models.SignalDefault
}
