package categorizer

import (
	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/models"
	"nvv/ebh-import/internal/rules"
)

// TaxCodeStrategy looks the item's tax code up in the tax hint table.
// Unknown codes are skipped.
type TaxCodeStrategy struct {
	rules  *rules.Compiled
	logger logging.Logger
}

func NewTaxCodeStrategy(compiled *rules.Compiled, logger logging.Logger) *TaxCodeStrategy {
	return &TaxCodeStrategy{rules: compiled, logger: logging.OrNop(logger)}
}

func (s *TaxCodeStrategy) Name() string          { return "TaxCode" }
func (s *TaxCodeStrategy) Signal() models.Signal { return models.SignalTaxCode }

func (s *TaxCodeStrategy) Categorize(item models.LineItem) (StrategyResult, bool) {
	category, ok := s.rules.TaxCategory(item.TaxCode)
	if !ok {
		return StrategyResult{Strategy: s.Name(), Signal: s.Signal()}, false
	}

	s.logger.Debug("Item categorized using tax code hint",
		logging.Field{Key: "tax_code", Value: item.TaxCode},
		logging.Field{Key: logging.FieldCategory, Value: category})

	return StrategyResult{
		Strategy: s.Name(),
		Signal:   s.Signal(),
		Category: category,
		Evidence: item.TaxCode,
		Found:    true,
	}, true
}
