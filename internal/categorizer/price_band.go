package categorizer

import (
	"github.com/shopspring/decimal"

	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/models"
	"nvv/ebh-import/internal/rules"
)

// PriceBandStrategy is the unit price fallback. A price in the lowest band
// means office supplies and anything above it means products, so the
// middle band is never distinguished from the top one. A zero price counts
// as no price.
type PriceBandStrategy struct {
	rules  *rules.Compiled
	logger logging.Logger
}

func NewPriceBandStrategy(compiled *rules.Compiled, logger logging.Logger) *PriceBandStrategy {
	return &PriceBandStrategy{rules: compiled, logger: logging.OrNop(logger)}
}

func (s *PriceBandStrategy) Name() string          { return "PriceBand" }
func (s *PriceBandStrategy) Signal() models.Signal { return models.SignalPriceBand }

func (s *PriceBandStrategy) Categorize(item models.LineItem) (StrategyResult, bool) {
	miss := StrategyResult{Strategy: s.Name(), Signal: s.Signal()}
	price, ok := unitPrice(item)
	if !ok {
		return miss, false
	}
	upper, ok := s.rules.LowestBandUpper()
	if !ok {
		return miss, false
	}

	category := models.CategoryProducts
	if price.LessThanOrEqual(upper) {
		category = models.CategoryOfficeSupplies
	}

	s.logger.Debug("Item categorized using price band",
		logging.Field{Key: "unit_price", Value: price.String()},
		logging.Field{Key: logging.FieldCategory, Value: category})

	return StrategyResult{
		Strategy: s.Name(),
		Signal:   s.Signal(),
		Category: category,
		Evidence: price.String(),
		Found:    true,
	}, true
}

// unitPrice returns the item's price when it is set and positive.
func unitPrice(item models.LineItem) (decimal.Decimal, bool) {
	if !item.UnitPrice.Valid || !item.UnitPrice.Decimal.IsPositive() {
		return decimal.Zero, false
	}
	return item.UnitPrice.Decimal, true
}
