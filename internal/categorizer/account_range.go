package categorizer

import (
	"fmt"

	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/models"
	"nvv/ebh-import/internal/rules"
	"nvv/ebh-import/internal/textutils"
)

// AccountRangeStrategy maps the leading ledger account number of the item
// to a category. An account code without a numeric prefix does not match.
type AccountRangeStrategy struct {
	rules  *rules.Compiled
	logger logging.Logger
}

func NewAccountRangeStrategy(compiled *rules.Compiled, logger logging.Logger) *AccountRangeStrategy {
	return &AccountRangeStrategy{rules: compiled, logger: logging.OrNop(logger)}
}

func (s *AccountRangeStrategy) Name() string          { return "AccountRange" }
func (s *AccountRangeStrategy) Signal() models.Signal { return models.SignalAccountRange }

func (s *AccountRangeStrategy) Categorize(item models.LineItem) (StrategyResult, bool) {
	miss := StrategyResult{Strategy: s.Name(), Signal: s.Signal()}
	if item.AccountCode == "" {
		return miss, false
	}

	account, ok := textutils.ParseLeadingInt(item.AccountCode)
	if !ok {
		s.logger.Debug("Account code has no numeric prefix",
			logging.Field{Key: "account_code", Value: item.AccountCode})
		return miss, false
	}

	r, ok := s.rules.AccountRange(account)
	if !ok {
		return miss, false
	}

	s.logger.Debug("Item categorized using account range",
		logging.Field{Key: "account", Value: account},
		logging.Field{Key: logging.FieldCategory, Value: r.Category})

	return StrategyResult{
		Strategy: s.Name(),
		Signal:   s.Signal(),
		Category: r.Category,
		Evidence: fmt.Sprintf("%d in %d-%d", account, r.Low, r.High),
		Found:    true,
	}, true
}
