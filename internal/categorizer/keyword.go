package categorizer

import (
	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/models"
	"nvv/ebh-import/internal/rules"
)

// KeywordStrategy matches the item description against the keyword table.
type KeywordStrategy struct {
	rules  *rules.Compiled
	logger logging.Logger
}

// NewKeywordStrategy creates a new KeywordStrategy instance.
func NewKeywordStrategy(compiled *rules.Compiled, logger logging.Logger) *KeywordStrategy {
	return &KeywordStrategy{rules: compiled, logger: logging.OrNop(logger)}
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

func (s *KeywordStrategy) Signal() models.Signal {
	return models.SignalKeyword
}

// Categorize returns the first category in table order with a keyword
// contained in the description.
func (s *KeywordStrategy) Categorize(item models.LineItem) (StrategyResult, bool) {
	category, keyword, ok := s.rules.MatchKeyword(item.Description)
	if !ok {
		return StrategyResult{Strategy: s.Name(), Signal: s.Signal()}, false
	}

	s.logger.Debug("Item categorized using keyword matching",
		logging.Field{Key: logging.FieldKeyword, Value: keyword},
		logging.Field{Key: logging.FieldCategory, Value: category})

	return StrategyResult{
		Strategy: s.Name(),
		Signal:   s.Signal(),
		Category: category,
		Evidence: keyword,
		Found:    true,
	}, true
}
