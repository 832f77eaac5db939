package categorizer

import (
	"nvv/ebh-import/internal/models"
)

// CategorizationStrategy is one signal of the item categorizer. Strategies
// are pure: they never fail and never mutate shared state.
type CategorizationStrategy interface {
	// Categorize returns the category this signal assigns to item, with
	// the evidence that decided it. found is false when the signal does
	// not apply.
	Categorize(item models.LineItem) (result StrategyResult, found bool)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string

	// Signal identifies the input this strategy inspects.
	Signal() models.Signal
}
