package categorizer

import (
	"fmt"
	"strings"

	"nvv/ebh-import/internal/models"
)

// StrategyResult represents the outcome of one strategy attempt.
type StrategyResult struct {
	Strategy string
	Signal   models.Signal
	Category string
	Evidence string
	Found    bool
}

// StrategyResults aggregates the attempts of every strategy, in priority order.
type StrategyResults struct {
	Results []StrategyResult
}

// GetBestResult returns the first successful result.
func (sr StrategyResults) GetBestResult() (StrategyResult, bool) {
	for _, r := range sr.Results {
		if r.Found {
			return r, true
		}
	}
	return StrategyResult{}, false
}

// Summary returns a human-readable summary of all strategy attempts.
func (sr StrategyResults) Summary() string {
	parts := make([]string, 0, len(sr.Results))
	for _, result := range sr.Results {
		status := "no_match"
		if result.Found {
			status = "match(" + result.Category + ")"
		}
		parts = append(parts, fmt.Sprintf("%s:%s", result.Strategy, status))
	}
	return strings.Join(parts, ", ")
}
