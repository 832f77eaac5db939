package models

import (
	"sort"

	"nvv/ebh-import/internal/logging"
)

// ImportStats tracks the outcome of an import run.
type ImportStats struct {
	RunID       string
	Mutations   int
	Lines       int
	Failed      int
	BankCosts   int
	Categories  map[string]int
	Signals     map[Signal]int
	PartySource map[PartySource]int
	Unresolved  int
}

// NewImportStats creates empty statistics for a run.
func NewImportStats(runID string) *ImportStats {
	return &ImportStats{
		RunID:       runID,
		Categories:  make(map[string]int),
		Signals:     make(map[Signal]int),
		PartySource: make(map[PartySource]int),
	}
}

// Record adds one classified mutation to the statistics.
func (s *ImportStats) Record(cm ClassifiedMutation) {
	s.Mutations++
	if cm.Err != nil {
		s.Failed++
		return
	}
	for _, line := range cm.Lines {
		s.Lines++
		s.Categories[line.Category]++
		s.Signals[line.Signal]++
		if line.BankCost {
			s.BankCosts++
		}
	}
	if cm.Resolved() {
		s.PartySource[cm.PartySource]++
	} else {
		s.Unresolved++
	}
}

// Provisional returns the number of mutations that got a provisional party.
func (s *ImportStats) Provisional() int {
	return s.PartySource[PartySourceProvisional]
}

// ResolutionRate is the percentage of mutations with a non-provisional party.
func (s *ImportStats) ResolutionRate() float64 {
	if s.Mutations == 0 {
		return 0.0
	}
	resolved := 0
	for src, n := range s.PartySource {
		if src != PartySourceProvisional {
			resolved += n
		}
	}
	return float64(resolved) / float64(s.Mutations) * 100.0
}

// SortedCategories returns the category names ordered by descending count.
func (s *ImportStats) SortedCategories() []string {
	names := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.Categories[names[i]] != s.Categories[names[j]] {
			return s.Categories[names[i]] > s.Categories[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// LogSummary logs a summary of the run.
func (s *ImportStats) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}

	logger.Info("Import summary",
		logging.Field{Key: logging.FieldRunID, Value: s.RunID},
		logging.Field{Key: "mutations", Value: s.Mutations},
		logging.Field{Key: "lines", Value: s.Lines},
		logging.Field{Key: "failed", Value: s.Failed},
		logging.Field{Key: "bank_cost_lines", Value: s.BankCosts},
		logging.Field{Key: "provisional", Value: s.Provisional()},
		logging.Field{Key: "unresolved", Value: s.Unresolved},
		logging.Field{Key: "resolution_rate", Value: s.ResolutionRate()},
	)
	for _, name := range s.SortedCategories() {
		logger.Debug("Category total",
			logging.Field{Key: logging.FieldCategory, Value: name},
			logging.Field{Key: logging.FieldCount, Value: s.Categories[name]})
	}
}
