package store

import (
	"nvv/ebh-import/internal/rules"
)

// MockRuleStore is a RuleSource for tests.
type MockRuleStore struct {
	RuleSet   rules.RuleSet
	LoadError error
	Loads     int
}

// Load returns the configured rule set or error.
func (m *MockRuleStore) Load() (rules.RuleSet, error) {
	m.Loads++
	if m.LoadError != nil {
		return rules.RuleSet{}, m.LoadError
	}
	return m.RuleSet, nil
}
