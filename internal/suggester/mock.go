package suggester

import (
	"context"
	"sync"

	"nvv/ebh-import/internal/models"
)

// MockSuggester is a NameSuggester for tests. Names maps descriptions to
// suggestions; descriptions not in Names yield ErrNoSuggestion.
type MockSuggester struct {
	Names map[string]string
	Err   error

	mu    sync.Mutex
	calls []string
}

// Suggest returns the configured suggestion for description.
func (m *MockSuggester) Suggest(_ context.Context, description string, _ models.PartyType) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, description)
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if name, ok := m.Names[description]; ok {
		return name, nil
	}
	return "", ErrNoSuggestion
}

// Calls returns the descriptions Suggest was called with.
func (m *MockSuggester) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
