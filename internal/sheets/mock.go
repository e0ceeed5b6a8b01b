package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/timetable/internal/model"
)

// MockSource is an in-memory service.Source for tests.
type MockSource struct {
	FetchFunc  func(ctx context.Context) (model.Table, error)
	SourceName string
	Table      model.Table
	FetchCalls int
	mu         sync.Mutex
}

// NewMockSource creates a mock that returns table on every fetch.
func NewMockSource(table model.Table) *MockSource {
	return &MockSource{Table: table, SourceName: "mock"}
}

// Fetch implements service.Source.
func (m *MockSource) Fetch(ctx context.Context) (model.Table, error) {
	m.mu.Lock()
	m.FetchCalls++
	fn := m.FetchFunc
	table := m.Table
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return table, nil
}

// Name implements service.Source.
func (m *MockSource) Name() string {
	return m.SourceName
}

// SetFetchError configures the mock to fail every fetch with err.
func (m *MockSource) SetFetchError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FetchFunc = func(context.Context) (model.Table, error) {
		return model.Table{}, err
	}
}

// Calls returns the number of fetches so far.
func (m *MockSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FetchCalls
}

// AssertFetchCalled verifies that Fetch was called the expected number of times.
func (m *MockSource) AssertFetchCalled(t interface{ Fatalf(string, ...any) }, expectedCalls int) {
	if got := m.Calls(); got != expectedCalls {
		t.Fatalf("expected Fetch to be called %d times, but was called %d times", expectedCalls, got)
	}
}
