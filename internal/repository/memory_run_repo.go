package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/usamadar/shopify-publish-channel/internal/domain"
)

// MemoryRunRepository is an in-memory RunRepository. It backs runs started
// without DATABASE_URL and doubles as the test fake.
type MemoryRunRepository struct {
	mu       sync.RWMutex
	runs     map[string]*domain.Run
	outcomes map[string][]*domain.Outcome

	// Optional error overrides, set in tests to simulate failure paths.
	CreateRunErr     error
	RecordOutcomeErr error
	FinishRunErr     error
}

func NewMemoryRunRepository() *MemoryRunRepository {
	return &MemoryRunRepository{
		runs:     make(map[string]*domain.Run),
		outcomes: make(map[string][]*domain.Outcome),
	}
}

func (m *MemoryRunRepository) CreateRun(_ context.Context, run *domain.Run) error {
	if m.CreateRunErr != nil {
		return m.CreateRunErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *run
	clone.Destinations = append([]string(nil), run.Destinations...)
	m.runs[run.ID] = &clone
	return nil
}

func (m *MemoryRunRepository) RecordOutcome(_ context.Context, o *domain.Outcome) error {
	if m.RecordOutcomeErr != nil {
		return m.RecordOutcomeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[o.RunID]; !ok {
		return domain.ErrNotFound
	}
	clone := *o
	m.outcomes[o.RunID] = append(m.outcomes[o.RunID], &clone)
	return nil
}

func (m *MemoryRunRepository) FinishRun(_ context.Context, runID string, s domain.RunSummary) error {
	if m.FinishRunErr != nil {
		return m.FinishRunErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[runID]
	if !ok {
		return domain.ErrNotFound
	}
	run.Status = s.Status
	run.Discovered = s.Discovered
	run.Published = s.Published
	run.Failed = s.Failed
	if s.Error != "" {
		msg := s.Error
		run.Error = &msg
	}
	finished := s.FinishedAt
	run.FinishedAt = &finished
	return nil
}

func (m *MemoryRunRepository) GetRun(_ context.Context, runID string) (*domain.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[runID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *run
	return &clone, nil
}

func (m *MemoryRunRepository) ListRuns(_ context.Context, limit int) ([]*domain.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	runs := make([]*domain.Run, 0, len(m.runs))
	for _, r := range m.runs {
		clone := *r
		runs = append(runs, &clone)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt.After(runs[j].StartedAt) })
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func (m *MemoryRunRepository) ListOutcomes(_ context.Context, runID string, failedOnly bool) ([]*domain.Outcome, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.runs[runID]; !ok {
		return nil, domain.ErrNotFound
	}
	var out []*domain.Outcome
	for _, o := range m.outcomes[runID] {
		if failedOnly && o.Published {
			continue
		}
		clone := *o
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// compile-time check that MemoryRunRepository implements RunRepository
var _ RunRepository = (*MemoryRunRepository)(nil)
