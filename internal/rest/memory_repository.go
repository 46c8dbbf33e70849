package rest

import (
	"context"
	"sync"

	"recsim/domain"
)

// InMemoryRunRepository backs the report endpoints when no database is
// configured. Reports from the current process only.
type InMemoryRunRepository struct {
	mu     sync.RWMutex
	runs   []domain.ExperimentRun
	nextID uint
}

func NewInMemoryRunRepository() *InMemoryRunRepository {
	return &InMemoryRunRepository{nextID: 1}
}

func (r *InMemoryRunRepository) SaveReport(_ context.Context, report domain.RunReport, params map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run := domain.NewExperimentRun(report, params)
	run.ID = r.nextID
	r.nextID++
	r.runs = append(r.runs, run)
	return nil
}

func (r *InMemoryRunRepository) FindAll(_ context.Context, limit int) ([]domain.ExperimentRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ExperimentRun, 0, len(r.runs))
	// newest first
	for i := len(r.runs) - 1; i >= 0; i-- {
		out = append(out, r.runs[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *InMemoryRunRepository) FindByRunID(_ context.Context, runID string) (*domain.ExperimentRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.runs {
		if r.runs[i].RunID == runID {
			run := r.runs[i]
			return &run, nil
		}
	}
	return nil, nil
}
