package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"recsim/domain"
)

type RunRepository struct {
	DB *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{DB: db}
}

// SaveReport flattens a run report into an experiment_runs row. Undefined
// metrics persist as JSON null so reports keep the marker.
func (r *RunRepository) SaveReport(ctx context.Context, report domain.RunReport, params map[string]any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	run := domain.NewExperimentRun(report, params)

	if err := r.DB.WithContext(ctx).Create(&run).Error; err != nil {
		return fmt.Errorf("failed to save experiment run: %w", err)
	}

	return nil
}

func (r *RunRepository) FindAll(ctx context.Context, limit int) ([]domain.ExperimentRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var runs []domain.ExperimentRun
	q := r.DB.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to query experiment runs: %w", err)
	}

	return runs, nil
}

func (r *RunRepository) FindByRunID(ctx context.Context, runID string) (*domain.ExperimentRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var run domain.ExperimentRun
	err := r.DB.WithContext(ctx).First(&run, "run_id = ?", runID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query experiment run: %w", err)
	}

	return &run, nil
}
