package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ExperimentRun is the persisted record of one simulation run.
type ExperimentRun struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	RunID     string            `gorm:"column:run_id;uniqueIndex;not null" json:"run_id"`
	RunIndex  int               `gorm:"column:run_index;not null" json:"run_index"`
	Seed      int64             `gorm:"column:seed;not null" json:"seed"`
	Status    string            `gorm:"column:status;not null" json:"status"`
	Params    datatypes.JSONMap `gorm:"column:params;type:jsonb" json:"params"`
	Metrics   datatypes.JSONMap `gorm:"column:metrics;type:jsonb" json:"metrics"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ExperimentRun) TableName() string {
	return "experiment_runs"
}

const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// NewExperimentRun flattens a report into its persisted form. Undefined
// metrics become JSON null so the marker survives storage.
func NewExperimentRun(report RunReport, params map[string]any) ExperimentRun {
	metricsMap := make(datatypes.JSONMap, len(report.Metrics))
	for name, metric := range report.Metrics {
		if !metric.Defined {
			metricsMap[name] = nil
			continue
		}
		metricsMap[name] = metric.Value
	}

	status := RunStatusCompleted
	if report.Failed {
		status = RunStatusFailed
		metricsMap["fail_msg"] = report.FailMsg
	}

	return ExperimentRun{
		RunID:    report.RunID,
		RunIndex: report.Run,
		Seed:     report.Seed,
		Status:   status,
		Params:   datatypes.JSONMap(params),
		Metrics:  metricsMap,
	}
}
