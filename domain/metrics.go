package domain

import (
	"encoding/json"
	"math"
)

// Metric is a single reported value. A metric with a zero denominator is
// recorded as undefined rather than coerced to zero.
type Metric struct {
	Value   float64
	Defined bool
}

func MetricOf(v float64) Metric {
	return Metric{Value: v, Defined: true}
}

func UndefinedMetric() Metric {
	return Metric{}
}

// Ratio divides with a zero-denominator guard.
func Ratio(num, den float64) Metric {
	if den == 0 || math.IsNaN(den) {
		return UndefinedMetric()
	}
	return MetricOf(num / den)
}

// MarshalJSON renders undefined metrics as null so reports keep the marker.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = UndefinedMetric()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = MetricOf(v)
	return nil
}

// TickEvent is an observational progress notification emitted once per tick.
type TickEvent struct {
	Run            int `json:"run"`
	Tick           int `json:"tick"`
	UsersProcessed int `json:"users_processed"`
	ReviewsWritten int `json:"reviews_written"`
}

// UserLine is the read-only per-user view handed to the terminal renderer.
type UserLine struct {
	Index          int
	Scores         []float64 // dense row; NaN marks an absent review
	ReviewSum      float64
	ActualUtility  float64
	OptimalUtility float64
}

// RunReport is the flat record of everything one run produced.
type RunReport struct {
	RunID   string `json:"run_id"`
	Run     int    `json:"run"`
	Seed    int64  `json:"seed"`
	Failed  bool   `json:"failed"`
	FailMsg string `json:"fail_msg,omitempty"`

	Metrics map[string]Metric `json:"metrics"`

	// Dense exports for the persistence/reporting collaborators. NaN marks
	// an absent review in the review table.
	ReviewTable       [][]float64 `json:"-"`
	TrueUtilityTable  [][]float64 `json:"-"`
	ExpectedUtilTable [][]float64 `json:"-"`

	Users []UserLine `json:"-"`
}
