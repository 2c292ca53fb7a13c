package model

import (
	"encoding/json"
	"math"
	"time"
)

const (
	// DefaultWorkdayHours is 7h12m.
	DefaultWorkdayHours = 7.2
	// MaxWorkHours is the fixed ceiling both progress bars are measured against.
	MaxWorkHours = 9
)

// WorkdayConfig holds the user's target daily work duration.
type WorkdayConfig struct {
	Hours float64 `json:"hours"`
}

// DefaultWorkday returns the built-in workday length.
func DefaultWorkday() WorkdayConfig {
	return WorkdayConfig{Hours: DefaultWorkdayHours}
}

// Duration converts Hours to a time.Duration, rounded to the nanosecond.
func (c WorkdayConfig) Duration() time.Duration {
	return time.Duration(math.Round(c.Hours * float64(time.Hour)))
}

// Metrics is a snapshot derived from a log at a given instant. It is never persisted.
type Metrics struct {
	Now              time.Time     `json:"now"`
	TotalWorked      time.Duration `json:"-"`
	IsWorking        bool          `json:"isWorking"`
	ProgressPercent  int           `json:"progressPercent"`
	Remaining        time.Duration `json:"-"`
	RemainingPercent int           `json:"remainingPercent"`
	ProjectedStop    *time.Time    `json:"projectedStopTime,omitempty"`
}

// TotalWorkedSeconds returns TotalWorked in whole seconds.
func (m Metrics) TotalWorkedSeconds() int64 {
	return int64(m.TotalWorked / time.Second)
}

// RemainingSeconds returns Remaining in whole seconds.
func (m Metrics) RemainingSeconds() int64 {
	return int64(m.Remaining / time.Second)
}

// MarshalJSON adds the second-resolution fields the UI consumes.
func (m Metrics) MarshalJSON() ([]byte, error) {
	type plain Metrics
	return json.Marshal(struct {
		plain
		TotalWorkedSeconds int64 `json:"totalWorkedSeconds"`
		RemainingSeconds   int64 `json:"remainingSeconds"`
	}{plain(m), m.TotalWorkedSeconds(), m.RemainingSeconds()})
}
