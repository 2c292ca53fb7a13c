package timecalc

import (
	"math"
	"time"

	"github.com/Tiliavir/timeclock/internal/model"
)

const maxWork = model.MaxWorkHours * time.Hour

// Log is the read-only view of an event log the calculator needs.
type Log interface {
	Intervals() []model.Interval
	IsWorking() bool
}

// Calculate derives a metrics snapshot from log at now. It keeps no state, so
// the open interval is re-measured on every call.
func Calculate(log Log, cfg model.WorkdayConfig, now time.Time) model.Metrics {
	total := TotalWorked(log.Intervals(), now)
	working := log.IsWorking()

	remaining := cfg.Duration() - total
	if remaining < 0 {
		remaining = 0
	}

	m := model.Metrics{
		Now:             now,
		TotalWorked:     total,
		IsWorking:       working,
		ProgressPercent: percentOfMax(total),
		Remaining:       remaining,
	}
	if working {
		m.RemainingPercent = percentOfMax(remaining)
		stop := now.Add(remaining)
		m.ProjectedStop = &stop
	}
	return m
}

// TotalWorked sums closed intervals plus the open one measured against now.
// An interval with an invalid endpoint contributes nothing, and an open
// interval starting after now counts as zero.
func TotalWorked(intervals []model.Interval, now time.Time) time.Duration {
	var total time.Duration
	for _, iv := range intervals {
		if iv.Start.IsZero() {
			continue
		}
		end := now
		if iv.End != nil {
			if iv.End.IsZero() {
				continue
			}
			end = *iv.End
		}
		if d := end.Sub(iv.Start); d > 0 {
			total += d
		}
	}
	return total
}

func percentOfMax(d time.Duration) int {
	pct := float64(d) / float64(maxWork) * 100
	return int(math.Round(math.Max(0, math.Min(100, pct))))
}
