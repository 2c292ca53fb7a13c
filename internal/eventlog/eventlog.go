// Package eventlog holds one day of clock events and guards the rules for
// appending to it.
package eventlog

import (
	"time"

	"github.com/Tiliavir/timeclock/internal/model"
	"github.com/Tiliavir/timeclock/internal/timecalc"
)

// State is the position of a log in the clock state machine.
type State int

const (
	Empty State = iota
	ClockedOut
	ClockedIn
)

func (s State) String() string {
	switch s {
	case ClockedIn:
		return "ClockedIn"
	case ClockedOut:
		return "ClockedOut"
	default:
		return "Empty"
	}
}

// Log is the ordered, alternating sequence of clock events for the current day.
// The zero value is an empty log ready to use.
type Log struct {
	events []model.ClockEvent
}

// New returns an empty log.
func New() *Log {
	return &Log{}
}

// Restore builds a log from persisted events without re-validating them.
// Pairing in Intervals is direction-driven, so a damaged log degrades instead
// of mis-pairing.
func Restore(events []model.ClockEvent) *Log {
	l := &Log{events: make([]model.ClockEvent, len(events))}
	copy(l.events, events)
	return l
}

// Events returns a copy of the recorded events.
func (l *Log) Events() []model.ClockEvent {
	out := make([]model.ClockEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the number of recorded events.
func (l *Log) Len() int {
	return len(l.events)
}

// Last returns the most recent event, if any.
func (l *Log) Last() (model.ClockEvent, bool) {
	if len(l.events) == 0 {
		return model.ClockEvent{}, false
	}
	return l.events[len(l.events)-1], true
}

// IsWorking reports whether the last event is an In.
func (l *Log) IsWorking() bool {
	last, ok := l.Last()
	return ok && last.Direction == model.In
}

// State returns the current state machine position.
func (l *Log) State() State {
	switch {
	case len(l.events) == 0:
		return Empty
	case l.IsWorking():
		return ClockedIn
	default:
		return ClockedOut
	}
}

// NextDirection returns the direction the next valid event must have.
func (l *Log) NextDirection() model.Direction {
	last, ok := l.Last()
	if !ok {
		return model.In
	}
	return last.Direction.Opposite()
}

// Validate checks whether an event at candidate with direction dir may be
// appended. A candidate equal to the last timestamp is accepted.
func (l *Log) Validate(candidate time.Time, dir model.Direction) error {
	last, ok := l.Last()
	if ok && candidate.Before(last.Timestamp) {
		return model.ErrOutOfOrder
	}
	switch dir {
	case model.In:
		if l.IsWorking() {
			return model.ErrAlreadyClockedIn
		}
	case model.Out:
		if !ok || last.Direction == model.Out {
			return model.ErrNotClockedIn
		}
	default:
		return model.ErrInvalidDirection
	}
	return nil
}

// Append validates and records a new event truncated to the minute. On error
// the log is left untouched.
func (l *Log) Append(candidate time.Time, dir model.Direction) error {
	candidate = candidate.Truncate(time.Minute)
	if err := l.Validate(candidate, dir); err != nil {
		return err
	}
	l.events = append(l.events, model.ClockEvent{Timestamp: candidate, Direction: dir})
	return nil
}

// IsNewCalendarDay reports whether the last event falls on a different
// calendar date than now, compared in now's location.
func (l *Log) IsNewCalendarDay(now time.Time) bool {
	last, ok := l.Last()
	if !ok {
		return false
	}
	return !timecalc.SameDay(last.Timestamp.In(now.Location()), now)
}

// Reset clears the log after an explicit user request.
func (l *Log) Reset() {
	l.events = nil
}

// ResetForNewDay clears the log on day rollover.
func (l *Log) ResetForNewDay() {
	l.events = nil
}

// Intervals pairs events into work intervals. An In opens an interval and an
// Out closes it; an Out with nothing open is dropped and an In while open
// restarts the open interval.
func (l *Log) Intervals() []model.Interval {
	var (
		out  []model.Interval
		open *time.Time
	)
	for _, e := range l.events {
		switch e.Direction {
		case model.In:
			start := e.Timestamp
			open = &start
		case model.Out:
			if open == nil {
				continue
			}
			end := e.Timestamp
			out = append(out, model.Interval{Start: *open, End: &end})
			open = nil
		}
	}
	if open != nil {
		out = append(out, model.Interval{Start: *open})
	}
	return out
}
