package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Direction is the kind of a clock event.
type Direction string

const (
	In  Direction = "In"
	Out Direction = "Out"
)

// ParseDirection accepts "In"/"Out" in any letter case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in":
		return In, nil
	case "out":
		return Out, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// Opposite returns the direction that must follow d.
func (d Direction) Opposite() Direction {
	if d == In {
		return Out
	}
	return In
}

// ClockEvent is one punch of the clock.
type ClockEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Direction Direction `json:"direction"`
}

type clockEventJSON struct {
	Timestamp string    `json:"timestamp"`
	Direction Direction `json:"direction"`
}

// MarshalJSON writes the timestamp as RFC 3339 with the event's own offset.
func (e ClockEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(clockEventJSON{
		Timestamp: e.Timestamp.Format(time.RFC3339),
		Direction: e.Direction,
	})
}

// UnmarshalJSON never fails on a bad timestamp: it decodes to the zero
// instant, which the calculator treats as a zero-length contribution.
func (e *ClockEvent) UnmarshalJSON(data []byte) error {
	var raw clockEventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Direction = raw.Direction
	e.Timestamp = time.Time{}
	if t, err := time.Parse(time.RFC3339Nano, raw.Timestamp); err == nil {
		e.Timestamp = t
	}
	return nil
}

// Valid reports whether the event carries a usable instant.
func (e ClockEvent) Valid() bool {
	return !e.Timestamp.IsZero()
}

// Interval is one stretch of work. End is nil while the interval is still open.
type Interval struct {
	Start time.Time
	End   *time.Time
}

// Open reports whether the interval has no recorded end yet.
func (iv Interval) Open() bool {
	return iv.End == nil
}
