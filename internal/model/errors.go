package model

import (
	"errors"
	"fmt"
)

// Validation errors. All are recoverable and never mutate state.
var (
	ErrEmptyInput           = errors.New("no timestamp supplied")
	ErrInvalidTimeFormat    = errors.New("time must be HH:MM with 0<=HH<=23 and 0<=MM<=59")
	ErrOutOfOrder           = errors.New("timestamp is before the last recorded one")
	ErrAlreadyClockedIn     = errors.New("already clocked in")
	ErrNotClockedIn         = errors.New("not clocked in")
	ErrInvalidDirection     = errors.New("direction must be In or Out")
	ErrInvalidWorkdayLength = errors.New("workday length must be a positive number of hours")
	ErrPersistence          = errors.New("storage failure")
)

// PersistenceError reports a failed read or write of the store. The in-memory
// state that triggered the write is kept regardless.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage error (%s %s): %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrPersistence) match any PersistenceError.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

var kinds = []struct {
	err  error
	name string
}{
	{ErrEmptyInput, "EmptyInput"},
	{ErrInvalidTimeFormat, "InvalidTimeFormat"},
	{ErrOutOfOrder, "OutOfOrder"},
	{ErrAlreadyClockedIn, "AlreadyClockedIn"},
	{ErrNotClockedIn, "NotClockedIn"},
	{ErrInvalidDirection, "InvalidDirection"},
	{ErrInvalidWorkdayLength, "InvalidWorkdayLength"},
	{ErrPersistence, "PersistenceFailure"},
}

// ErrorKind returns the taxonomy name of err, or "" if err is nil or unknown.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}
