// Package session is the state object a front end threads through the clock:
// it owns the day's event log, the workday length and the language, and
// commits every change to the store.
package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Tiliavir/timeclock/internal/eventlog"
	"github.com/Tiliavir/timeclock/internal/i18n"
	"github.com/Tiliavir/timeclock/internal/model"
	"github.com/Tiliavir/timeclock/internal/timecalc"
)

// Store is the persistence the session commits to.
type Store interface {
	LoadEvents() ([]model.ClockEvent, error)
	SaveEvents(events []model.ClockEvent) error
	ClearEvents() error
	LoadWorkdayLength(def float64) (float64, error)
	SaveWorkdayLength(hours float64) error
	LoadLanguage(def string) (string, error)
	SaveLanguage(lang string) error
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithLogger sets the logger used for persistence warnings and rollovers.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithDefaultWorkday sets the workday length used when none is stored.
func WithDefaultWorkday(hours float64) Option {
	return func(s *Session) {
		if timecalc.ValidWorkdayHours(hours) {
			s.workday.Hours = hours
		}
	}
}

// OnPersistFailure registers the callback invoked whenever a store read or
// write fails. The in-memory change stands either way.
func OnPersistFailure(fn func(error)) Option {
	return func(s *Session) { s.onPersistFailure = fn }
}

// Session is safe for concurrent use.
type Session struct {
	mu       sync.RWMutex
	store    Store
	clock    Clock
	log      *slog.Logger
	events   *eventlog.Log
	workday  model.WorkdayConfig
	language string

	onPersistFailure func(error)
	listeners        []func()
}

// Open loads persisted state and rolls the log over if it belongs to an
// earlier day. Load failures fall back to defaults and are reported through
// the persistence-failure callback rather than returned.
func Open(store Store, opts ...Option) *Session {
	s := &Session{
		store:    store,
		clock:    RealClock{},
		log:      slog.Default(),
		events:   eventlog.New(),
		workday:  model.DefaultWorkday(),
		language: i18n.Default,
	}
	for _, opt := range opts {
		opt(s)
	}

	if events, err := store.LoadEvents(); err != nil {
		s.persistFailed(err)
	} else {
		s.events = eventlog.Restore(events)
	}
	hours, err := store.LoadWorkdayLength(s.workday.Hours)
	if err != nil {
		s.persistFailed(err)
	}
	if timecalc.ValidWorkdayHours(hours) {
		s.workday.Hours = hours
	}
	lang, err := store.LoadLanguage(s.language)
	if err != nil {
		s.persistFailed(err)
	}
	s.language = i18n.Normalize(lang)

	s.mu.Lock()
	err = s.rolloverLocked(s.clock.Now())
	s.mu.Unlock()
	if err != nil {
		s.persistFailed(err)
	}
	return s
}

// OnChange registers fn to run after every committed mutation of the log or
// the workday length.
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Now returns the session clock's current time.
func (s *Session) Now() time.Time {
	return s.clock.Now()
}

// SubmitEvent records a clock event at timeOfDay ("HH:MM") today. Validation
// errors leave the log untouched. A *model.PersistenceError means the event
// was recorded in memory but could not be saved.
func (s *Session) SubmitEvent(timeOfDay string, dir model.Direction) error {
	hour, minute, err := timecalc.ParseTimeOfDay(timeOfDay)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	s.mu.Lock()
	rollErr := s.rolloverLocked(now)
	appendErr := s.events.Append(timecalc.At(now, hour, minute), dir)
	events := s.events.Events()
	s.mu.Unlock()

	if rollErr != nil {
		s.persistFailed(rollErr)
	}
	if appendErr != nil {
		return appendErr
	}

	s.log.Debug("clock event recorded", "direction", dir, "time", timeOfDay)
	err = s.commit(func() error { return s.store.SaveEvents(events) })
	s.notify()
	return err
}

// Metrics computes the snapshot for now against the latest committed log.
func (s *Session) Metrics(now time.Time) model.Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return timecalc.Calculate(s.events, s.workday, now)
}

// Events returns a copy of today's events.
func (s *Session) Events() []model.ClockEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events.Events()
}

// IsWorking reports whether the user is currently clocked in.
func (s *Session) IsWorking() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events.IsWorking()
}

// NextDirection is the direction the next accepted event must have.
func (s *Session) NextDirection() model.Direction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events.NextDirection()
}

// State returns the log's state machine position.
func (s *Session) State() eventlog.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events.State()
}

// CheckRollover reports whether the log belongs to a calendar day before now.
func (s *Session) CheckRollover(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.events.IsNewCalendarDay(now)
}

// Rollover resets the log for a new day if one is due, reporting whether it did.
func (s *Session) Rollover(now time.Time) (bool, error) {
	s.mu.Lock()
	if !s.events.IsNewCalendarDay(now) {
		s.mu.Unlock()
		return false, nil
	}
	s.events.ResetForNewDay()
	s.mu.Unlock()
	s.log.Info("new calendar day, event log cleared")
	return true, s.clear()
}

// ResetDay clears the log on explicit user request.
func (s *Session) ResetDay() error {
	s.mu.Lock()
	s.events.Reset()
	s.mu.Unlock()
	return s.clear()
}

// ResetForNewDay clears the log because the calendar day changed.
func (s *Session) ResetForNewDay() error {
	s.mu.Lock()
	s.events.ResetForNewDay()
	s.mu.Unlock()
	s.log.Info("new calendar day, event log cleared")
	return s.clear()
}

// WorkdayLength returns the configured workday length in hours.
func (s *Session) WorkdayLength() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workday.Hours
}

// SetWorkdayLength accepts any finite positive number of hours.
func (s *Session) SetWorkdayLength(hours float64) error {
	if !timecalc.ValidWorkdayHours(hours) {
		return model.ErrInvalidWorkdayLength
	}
	s.mu.Lock()
	s.workday.Hours = hours
	s.mu.Unlock()

	err := s.commit(func() error { return s.store.SaveWorkdayLength(hours) })
	s.notify()
	return err
}

// Language returns the selected locale tag.
func (s *Session) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// SetLanguage selects a supported locale; unknown tags fall back to English.
func (s *Session) SetLanguage(lang string) error {
	lang = i18n.Normalize(lang)
	s.mu.Lock()
	s.language = lang
	s.mu.Unlock()
	return s.commit(func() error { return s.store.SaveLanguage(lang) })
}

// rolloverLocked clears a stale log. The caller holds s.mu and reports the
// returned error after releasing it.
func (s *Session) rolloverLocked(now time.Time) error {
	if !s.events.IsNewCalendarDay(now) {
		return nil
	}
	s.events.ResetForNewDay()
	s.log.Info("new calendar day, event log cleared")
	return s.store.ClearEvents()
}

func (s *Session) clear() error {
	err := s.commit(s.store.ClearEvents)
	s.notify()
	return err
}

func (s *Session) commit(write func() error) error {
	err := write()
	if err == nil {
		return nil
	}
	if !errors.Is(err, model.ErrPersistence) {
		err = &model.PersistenceError{Op: "save", Err: err}
	}
	s.persistFailed(err)
	return err
}

func (s *Session) persistFailed(err error) {
	s.log.Warn("state not persisted; changes are kept in memory only", "error", err)
	if s.onPersistFailure != nil {
		s.onPersistFailure(err)
	}
}

func (s *Session) notify() {
	s.mu.RLock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn()
	}
}
