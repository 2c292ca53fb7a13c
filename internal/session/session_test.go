package session_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/timeclock/internal/eventlog"
	"github.com/Tiliavir/timeclock/internal/model"
	"github.com/Tiliavir/timeclock/internal/session"
	"github.com/Tiliavir/timeclock/internal/storage"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func day(d, h, m int) time.Time {
	return time.Date(2026, 3, d, h, m, 0, 0, time.UTC)
}

func open(t *testing.T, st session.Store, c *fakeClock, opts ...session.Option) *session.Session {
	t.Helper()
	opts = append([]session.Option{session.WithClock(c), session.WithLogger(quiet)}, opts...)
	return session.Open(st, opts...)
}

func TestRejectDoubleClockIn(t *testing.T) {
	c := &fakeClock{now: day(2, 10, 30)}
	s := open(t, storage.Open(t.TempDir()), c)

	require.NoError(t, s.SubmitEvent("09:00", model.In))
	assert.ErrorIs(t, s.SubmitEvent("10:00", model.In), model.ErrAlreadyClockedIn)
	assert.Len(t, s.Events(), 1)
}

func TestRejectOutOfOrder(t *testing.T) {
	c := &fakeClock{now: day(2, 10, 30)}
	s := open(t, storage.Open(t.TempDir()), c)

	require.NoError(t, s.SubmitEvent("09:00", model.In))
	assert.ErrorIs(t, s.SubmitEvent("08:00", model.Out), model.ErrOutOfOrder)
}

func TestSubmitInputErrors(t *testing.T) {
	c := &fakeClock{now: day(2, 10, 30)}
	s := open(t, storage.Open(t.TempDir()), c)

	assert.ErrorIs(t, s.SubmitEvent("", model.In), model.ErrEmptyInput)
	assert.ErrorIs(t, s.SubmitEvent("25:00", model.In), model.ErrInvalidTimeFormat)
	assert.ErrorIs(t, s.SubmitEvent("09:00", model.Out), model.ErrNotClockedIn)
	assert.Empty(t, s.Events())
}

func TestAlternationAcrossSubmissions(t *testing.T) {
	c := &fakeClock{now: day(2, 18, 0)}
	s := open(t, storage.Open(t.TempDir()), c)

	inputs := []struct {
		at  string
		dir model.Direction
	}{
		{"08:00", model.In}, {"08:30", model.In}, {"12:00", model.Out}, {"12:00", model.Out},
		{"11:00", model.In}, {"12:30", model.In}, {"17:00", model.Out},
	}
	for _, in := range inputs {
		_ = s.SubmitEvent(in.at, in.dir)
	}

	events := s.Events()
	require.Len(t, events, 4)
	for i, e := range events {
		assert.Equal(t, i%2 == 0, e.Direction == model.In, "event %d", i)
	}
}

func TestEventsPersistAcrossSessions(t *testing.T) {
	base := t.TempDir()
	c := &fakeClock{now: day(2, 14, 0)}
	s := open(t, storage.Open(base), c)
	require.NoError(t, s.SubmitEvent("09:00", model.In))
	require.NoError(t, s.SubmitEvent("12:00", model.Out))
	require.NoError(t, s.SubmitEvent("13:00", model.In))

	reopened := open(t, storage.Open(base), c)

	want, got := s.Events(), reopened.Events()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Timestamp.Equal(got[i].Timestamp), "event %d timestamp", i)
		assert.Equal(t, want[i].Direction, got[i].Direction)
	}
	assert.Equal(t, int64(14400), reopened.Metrics(c.now).TotalWorkedSeconds())
	assert.Equal(t, eventlog.ClockedIn, reopened.State())
}

func TestWorkdayLengthRoundTrip(t *testing.T) {
	base := t.TempDir()
	c := &fakeClock{now: day(2, 8, 0)}
	s := open(t, storage.Open(base), c)

	require.NoError(t, s.SetWorkdayLength(7.5))
	assert.Equal(t, 7.5, s.WorkdayLength())
	assert.Equal(t, int64(27000), s.Metrics(c.now).RemainingSeconds())

	assert.Equal(t, 7.5, open(t, storage.Open(base), c).WorkdayLength())
}

func TestSetWorkdayLengthRejectsNonPositive(t *testing.T) {
	c := &fakeClock{now: day(2, 8, 0)}
	s := open(t, storage.Open(t.TempDir()), c)

	assert.ErrorIs(t, s.SetWorkdayLength(0), model.ErrInvalidWorkdayLength)
	assert.ErrorIs(t, s.SetWorkdayLength(-1), model.ErrInvalidWorkdayLength)
	assert.Equal(t, model.DefaultWorkdayHours, s.WorkdayLength())
}

func TestDefaultWorkdayOption(t *testing.T) {
	c := &fakeClock{now: day(2, 8, 0)}
	s := open(t, storage.Open(t.TempDir()), c, session.WithDefaultWorkday(8))
	assert.Equal(t, 8.0, s.WorkdayLength())
}

func TestRolloverThenReset(t *testing.T) {
	base := t.TempDir()
	c := &fakeClock{now: day(2, 9, 0)}
	s := open(t, storage.Open(base), c)
	require.NoError(t, s.SubmitEvent("09:00", model.In))

	tomorrow := day(3, 8, 0)
	assert.True(t, s.CheckRollover(tomorrow))
	require.NoError(t, s.ResetDay())
	assert.Empty(t, s.Events())
	assert.False(t, s.CheckRollover(tomorrow))
}

func TestRolloverOnOpen(t *testing.T) {
	base := t.TempDir()
	c := &fakeClock{now: day(2, 9, 0)}
	require.NoError(t, open(t, storage.Open(base), c).SubmitEvent("09:00", model.In))

	c.now = day(3, 7, 0)
	s := open(t, storage.Open(base), c)

	assert.Empty(t, s.Events())
	events, err := storage.Open(base).LoadEvents()
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSubmitRollsStaleLogOver(t *testing.T) {
	c := &fakeClock{now: day(2, 9, 0)}
	s := open(t, storage.Open(t.TempDir()), c)
	require.NoError(t, s.SubmitEvent("09:00", model.In))

	c.now = day(3, 8, 30)
	require.NoError(t, s.SubmitEvent("08:15", model.In))

	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, day(3, 8, 15), events[0].Timestamp)
}

func TestRollover(t *testing.T) {
	c := &fakeClock{now: day(2, 9, 0)}
	s := open(t, storage.Open(t.TempDir()), c)
	require.NoError(t, s.SubmitEvent("09:00", model.In))

	did, err := s.Rollover(day(2, 23, 0))
	require.NoError(t, err)
	assert.False(t, did)

	did, err = s.Rollover(day(3, 0, 1))
	require.NoError(t, err)
	assert.True(t, did)
	assert.Empty(t, s.Events())
}

func TestLanguage(t *testing.T) {
	base := t.TempDir()
	c := &fakeClock{now: day(2, 9, 0)}
	s := open(t, storage.Open(base), c)
	assert.Equal(t, "en", s.Language())

	require.NoError(t, s.SetLanguage("IT"))
	assert.Equal(t, "it", open(t, storage.Open(base), c).Language())

	require.NoError(t, s.SetLanguage("klingon"))
	assert.Equal(t, "en", s.Language())
}

type failingStore struct {
	*storage.Store
	saveErr  error
	clearErr error
}

func (f *failingStore) SaveEvents(events []model.ClockEvent) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.Store.SaveEvents(events)
}

func (f *failingStore) ClearEvents() error {
	if f.clearErr != nil {
		return f.clearErr
	}
	return f.Store.ClearEvents()
}

func TestPersistenceFailureKeepsMemoryState(t *testing.T) {
	c := &fakeClock{now: day(2, 10, 0)}
	st := &failingStore{Store: storage.Open(t.TempDir()), saveErr: errors.New("disk full")}
	var reported []error
	s := open(t, st, c, session.OnPersistFailure(func(err error) { reported = append(reported, err) }))

	err := s.SubmitEvent("09:00", model.In)

	assert.ErrorIs(t, err, model.ErrPersistence)
	assert.Equal(t, "PersistenceFailure", model.ErrorKind(err))
	require.Len(t, reported, 1)
	assert.Len(t, s.Events(), 1)
	assert.True(t, s.IsWorking())
}

func TestRolloverFailureCallbackMayUseSession(t *testing.T) {
	c := &fakeClock{now: day(2, 10, 0)}
	st := &failingStore{Store: storage.Open(t.TempDir())}
	var (
		s     *session.Session
		langs []string
	)
	s = open(t, st, c, session.OnPersistFailure(func(error) {
		langs = append(langs, s.Language())
	}))
	require.NoError(t, s.SubmitEvent("09:00", model.In))

	c.now = day(3, 8, 30)
	st.clearErr = errors.New("disk full")

	done := make(chan error, 1)
	go func() { done <- s.SubmitEvent("08:00", model.In) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("SubmitEvent blocked while reporting the rollover failure")
	}

	assert.Equal(t, []string{"en"}, langs)
	require.Len(t, s.Events(), 1)
	assert.Equal(t, day(3, 8, 0), s.Events()[0].Timestamp)
}

func TestOnChangeFiresAfterCommit(t *testing.T) {
	c := &fakeClock{now: day(2, 10, 0)}
	s := open(t, storage.Open(t.TempDir()), c)
	calls := 0
	s.OnChange(func() { calls++ })

	require.NoError(t, s.SubmitEvent("09:00", model.In))
	assert.Error(t, s.SubmitEvent("09:30", model.In))
	require.NoError(t, s.SetWorkdayLength(8))
	require.NoError(t, s.ResetDay())

	assert.Equal(t, 3, calls)
}
