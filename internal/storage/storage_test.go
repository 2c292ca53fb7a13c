package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tiliavir/timeclock/internal/model"
	"github.com/Tiliavir/timeclock/internal/storage"
)

func TestGetMissingFile(t *testing.T) {
	st := storage.Open(t.TempDir())

	events, err := st.LoadEvents()
	if err != nil {
		t.Fatalf("LoadEvents on missing file: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("LoadEvents = %d events, want 0", len(events))
	}

	hours, err := st.LoadWorkdayLength(model.DefaultWorkdayHours)
	if err != nil {
		t.Fatalf("LoadWorkdayLength: %v", err)
	}
	if hours != model.DefaultWorkdayHours {
		t.Errorf("LoadWorkdayLength = %v, want default %v", hours, model.DefaultWorkdayHours)
	}
}

func TestSaveAndLoadEvents(t *testing.T) {
	st := storage.Open(t.TempDir())
	loc := time.FixedZone("CET", 3600)
	events := []model.ClockEvent{
		{Timestamp: time.Date(2026, 2, 27, 9, 0, 0, 0, loc), Direction: model.In},
		{Timestamp: time.Date(2026, 2, 27, 12, 30, 0, 0, loc), Direction: model.Out},
	}

	if err := st.SaveEvents(events); err != nil {
		t.Fatalf("SaveEvents: %v", err)
	}
	loaded, err := st.LoadEvents()
	if err != nil {
		t.Fatalf("LoadEvents after save: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("LoadEvents = %d events, want 2", len(loaded))
	}
	for i := range events {
		if !loaded[i].Timestamp.Equal(events[i].Timestamp) || loaded[i].Direction != events[i].Direction {
			t.Errorf("event %d = %+v, want %+v", i, loaded[i], events[i])
		}
	}
}

func TestKeysShareOneNamespace(t *testing.T) {
	st := storage.Open(t.TempDir())

	if err := st.SaveWorkdayLength(7.5); err != nil {
		t.Fatal(err)
	}
	if err := st.SaveLanguage("it"); err != nil {
		t.Fatal(err)
	}
	if err := st.SaveEvents(nil); err != nil {
		t.Fatal(err)
	}
	if err := st.ClearEvents(); err != nil {
		t.Fatal(err)
	}

	hours, err := st.LoadWorkdayLength(model.DefaultWorkdayHours)
	if err != nil || hours != 7.5 {
		t.Errorf("LoadWorkdayLength = %v, %v; want 7.5", hours, err)
	}
	lang, err := st.LoadLanguage("en")
	if err != nil || lang != "it" {
		t.Errorf("LoadLanguage = %q, %v; want it", lang, err)
	}
	var raw any
	ok, err := st.Get(storage.KeyTimestamps, &raw)
	if err != nil || ok {
		t.Errorf("Get(%s) after ClearEvents = %v, %v; want absent", storage.KeyTimestamps, ok, err)
	}
}

func TestInvalidTimestampDecodesToZero(t *testing.T) {
	base := t.TempDir()
	payload := `{"workTimestamps":[{"timestamp":"not-a-time","direction":"In"},{"timestamp":"2026-02-27T12:00:00.000Z","direction":"Out"}]}`
	if err := os.WriteFile(filepath.Join(base, "state.json"), []byte(payload), 0o600); err != nil {
		t.Fatal(err)
	}

	events, err := storage.Open(base).LoadEvents()
	if err != nil {
		t.Fatalf("LoadEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("LoadEvents = %d events, want 2", len(events))
	}
	if events[0].Valid() {
		t.Errorf("event 0 should carry the invalid instant, got %v", events[0].Timestamp)
	}
	if !events[1].Timestamp.Equal(time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("event 1 timestamp = %v", events[1].Timestamp)
	}
}

func TestCorruptFileIsBackedUp(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "state.json")
	if err := os.WriteFile(path, []byte("{bad json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := storage.Open(base).LoadEvents()
	if err == nil {
		t.Fatal("expected error for corrupt JSON, got nil")
	}
	if !errors.Is(err, model.ErrPersistence) {
		t.Errorf("error %v should match ErrPersistence", err)
	}
	if _, err2 := os.Stat(path + ".corrupt"); os.IsNotExist(err2) {
		t.Error("expected backup file to exist after corrupt JSON")
	}
}

func TestWriteFailureIsPersistenceError(t *testing.T) {
	base := t.TempDir()
	// A regular file where the data directory should be makes MkdirAll fail.
	blocker := filepath.Join(base, "blocked")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	err := storage.Open(blocker).SaveLanguage("en")
	var pe *model.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("SaveLanguage error = %v, want *PersistenceError", err)
	}
	if pe.Key != storage.KeyLanguage {
		t.Errorf("PersistenceError.Key = %q, want %q", pe.Key, storage.KeyLanguage)
	}
}

func TestBaseDirHonoursEnv(t *testing.T) {
	t.Setenv("TIMECLOCK_HOME", "/tmp/tc-test")
	dir, err := storage.BaseDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/tc-test" {
		t.Errorf("BaseDir = %q, want /tmp/tc-test", dir)
	}
}
