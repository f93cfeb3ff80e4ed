package observability

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestLog(t *testing.T) (EventLog, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("NewJSONLEventLog failed: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log, path
}

func TestEventLogWriteRead(t *testing.T) {
	log, _ := newTestLog(t)

	events := []Event{
		{Time: time.Now(), Level: "INFO", Type: "board.fetched", Message: "fetched board", Data: map[string]any{"board_id": "b1"}},
		{Time: time.Now(), Level: "INFO", Type: "report.generated", Message: "report done"},
	}
	for _, e := range events {
		if err := log.Write(e); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	got, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("read %d events, want 2", len(got))
	}
	if got[0].Type != "board.fetched" || got[1].Type != "report.generated" {
		t.Errorf("events out of order: %+v", got)
	}
	if got[0].Data["board_id"] != "b1" {
		t.Errorf("data not preserved: %+v", got[0].Data)
	}
}

func TestEventLogFilterByType(t *testing.T) {
	log, _ := newTestLog(t)

	_ = log.Write(Event{Time: time.Now(), Type: "board.fetched"})
	_ = log.Write(Event{Time: time.Now(), Type: "report.generated"})
	_ = log.Write(Event{Time: time.Now(), Type: "board.fetched"})

	got, err := log.Read(EventFilter{Type: "board.fetched"})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("read %d events, want 2", len(got))
	}
}

func TestEventLogFilterBySince(t *testing.T) {
	log, _ := newTestLog(t)

	old := time.Now().Add(-2 * time.Hour)
	recent := time.Now()
	_ = log.Write(Event{Time: old, Type: "board.fetched"})
	_ = log.Write(Event{Time: recent, Type: "board.fetched"})

	since := time.Now().Add(-1 * time.Hour)
	got, err := log.Read(EventFilter{Since: &since})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("read %d events, want 1", len(got))
	}
}

func TestEventLogSkipsMalformedLines(t *testing.T) {
	log, path := newTestLog(t)

	_ = log.Write(Event{Time: time.Now(), Type: "board.fetched"})

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("opening log: %v", err)
	}
	_, _ = f.WriteString("not json at all\n\n")
	_ = f.Close()

	_ = log.Write(Event{Time: time.Now(), Type: "report.generated"})

	got, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("read %d events, want 2 (malformed line skipped)", len(got))
	}
}

func TestEventLogReadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("NewJSONLEventLog failed: %v", err)
	}
	_ = log.Close()
	if err := os.Remove(path); err != nil {
		t.Fatalf("removing log: %v", err)
	}

	got, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got != nil {
		t.Errorf("events = %v, want nil for missing file", got)
	}
}

func TestEventLogPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")

	first, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("NewJSONLEventLog failed: %v", err)
	}
	_ = first.Write(Event{Time: time.Now(), Type: "board.fetched"})
	_ = first.Close()

	second, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("reopening log failed: %v", err)
	}
	defer func() { _ = second.Close() }()
	_ = second.Write(Event{Time: time.Now(), Type: "report.generated"})

	got, err := second.Read(EventFilter{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("read %d events, want 2 across reopen", len(got))
	}
}
