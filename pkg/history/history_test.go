package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/krisarmstrong/cdp-go/pkg/agent"
)

func openTemp(t *testing.T, maxEvents int) *Log {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	log, err := Open(path, maxEvents, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log
}

func TestOpen_RejectsEmptyPath(t *testing.T) {
	if _, err := Open("", 10, nil); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestRecordEvent_ThenList(t *testing.T) {
	log := openTemp(t, 100)

	log.RecordEvent(agent.Event{
		At:       time.Now(),
		Link:     "eth0",
		MAC:      []byte{0, 1, 2, 3, 4, 5},
		DeviceID: "switch-01.example.com",
		Kind:     agent.EventNeighborUp,
	})

	records, err := log.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Link != "eth0" {
		t.Errorf("unexpected link %q", rec.Link)
	}
	if rec.MAC != "00:01:02:03:04:05" {
		t.Errorf("unexpected MAC %q", rec.MAC)
	}
	if rec.DeviceID != "switch-01.example.com" {
		t.Errorf("unexpected device id %q", rec.DeviceID)
	}
	if rec.Kind != "neighbor_up" {
		t.Errorf("unexpected kind %q", rec.Kind)
	}
}

func TestList_NewestFirst(t *testing.T) {
	log := openTemp(t, 100)
	for i := 0; i < 3; i++ {
		log.RecordEvent(agent.Event{
			At:       time.Now(),
			Link:     "eth0",
			MAC:      []byte{0, 0, 0, 0, 0, byte(i)},
			DeviceID: "d",
			Kind:     agent.EventNeighborUp,
		})
	}

	records, err := log.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].MAC != "00:00:00:00:00:02" {
		t.Errorf("expected newest first, got %q", records[0].MAC)
	}
}

func TestRecordEvent_BoundsTheLog(t *testing.T) {
	log := openTemp(t, 5)
	for i := 0; i < 20; i++ {
		log.RecordEvent(agent.Event{
			At:       time.Now(),
			Link:     "eth0",
			MAC:      []byte{0, 0, 0, 0, 0, byte(i)},
			DeviceID: "d",
			Kind:     agent.EventNeighborUp,
		})
	}

	records, err := log.List(100)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected log bounded to 5, got %d", len(records))
	}
	if records[0].MAC != "00:00:00:00:00:13" {
		t.Errorf("expected newest retained event, got %q", records[0].MAC)
	}
}

func TestRecordEvent_NeighborDown(t *testing.T) {
	log := openTemp(t, 100)
	log.RecordEvent(agent.Event{
		At:   time.Now(),
		Link: "eth0",
		MAC:  []byte{1, 2, 3, 4, 5, 6},
		Kind: agent.EventNeighborDown,
	})

	records, err := log.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].Kind != "neighbor_down" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestRecordEvent_NilLogIsNoop(t *testing.T) {
	var log *Log
	log.RecordEvent(agent.Event{})
}
