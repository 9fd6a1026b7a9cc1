// Package history implements a bounded, bbolt-persisted log of
// discovery events, satisfying agent.HistoryRecorder. This is
// explicitly not the live neighbor table — that stays in-memory only
// (§6) — but a separate record of neighbor-up/neighbor-down
// transitions for offline review across restarts.
//
// Grounded on pkg/storage/storage.go's Storage/RunRecord/itob
// pattern: a bbolt wrapper opening one bucket, appending
// JSON-encoded records under a monotonic sequence key, and listing
// the most recent N by walking the bucket cursor backwards. Adapted
// from one run-summary record per process lifetime to one event
// record per neighbor transition, with a bound enforced by deleting
// the oldest entries once the bucket exceeds MaxEvents rather than
// the teacher's unbounded append (§6's supplemented history feature
// asks for a "bounded log", unlike the teacher's run history).
package history

import (
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/krisarmstrong/cdp-go/pkg/agent"
)

const eventBucket = "events"

// defaultMaxEvents bounds the log when a non-positive limit is
// configured.
const defaultMaxEvents = 10000

// Logger is the minimal seam this package needs, matching
// agent.Logger/cdp.Logger/notify.Logger.
type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}

// EventRecord is one discovery-event history entry as persisted to
// disk. MAC is stored as its string rendering so the log reads back
// as plain JSON without a custom codec.
type EventRecord struct {
	ID       uint64    `json:"id"`
	At       time.Time `json:"at"`
	Link     string    `json:"link"`
	MAC      string    `json:"mac"`
	DeviceID string    `json:"device_id"`
	Kind     string    `json:"kind"`
}

// Log wraps a bbolt database that records discovery events,
// implementing agent.HistoryRecorder.
type Log struct {
	db        *bbolt.DB
	maxEvents int
	log       Logger
}

// Open opens (or creates) the history database at path, bounding it
// to maxEvents records (a non-positive value uses defaultMaxEvents).
func Open(path string, maxEvents int, log Logger) (*Log, error) {
	if path == "" {
		return nil, errors.New("history: path is required")
	}
	if maxEvents <= 0 {
		maxEvents = defaultMaxEvents
	}
	if log == nil {
		log = noopLogger{}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(eventBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Log{db: db, maxEvents: maxEvents, log: log}, nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// RecordEvent satisfies agent.HistoryRecorder. Persistence failures
// are logged, not propagated: a history-write error must never
// disrupt neighbor discovery (§6).
func (l *Log) RecordEvent(event agent.Event) {
	if l == nil || l.db == nil {
		return
	}
	if err := l.append(event); err != nil {
		l.log.Errorf("history: failed to record event: %v", err)
	}
}

func (l *Log) append(event agent.Event) error {
	return l.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(eventBucket))
		id, _ := b.NextSequence()

		rec := EventRecord{
			ID:       id,
			At:       event.At,
			Link:     event.Link,
			MAC:      macString(event.MAC),
			DeviceID: event.DeviceID,
			Kind:     kindString(event.Kind),
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := b.Put(itob(id), data); err != nil {
			return err
		}
		return trimLocked(b, l.maxEvents)
	})
}

// trimLocked deletes the oldest entries once the bucket holds more
// than max records, keeping the log bounded (§6).
func trimLocked(b *bbolt.Bucket, max int) error {
	n := b.Stats().KeyN
	if n <= max {
		return nil
	}
	c := b.Cursor()
	for k, _ := c.First(); k != nil && n > max; k, _ = c.Next() {
		if err := b.Delete(k); err != nil {
			return err
		}
		n--
	}
	return nil
}

// List returns the most recent event records up to limit, newest
// first.
func (l *Log) List(limit int) ([]EventRecord, error) {
	if l == nil || l.db == nil {
		return nil, errors.New("history: log not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	records := make([]EventRecord, 0, limit)
	err := l.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(eventBucket)).Cursor()
		for k, v := c.Last(); k != nil && len(records) < limit; k, v = c.Prev() {
			var rec EventRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	return records, err
}

func kindString(k agent.EventKind) string {
	switch k {
	case agent.EventNeighborUp:
		return "neighbor_up"
	case agent.EventNeighborDown:
		return "neighbor_down"
	default:
		return "unknown"
	}
}

func macString(mac []byte) string {
	if len(mac) == 0 {
		return ""
	}
	return net.HardwareAddr(mac).String()
}

func itob(v uint64) []byte {
	var b [8]byte
	for i := uint(0); i < 8; i++ {
		b[7-i] = byte(v >> (i * 8))
	}
	return b[:]
}
