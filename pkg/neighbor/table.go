// Package neighbor implements the CDP neighbor table: an
// insertion-ordered collection of neighbor records keyed by (local
// link name, remote MAC), reaped against each record's advertised
// hold time (§3, §4.5, §5).
//
// Grounded on pkg/protocols/neighbors.go's map-of-maps neighborTable,
// generalized from its (protocol, chassis, port) key to CDP's (link,
// MAC) identity and from a single TTL-based expiry map to the
// insertion-order-preserving, single-writer/many-reader table §4.5
// and §5 require.
package neighbor

import (
	"sync"
	"time"

	"github.com/krisarmstrong/cdp-go/pkg/cdperr"
)

// Key identifies one neighbor by local link name and remote MAC.
// Comparison is byte-exact with no canonicalization (§4.5): two links
// or two MACs differing only in case or formatting are distinct keys.
type Key struct {
	Link string
	MAC  string // raw MAC bytes, not a human-readable rendering
}

// Record is one neighbor table entry (§3). FrameBytes is the raw
// received CDP frame; the hold time is read from its TTL byte (offset
// 1) on demand rather than cached, so a Record never goes stale
// relative to the bytes it was built from.
type Record struct {
	Link       string
	MAC        []byte
	DeviceType string
	ReceivedAt time.Time
	FrameBytes []byte
}

// HoldTime returns the hold time advertised by the last received
// frame, or zero if no frame has been recorded yet.
func (r *Record) HoldTime() time.Duration {
	if len(r.FrameBytes) < 2 {
		return 0
	}
	return time.Duration(r.FrameBytes[1]) * time.Second
}

// Expired reports whether this record should be reaped at the given
// instant, per §4.5's formula: now.seconds − received_at.seconds + 1
// ≥ hold_time.
func (r *Record) Expired(now time.Time) bool {
	elapsed := now.Unix() - r.ReceivedAt.Unix() + 1
	return elapsed >= int64(r.HoldTime()/time.Second)
}

func keyOf(link string, mac []byte) Key { return Key{Link: link, MAC: string(mac)} }

// Table is the insertion-ordered neighbor table. Iteration order
// equals insertion order of currently-live records; removal (direct or
// via reap) compacts the order slice so the remainder stays
// internally consistent (§3, §4.5).
type Table struct {
	mu      sync.RWMutex
	records map[Key]*Record
	order   []Key
	closed  bool
}

// New returns an empty Table.
func New() *Table {
	return &Table{records: make(map[Key]*Record)}
}

// Lookup returns the record for (link, mac), or false if absent. The
// caller must not retain the returned pointer past any subsequent
// write-guarded operation (§5).
func (t *Table) Lookup(link string, mac []byte) (*Record, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.records[keyOf(link, mac)]
	return rec, ok
}

// Upsert returns the existing record for (link, mac), creating one
// with the given device type if none exists. It does not touch
// ReceivedAt or FrameBytes; callers needing the atomic
// lookup-then-stamp transaction §5 requires should use Receive
// instead.
func (t *Table) Upsert(link string, mac []byte, deviceType string) (*Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, cdperr.New(cdperr.KindShutdown, "neighbor.Table.Upsert", nil)
	}
	return t.upsertLocked(link, mac, deviceType), nil
}

func (t *Table) upsertLocked(link string, mac []byte, deviceType string) *Record {
	key := keyOf(link, mac)
	if rec, ok := t.records[key]; ok {
		return rec
	}
	rec := &Record{
		Link:       link,
		MAC:        append([]byte(nil), mac...),
		DeviceType: deviceType,
	}
	t.records[key] = rec
	t.order = append(t.order, key)
	return rec
}

// Receive is the composed packet-reception transaction (§5): find or
// create the record for (link, mac), then stamp its frame bytes and
// received-at time together under the same write guard, so an
// observer never sees a half-updated record.
func (t *Table) Receive(link string, mac []byte, deviceType string, frame []byte, now time.Time) (*Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, cdperr.New(cdperr.KindShutdown, "neighbor.Table.Receive", nil)
	}
	rec := t.upsertLocked(link, mac, deviceType)
	rec.DeviceType = deviceType
	rec.FrameBytes = append(rec.FrameBytes[:0], frame...)
	rec.ReceivedAt = now
	return rec, nil
}

// Remove detaches rec from the table, compacting the insertion order
// of the remainder.
func (t *Table) Remove(rec *Record) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return cdperr.New(cdperr.KindShutdown, "neighbor.Table.Remove", nil)
	}
	t.removeLocked(keyOf(rec.Link, rec.MAC))
	return nil
}

func (t *Table) removeLocked(key Key) {
	if _, ok := t.records[key]; !ok {
		return
	}
	delete(t.records, key)
	for i, k := range t.order {
		if k == key {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Reap removes every record whose hold time has elapsed as of now,
// returning the removed records in their prior insertion order.
// Deterministic given now and the table's state (§4.5).
func (t *Table) Reap(now time.Time) ([]*Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, cdperr.New(cdperr.KindShutdown, "neighbor.Table.Reap", nil)
	}
	var expired []*Record
	var survivors []Key
	for _, key := range t.order {
		rec := t.records[key]
		if rec.Expired(now) {
			expired = append(expired, rec)
			delete(t.records, key)
			continue
		}
		survivors = append(survivors, key)
	}
	t.order = survivors
	return expired, nil
}

// Snapshot returns a copy of every live record, in insertion order,
// under a shared-read guard (§6's inspection-surface contract: a
// stable view the caller can read after the guard is released).
func (t *Table) Snapshot() []Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Record, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, *t.records[key])
	}
	return out
}

// Len returns the number of live records.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}

// Shutdown disarms the table: a terminal reap-all that frees every
// record, then refuses further mutation (§5: "shutdown disarms the
// timer, waits for any in-flight tick to complete, then runs a
// terminal reap-all to free the table").
func (t *Table) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = make(map[Key]*Record)
	t.order = nil
	t.closed = true
}
