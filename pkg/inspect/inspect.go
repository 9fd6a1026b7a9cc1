// Package inspect implements the read-only inspection surface (§6):
// a decorated, stable snapshot of the neighbor table for consumers
// that never touch the table's write guard — pkg/api's JSON server
// and pkg/tui's live viewer both build on Snapshot alone.
//
// Grounded on pkg/stats/export.go's StatisticsSnapshot pattern (a
// mutex-free copy type exported alongside the live, locked original)
// generalized from one global snapshot to one snapshot per neighbor,
// decorated by decoding each record's stored frame bytes with
// pkg/cdp.Parse.
package inspect

import (
	"net"
	"time"

	"github.com/krisarmstrong/cdp-go/pkg/cdp"
	"github.com/krisarmstrong/cdp-go/pkg/neighbor"
	"github.com/krisarmstrong/cdp-go/pkg/netaddr"
	"github.com/krisarmstrong/cdp-go/pkg/wire"
)

// Neighbor is one decorated, read-only view of a neighbor table
// record: the table's own identity fields plus whatever the last
// received frame decoded to. Decode is best-effort — a record whose
// frame bytes no longer parse (truncated capture, disagreeing
// version) still appears, with Decoded false and the fields below
// left at their zero value.
type Neighbor struct {
	Link       string
	MAC        string
	ReceivedAt time.Time
	HoldTime   time.Duration
	ExpiresAt  time.Time

	Decoded bool

	DeviceID        string
	Platform        string
	SoftwareVersion string
	PortID          string
	Capabilities    cdp.Capabilities
	Duplex          cdp.DuplexMode
	NativeVLAN      uint16
	HasNativeVLAN   bool
	Addresses       []netaddr.Address
}

// Snapshot decorates a point-in-time copy of the neighbor table
// (table.Snapshot()'s own shared-read guard has already been released
// by the time this function sees the records) with decoded CDP
// fields, in the table's insertion order.
func Snapshot(table *neighbor.Table) []Neighbor {
	records := table.Snapshot()
	out := make([]Neighbor, 0, len(records))
	for i := range records {
		out = append(out, decorate(&records[i]))
	}
	return out
}

func decorate(rec *neighbor.Record) Neighbor {
	n := Neighbor{
		Link:       rec.Link,
		MAC:        net.HardwareAddr(rec.MAC).String(),
		ReceivedAt: rec.ReceivedAt,
		HoldTime:   rec.HoldTime(),
	}
	n.ExpiresAt = n.ReceivedAt.Add(n.HoldTime)

	pkt, err := cdp.Parse(wire.NewReader(rec.FrameBytes))
	if err != nil {
		return n
	}
	n.Decoded = true

	if v, ok := pkt.DeviceID.Get(); ok {
		n.DeviceID = v
	}
	if v, ok := pkt.Platform.Get(); ok {
		n.Platform = v
	}
	if v, ok := pkt.SoftwareVersion.Get(); ok {
		n.SoftwareVersion = v
	}
	if v, ok := pkt.PortID.Get(); ok {
		n.PortID = v
	}
	if v, ok := pkt.Capabilities.Get(); ok {
		n.Capabilities = v
	}
	n.Duplex = pkt.Duplex
	if v, ok := pkt.NativeVLAN.Get(); ok {
		n.NativeVLAN = v
		n.HasNativeVLAN = true
	}
	if v, ok := pkt.Addresses.Get(); ok {
		n.Addresses = v
	}
	return n
}
