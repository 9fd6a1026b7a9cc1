// Package agent implements the periodic driver (§4.6): a
// timer-triggered routine that reaps expired neighbors and invokes the
// transmit collaborator at a configured interval, plus the frame
// reception entry point that feeds parsed frames into the neighbor
// table.
//
// Grounded on pkg/protocols/cdp.go's CDPHandler — the same
// ticker-plus-stop-channel goroutine shape, generalized from a single
// fixed CDPAdvertiseInterval to an independently configurable
// reap/transmit cadence (§4.6), and on pkg/daemon/daemon.go's
// Shutdown for the stop-then-drain-then-free sequencing (§5).
package agent

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/krisarmstrong/cdp-go/pkg/cdp"
	"github.com/krisarmstrong/cdp-go/pkg/neighbor"
	"github.com/krisarmstrong/cdp-go/pkg/netaddr"
	"github.com/krisarmstrong/cdp-go/pkg/wire"
)

// DeviceTypeEthernet is the device type recorded against every
// neighbor learned over a CDP-carrying link; CDP is link-local to
// Ethernet (§3's "Device type (e.g., Ethernet)").
const DeviceTypeEthernet = "ethernet"

// Interface describes one live network interface a frame can be
// transmitted on (§6's interface-enumeration collaborator).
type Interface struct {
	Name      string
	MAC       []byte
	Addresses []netaddr.Address
}

// InterfaceLister enumerates live Ethernet links, consumed only when
// building an outgoing frame (§6).
type InterfaceLister interface {
	Interfaces() ([]Interface, error)
}

// Transmitter emits a serialized CDP frame on a link to the CDP
// multicast destination (§6's frame I/O collaborator, transmit half).
type Transmitter interface {
	Transmit(ctx context.Context, link string, frame []byte) error
}

// IdentityProvider supplies the two identity-probe values read once at
// startup and held for the engine's lifetime (§6).
type IdentityProvider interface {
	DeviceID() string
	SoftwareVersion() string
}

// Notifier is an optional hook invoked when a neighbor is learned or
// reaped. Supplements spec.md's silence on "what else happens" (see
// pkg/notify); a nil Notifier is valid and simply means no
// notification is sent.
type Notifier interface {
	NeighborUp(rec neighbor.Record)
	NeighborDown(rec neighbor.Record)
}

// HistoryRecorder is an optional hook that persists a bounded log of
// discovery events (see pkg/history). A nil HistoryRecorder disables
// history entirely; the live neighbor table is always in-memory-only
// regardless (§6).
type HistoryRecorder interface {
	RecordEvent(event Event)
}

// Event is one discovery-event history entry (§3 of SPEC_FULL.md's
// supplemented features).
type Event struct {
	At       time.Time
	Link     string
	MAC      []byte
	DeviceID string
	Kind     EventKind
}

// EventKind classifies an Event.
type EventKind int

const (
	EventNeighborUp EventKind = iota
	EventNeighborDown
)

// Logger is satisfied by pkg/logging; it is the same minimal seam
// pkg/cdp.Logger uses so the codec stays dependency-free.
type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}

// Config holds the engine's tunables. TickPeriod governs how often
// the driver wakes to reap and check the transmit interval (§4.6: "at
// a fixed cadence, ≤ a few seconds").
type Config struct {
	TickPeriod       time.Duration
	TransmitInterval time.Duration
	HoldTime         time.Duration
	Version          uint8
	ParseOptions     cdp.ParseOptions
	Platform         string
	PortID           string
	Capabilities     cdp.Capabilities
	Duplex           cdp.DuplexMode
}

var errNoAddresses = errors.New("agent: interface has no addresses to advertise")

func (c Config) withDefaults() Config {
	if c.TickPeriod <= 0 {
		c.TickPeriod = time.Second
	}
	if c.TransmitInterval <= 0 {
		c.TransmitInterval = 60 * time.Second
	}
	if c.HoldTime <= 0 {
		c.HoldTime = 180 * time.Second
	}
	if c.Version == 0 {
		c.Version = cdp.Version2
	}
	return c
}

// Engine is the periodic driver plus frame-reception entry point. It
// owns a neighbor.Table and drives it against the configured
// collaborators (§4.6, §5).
type Engine struct {
	cfg      Config
	table    *neighbor.Table
	iface    InterfaceLister
	tx       Transmitter
	identity IdentityProvider
	notify   Notifier
	history  HistoryRecorder
	log      Logger

	mu           sync.Mutex
	lastTransmit time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// Option configures an Engine at construction time.
type Option func(*Engine)

func WithNotifier(n Notifier) Option               { return func(e *Engine) { e.notify = n } }
func WithHistoryRecorder(h HistoryRecorder) Option { return func(e *Engine) { e.history = h } }
func WithLogger(l Logger) Option                   { return func(e *Engine) { e.log = l } }

// New constructs an Engine over an empty neighbor table.
func New(cfg Config, iface InterfaceLister, tx Transmitter, identity IdentityProvider, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg.withDefaults(),
		table:    neighbor.New(),
		iface:    iface,
		tx:       tx,
		identity: identity,
		log:      noopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Table returns the underlying neighbor table for inspection (§6's
// inspection-surface collaborator reads Engine.Table().Snapshot()).
func (e *Engine) Table() *neighbor.Table { return e.table }

// Receive parses bytes as a CDP frame and folds it into the neighbor
// table (§6's receive(link, src_mac, bytes, now)). A malformed frame
// is dropped and returned as an error; the sender is re-learned on the
// next valid frame (§7's user-visible behavior).
func (e *Engine) Receive(link string, srcMAC []byte, frame []byte, now time.Time) error {
	pkt, err := cdp.ParseWithOptions(wire.NewReader(frame), e.cfg.ParseOptions)
	if err != nil {
		e.log.Errorf("cdp: dropping malformed frame on %s from %x: %v", link, srcMAC, err)
		return err
	}

	_, existed := e.table.Lookup(link, srcMAC)
	rec, err := e.table.Receive(link, srcMAC, DeviceTypeEthernet, frame, now)
	if err != nil {
		e.log.Errorf("cdp: neighbor table rejected frame on %s: %v", link, err)
		return err
	}

	if !existed {
		deviceID, _ := pkt.DeviceID.Get()
		e.emit(EventNeighborUp, *rec, deviceID)
	}
	return nil
}

func (e *Engine) emit(kind EventKind, rec neighbor.Record, deviceID string) {
	if e.notify != nil {
		switch kind {
		case EventNeighborUp:
			e.notify.NeighborUp(rec)
		case EventNeighborDown:
			e.notify.NeighborDown(rec)
		}
	}
	if e.history != nil {
		e.history.RecordEvent(Event{
			At:       rec.ReceivedAt,
			Link:     rec.Link,
			MAC:      rec.MAC,
			DeviceID: deviceID,
			Kind:     kind,
		})
	}
}

// Run starts the periodic driver goroutine: every tick it reaps
// expired neighbors, then transmits on every live interface if the
// transmit interval has elapsed (§4.6). Run returns immediately; call
// Stop to halt the driver.
func (e *Engine) Run(ctx context.Context) {
	e.stopCh = make(chan struct{})
	e.doneCh = make(chan struct{})
	ticker := time.NewTicker(e.cfg.TickPeriod)

	go func() {
		defer close(e.doneCh)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				e.tick(ctx)
			case <-ctx.Done():
				return
			case <-e.stopCh:
				return
			}
		}
	}()
}

func (e *Engine) tick(ctx context.Context) {
	removed, err := e.table.Reap(time.Now())
	if err != nil {
		e.log.Errorf("cdp: reap failed: %v", err)
	}
	for _, rec := range removed {
		e.emit(EventNeighborDown, *rec, "")
	}

	e.mu.Lock()
	due := time.Since(e.lastTransmit) >= e.cfg.TransmitInterval
	if due {
		e.lastTransmit = time.Now()
	}
	e.mu.Unlock()

	if due {
		e.transmitAll(ctx)
	}
}

func (e *Engine) transmitAll(ctx context.Context) {
	ifaces, err := e.iface.Interfaces()
	if err != nil {
		e.log.Errorf("cdp: interface enumeration failed: %v", err)
		return
	}
	for _, ifc := range ifaces {
		frame, err := e.buildFrame(ifc)
		if err != nil {
			e.log.Errorf("cdp: build frame for %s failed: %v", ifc.Name, err)
			continue
		}
		if err := e.tx.Transmit(ctx, ifc.Name, frame); err != nil {
			e.log.Errorf("cdp: transmit on %s failed: %v", ifc.Name, err)
			continue
		}
		e.log.Infof("cdp: sent advertisement on %s (%d bytes)", ifc.Name, len(frame))
	}
}

func (e *Engine) buildFrame(ifc Interface) ([]byte, error) {
	if len(ifc.Addresses) == 0 {
		return nil, errNoAddresses
	}
	pkt := cdp.New(e.cfg.Version, uint8(e.cfg.HoldTime/time.Second))
	pkt.DeviceID = cdp.Some(e.identity.DeviceID())
	pkt.SoftwareVersion = cdp.Some(e.identity.SoftwareVersion())
	pkt.Platform = cdp.Some(e.cfg.Platform)
	portID := e.cfg.PortID
	if portID == "" {
		portID = ifc.Name
	}
	pkt.PortID = cdp.Some(portID)
	pkt.Capabilities = cdp.Some(e.cfg.Capabilities)
	pkt.Duplex = e.cfg.Duplex
	pkt.Addresses = cdp.Some(ifc.Addresses)

	buf := make([]byte, 1500)
	n, err := cdp.Marshal(pkt, buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// Stop disarms the timer, waits for any in-flight tick to complete,
// then runs a terminal reap-all to free the table (§5).
func (e *Engine) Stop() {
	if e.stopCh == nil {
		return
	}
	close(e.stopCh)
	<-e.doneCh
	e.table.Shutdown()
}
