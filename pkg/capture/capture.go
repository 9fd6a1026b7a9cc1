// Package capture implements the frame I/O collaborator (§6):
// transmit(link, dst_mac=CDP multicast, bytes) and the receive path
// that decodes a captured link-layer frame down to the raw CDP
// payload and hands it to the engine.
//
// Grounded on pkg/capture/capture.go's Engine (pcap.OpenLive,
// SendPacket, StartCapture) generalized from a single
// construction-time interface to a lazily-opened handle per link name,
// and on pkg/protocols/cdp.go's sendFrame/buildLLCSNAPHeader for the
// exact 802.3-length-field Ethernet + LLC/SNAP framing CDP requires
// (gopacket's layers.Ethernet has no built-in SNAP sub-decoder, so the
// LLC/SNAP header is built and parsed by hand here exactly as the
// teacher does on transmit).
package capture

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/krisarmstrong/cdp-go/pkg/agent"
)

const (
	cdpMulticastMAC   = "01:00:0C:CC:CC:CC"
	snapOUI           = 0x00000C
	snapProtocolID    = 0x2000
	ethernetHeaderLen = 14
	llcSNAPHeaderLen  = 8
	snaplen           = 1600
)

// Logger is the same minimal seam pkg/cdp.Logger and pkg/agent.Logger
// use, so this package stays independently testable without a
// concrete logging dependency.
type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}

// FrameHandler receives one decoded CDP payload (LLC/SNAP header
// already stripped) from a live link.
type FrameHandler func(link string, srcMAC []byte, cdpPayload []byte, now time.Time)

// Manager owns one pcap handle per link name, opened lazily on first
// use, and implements agent.Transmitter.
type Manager struct {
	log Logger

	mu      sync.Mutex
	handles map[string]*pcap.Handle
}

// NewManager constructs an empty Manager. A nil Logger disables
// logging.
func NewManager(log Logger) *Manager {
	if log == nil {
		log = noopLogger{}
	}
	return &Manager{log: log, handles: make(map[string]*pcap.Handle)}
}

func (m *Manager) handle(link string) (*pcap.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.handles[link]; ok {
		return h, nil
	}
	h, err := pcap.OpenLive(link, snaplen, true, pcap.BlockForever)
	if err != nil {
		return nil, fmt.Errorf("capture: open %s: %w", link, err)
	}
	m.handles[link] = h
	return h, nil
}

// Transmit wraps a serialized CDP payload in an 802.3-length-field
// Ethernet header plus an LLC/SNAP header addressed to the CDP
// multicast MAC, and writes it to link (§6, §4.4 framing).
func (m *Manager) Transmit(_ context.Context, link string, cdpPayload []byte) error {
	h, err := m.handle(link)
	if err != nil {
		return err
	}
	srcMAC, err := hardwareAddr(link)
	if err != nil {
		return err
	}
	dstMAC, err := net.ParseMAC(cdpMulticastMAC)
	if err != nil {
		return fmt.Errorf("capture: parse multicast MAC: %w", err)
	}

	body := append(buildLLCSNAP(), cdpPayload...)
	frame := make([]byte, ethernetHeaderLen+len(body))
	copy(frame[0:6], dstMAC)
	copy(frame[6:12], srcMAC)
	binary.BigEndian.PutUint16(frame[12:14], uint16(len(body)))
	copy(frame[ethernetHeaderLen:], body)

	if err := h.WritePacketData(frame); err != nil {
		return fmt.Errorf("capture: write %s: %w", link, err)
	}
	m.log.Infof("capture: transmitted %d bytes on %s", len(frame), link)
	return nil
}

// Listen starts a capture loop on link, calling onFrame for every
// frame that decodes as CDP (LLC/SNAP OUI 00:00:0C, PID 0x2000). It
// returns once the BPF filter and handle are set up; the capture loop
// itself runs in a goroutine until ctx is cancelled.
func (m *Manager) Listen(ctx context.Context, link string, onFrame FrameHandler) error {
	h, err := m.handle(link)
	if err != nil {
		return err
	}
	if err := h.SetBPFFilter("ether dst " + cdpMulticastMAC); err != nil {
		return fmt.Errorf("capture: set filter on %s: %w", link, err)
	}

	source := gopacket.NewPacketSource(h, h.LinkType())
	packets := source.Packets()

	go func() {
		m.log.Infof("capture: listening for CDP frames on %s", link)
		for {
			select {
			case <-ctx.Done():
				return
			case pkt, ok := <-packets:
				if !ok {
					return
				}
				m.dispatch(link, pkt, onFrame)
			}
		}
	}()
	return nil
}

func (m *Manager) dispatch(link string, pkt gopacket.Packet, onFrame FrameHandler) {
	ethLayer := pkt.Layer(layers.LayerTypeEthernet)
	if ethLayer == nil {
		return
	}
	eth, ok := ethLayer.(*layers.Ethernet)
	if !ok {
		return
	}
	payload := eth.LayerPayload()
	cdpPayload, ok := stripLLCSNAP(payload)
	if !ok {
		return
	}
	onFrame(link, []byte(eth.SrcMAC), cdpPayload, time.Now())
}

// buildLLCSNAP returns the 8-byte LLC/SNAP header CDP rides inside:
// DSAP/SSAP 0xAA, control 0x03, OUI 00:00:0C, protocol ID 0x2000.
func buildLLCSNAP() []byte {
	h := make([]byte, llcSNAPHeaderLen)
	h[0], h[1], h[2] = 0xAA, 0xAA, 0x03
	h[3], h[4], h[5] = byte(snapOUI>>16), byte(snapOUI>>8), byte(snapOUI)
	binary.BigEndian.PutUint16(h[6:8], snapProtocolID)
	return h
}

// stripLLCSNAP validates the 8-byte LLC/SNAP header and returns the
// CDP payload that follows it.
func stripLLCSNAP(data []byte) ([]byte, bool) {
	if len(data) < llcSNAPHeaderLen {
		return nil, false
	}
	if data[0] != 0xAA || data[1] != 0xAA || data[2] != 0x03 {
		return nil, false
	}
	oui := uint32(data[3])<<16 | uint32(data[4])<<8 | uint32(data[5])
	pid := binary.BigEndian.Uint16(data[6:8])
	if oui != snapOUI || pid != snapProtocolID {
		return nil, false
	}
	return data[llcSNAPHeaderLen:], true
}

func hardwareAddr(link string) ([]byte, error) {
	ni, err := net.InterfaceByName(link)
	if err != nil {
		return nil, fmt.Errorf("capture: lookup %s: %w", link, err)
	}
	if len(ni.HardwareAddr) != 6 {
		return nil, fmt.Errorf("capture: %s has no 6-byte hardware address", link)
	}
	return []byte(ni.HardwareAddr), nil
}

// Close releases every open handle.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for link, h := range m.handles {
		h.Close()
		delete(m.handles, link)
	}
}

var _ agent.Transmitter = (*Manager)(nil)
