// Package notify implements an optional SNMPv2c trap sender invoked
// when a neighbor is learned or reaped — an operational-agent
// extension beyond spec.md's read-only inspection surface (SPEC_FULL.md
// §3 "Supplemented features").
//
// Grounded on pkg/snmp/traps.go's TrapSender: the same
// one-gosnmp.GoSNMP-client-per-receiver construction and
// connect/send/close-per-trap loop that tolerates individual receiver
// failures, narrowed from its general alarm catalogue (coldStart,
// linkUp/Down, high-CPU, high-memory, interface errors) to two custom
// enterprise traps for neighbor up/down.
package notify

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/krisarmstrong/cdp-go/pkg/agent"
	"github.com/krisarmstrong/cdp-go/pkg/neighbor"
)

// Enterprise trap OIDs under a private CDP-agent arc, mirroring the
// teacher's convention of a fixed OID per event type (see
// pkg/snmp/traps.go's OIDLinkUp/OIDLinkDown).
const (
	OIDNeighborUp   = ".1.3.6.1.4.1.9999.1.1.1"
	OIDNeighborDown = ".1.3.6.1.4.1.9999.1.1.2"

	sysUpTimeOID    = ".1.3.6.1.2.1.1.3.0"
	snmpTrapOID     = ".1.3.6.1.6.3.1.1.4.1.0"
	defaultTrapPort = 162
)

// Logger is the same minimal seam the rest of the ambient stack uses.
type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}

// Sender sends SNMPv2c traps to a configured list of receivers,
// implementing agent.Notifier. A Sender with no receivers is valid
// and silently drops every notification.
type Sender struct {
	community string
	receivers []*gosnmp.GoSNMP
	log       Logger
}

// New builds a Sender for the given receivers ("host" or "host:port",
// default port 162) and community string. An empty receivers slice is
// accepted: the resulting Sender is a harmless no-op, matching
// SPEC_FULL.md's "off by default" framing.
func New(community string, receivers []string, log Logger) (*Sender, error) {
	if log == nil {
		log = noopLogger{}
	}
	if community == "" {
		community = "public"
	}
	s := &Sender{community: community, log: log}
	for _, r := range receivers {
		client, err := buildClient(r, community)
		if err != nil {
			return nil, fmt.Errorf("notify: %w", err)
		}
		s.receivers = append(s.receivers, client)
	}
	return s, nil
}

func buildClient(receiver, community string) (*gosnmp.GoSNMP, error) {
	host, portStr, err := net.SplitHostPort(receiver)
	if err != nil {
		host, portStr = receiver, ""
	}
	port := uint16(defaultTrapPort)
	if portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil || p < 1 || p > 65535 {
			return nil, fmt.Errorf("invalid receiver port in %q", receiver)
		}
		port = uint16(p)
	}
	return &gosnmp.GoSNMP{
		Target:    host,
		Port:      port,
		Community: community,
		Version:   gosnmp.Version2c,
		Timeout:   2 * time.Second,
		Retries:   1,
	}, nil
}

// NeighborUp satisfies agent.Notifier: fires when a neighbor is newly
// learned.
func (s *Sender) NeighborUp(rec neighbor.Record) {
	s.send(OIDNeighborUp, "neighborUp", rec)
}

// NeighborDown satisfies agent.Notifier: fires when a neighbor is
// reaped.
func (s *Sender) NeighborDown(rec neighbor.Record) {
	s.send(OIDNeighborDown, "neighborDown", rec)
}

func (s *Sender) send(trapOID, trapName string, rec neighbor.Record) {
	if len(s.receivers) == 0 {
		return
	}
	trap := gosnmp.SnmpTrap{
		Variables: []gosnmp.SnmpPDU{
			{Name: sysUpTimeOID, Type: gosnmp.TimeTicks, Value: uint32(time.Now().Unix() % 4294967296)},
			{Name: snmpTrapOID, Type: gosnmp.ObjectIdentifier, Value: trapOID},
			{Name: trapOID + ".1", Type: gosnmp.OctetString, Value: rec.Link},
			{Name: trapOID + ".2", Type: gosnmp.OctetString, Value: net.HardwareAddr(rec.MAC).String()},
		},
	}

	sent := 0
	var lastErr error
	for _, receiver := range s.receivers {
		if err := receiver.Connect(); err != nil {
			lastErr = err
			s.log.Errorf("notify: connect %s:%d failed: %v", receiver.Target, receiver.Port, err)
			continue
		}
		_, err := receiver.SendTrap(trap)
		receiver.Conn.Close()
		if err != nil {
			lastErr = err
			s.log.Errorf("notify: send %s to %s:%d failed: %v", trapName, receiver.Target, receiver.Port, err)
			continue
		}
		sent++
	}
	if sent > 0 {
		s.log.Infof("notify: sent %s trap to %d/%d receivers", trapName, sent, len(s.receivers))
	} else if lastErr != nil {
		s.log.Errorf("notify: %s trap delivered to no receiver: %v", trapName, lastErr)
	}
}

var _ agent.Notifier = (*Sender)(nil)
