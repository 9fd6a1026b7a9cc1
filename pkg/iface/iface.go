// Package iface implements the interface-enumeration collaborator
// (§6): an iterator over live Ethernet links with their IPv4/IPv6
// addresses, consumed only when building an outgoing frame.
//
// Grounded on pkg/capture/interfaces.go's pcap.FindAllDevs wrappers
// (InterfaceExists, GetAllInterfaces), combined with the standard
// library's net.Interfaces for hardware addresses — pcap.Interface
// carries IP/netmask pairs but no MAC, so both sources are joined by
// interface name, the same join pkg/capture/capture.go's
// GetInterfaceMAC performs against a single named interface.
package iface

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/google/gopacket/pcap"

	"github.com/krisarmstrong/cdp-go/pkg/agent"
	"github.com/krisarmstrong/cdp-go/pkg/netaddr"
)

// Lister enumerates live, non-loopback Ethernet interfaces that carry
// at least one usable address, implementing agent.InterfaceLister.
type Lister struct {
	// Only, if non-empty, restricts enumeration to these interface
	// names. Empty means every eligible interface.
	Only []string
}

// Interfaces satisfies agent.InterfaceLister.
func (l Lister) Interfaces() ([]agent.Interface, error) {
	devices, err := pcap.FindAllDevs()
	if err != nil {
		return nil, fmt.Errorf("iface: enumerate devices: %w", err)
	}

	hwAddrs, err := hardwareAddresses()
	if err != nil {
		return nil, fmt.Errorf("iface: enumerate hardware addresses: %w", err)
	}

	allow := make(map[string]bool, len(l.Only))
	for _, name := range l.Only {
		allow[name] = true
	}

	var out []agent.Interface
	for _, dev := range devices {
		if len(allow) > 0 && !allow[dev.Name] {
			continue
		}
		mac := hwAddrs[dev.Name]
		if len(mac) != 6 {
			continue
		}
		addrs := convertAddresses(dev.Addresses)
		if len(addrs) == 0 {
			continue
		}
		out = append(out, agent.Interface{
			Name:      dev.Name,
			MAC:       mac,
			Addresses: addrs,
		})
	}
	return out, nil
}

func hardwareAddresses() (map[string][]byte, error) {
	netIfaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(netIfaces))
	for _, ni := range netIfaces {
		if len(ni.HardwareAddr) == 6 {
			out[ni.Name] = []byte(ni.HardwareAddr)
		}
	}
	return out, nil
}

func convertAddresses(pcapAddrs []pcap.InterfaceAddress) []netaddr.Address {
	var out []netaddr.Address
	for _, a := range pcapAddrs {
		ip := a.IP
		if ip == nil || ip.IsLoopback() || ip.IsUnspecified() {
			continue
		}
		netipAddr, ok := netip.AddrFromSlice(ip.To4())
		if !ok {
			netipAddr, ok = netip.AddrFromSlice(ip.To16())
			if !ok {
				continue
			}
		}
		out = append(out, netaddr.FromNetIP(netipAddr))
	}
	return out
}
