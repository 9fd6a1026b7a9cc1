package wire

import (
	"fmt"

	"github.com/krisarmstrong/cdp-go/pkg/netaddr"
)

// ProtocolKind is the CDP address-entry protocol-type byte (§4.1).
type ProtocolKind uint8

const (
	// ProtocolKindNLPID marks an ISO NLPID-encoded protocol (IPv4 only).
	ProtocolKindNLPID ProtocolKind = 0x01
	// ProtocolKindSNAP marks an 802.2 SNAP-encoded protocol (IPv4 or IPv6).
	ProtocolKindSNAP ProtocolKind = 0x02
)

const (
	nlpidIPv4 = 0xCC

	snapDSAP = 0xAA
	snapSSAP = 0xAA
	snapCtrl = 0x03

	snapPIDIPv4 = 0x0800
	snapPIDIPv6 = 0x86DD
)

// AddressFamily reports which IP family an address entry decodes to.
type AddressFamily int

const (
	// AddressFamilyV4 is IPv4.
	AddressFamilyV4 AddressFamily = iota
	// AddressFamilyV6 is IPv6.
	AddressFamilyV6
)

// GetProtocolType reads the one-byte protocol kind and one-byte
// protocol length that prefix every CDP address entry, and classifies
// the resulting address family. It accepts only the two encodings
// spec.md §4.1 enumerates: NLPID/IPv4, and SNAP carrying IPv4 or IPv6.
func (r *Reader) GetProtocolType() (AddressFamily, error) {
	kind, err := r.Get8()
	if err != nil {
		return 0, err
	}
	length, err := r.Get8()
	if err != nil {
		return 0, err
	}

	switch ProtocolKind(kind) {
	case ProtocolKindNLPID:
		if length != 1 {
			return 0, fmt.Errorf("wire: NLPID protocol length must be 1, got %d", length)
		}
		pid, err := r.Get8()
		if err != nil {
			return 0, err
		}
		if pid != nlpidIPv4 {
			return 0, fmt.Errorf("wire: unsupported NLPID value 0x%02x", pid)
		}
		return AddressFamilyV4, nil

	case ProtocolKindSNAP:
		if length != 8 {
			return 0, fmt.Errorf("wire: SNAP protocol length must be 8, got %d", length)
		}
		dsap, err := r.Get8()
		if err != nil {
			return 0, err
		}
		ssap, err := r.Get8()
		if err != nil {
			return 0, err
		}
		ctrl, err := r.Get8()
		if err != nil {
			return 0, err
		}
		oui, err := r.Get24()
		if err != nil {
			return 0, err
		}
		pid, err := r.Get16()
		if err != nil {
			return 0, err
		}
		if dsap != snapDSAP || ssap != snapSSAP || ctrl != snapCtrl || oui != 0 {
			return 0, fmt.Errorf("wire: malformed SNAP header dsap=%#x ssap=%#x ctrl=%#x oui=%#x", dsap, ssap, ctrl, oui)
		}
		switch pid {
		case snapPIDIPv4:
			return AddressFamilyV4, nil
		case snapPIDIPv6:
			return AddressFamilyV6, nil
		default:
			return 0, fmt.Errorf("wire: unsupported SNAP PID 0x%04x", pid)
		}

	default:
		return 0, fmt.Errorf("wire: unsupported address protocol kind 0x%02x", kind)
	}
}

// GetInetAddress reads a 4-byte big-endian IPv4 address.
func (r *Reader) GetInetAddress() (netaddr.Address, error) {
	b, err := r.take(4)
	if err != nil {
		return netaddr.Address{}, err
	}
	return netaddr.FromV4Bytes(b)
}

// GetInet6Address reads a 16-byte IPv6 address.
func (r *Reader) GetInet6Address() (netaddr.Address, error) {
	b, err := r.take(16)
	if err != nil {
		return netaddr.Address{}, err
	}
	return netaddr.FromV6Bytes(b)
}

// GetAddress decodes one heterogeneous CDP address entry: protocol
// type, address length, and the matching v4/v6 payload. The declared
// address length must match the family's byte width exactly.
func (r *Reader) GetAddress() (netaddr.Address, error) {
	family, err := r.GetProtocolType()
	if err != nil {
		return netaddr.Address{}, err
	}
	addrLen, err := r.Get16()
	if err != nil {
		return netaddr.Address{}, err
	}

	switch family {
	case AddressFamilyV4:
		if addrLen != 4 {
			return netaddr.Address{}, fmt.Errorf("wire: IPv4 address length must be 4, got %d", addrLen)
		}
		return r.GetInetAddress()
	case AddressFamilyV6:
		if addrLen != 16 {
			return netaddr.Address{}, fmt.Errorf("wire: IPv6 address length must be 16, got %d", addrLen)
		}
		return r.GetInet6Address()
	default:
		return netaddr.Address{}, fmt.Errorf("wire: unknown address family")
	}
}
