// Package cdp implements the CDP packet record and its TLV parser and
// serializer: the in-memory representation of one decoded or
// encodable CDP frame, built on pkg/wire's cursor primitives and
// pkg/netaddr's address model (§3, §4.3, §4.4).
package cdp

import "github.com/krisarmstrong/cdp-go/pkg/netaddr"

// TLV type codes (§6). Values not in this table are skipped on parse
// and never emitted on serialize.
const (
	TLVDeviceID           = 0x0001
	TLVAddresses          = 0x0002
	TLVPortID             = 0x0003
	TLVCapabilities       = 0x0004
	TLVSoftwareVersion    = 0x0005
	TLVPlatform           = 0x0006
	TLVODRPrefixes        = 0x0007
	TLVClusterManagement  = 0x0008
	TLVVTPDomain          = 0x0009
	TLVNativeVLAN         = 0x000A
	TLVDuplex             = 0x000B
	TLVTrustBitmap        = 0x0012
	TLVUntrustedPortCoS   = 0x0013
	TLVManagementAddrs    = 0x0016
	TLVPoEAvailable       = 0x001A
	TLVStartupNativeVLAN  = 0x1007
)

// tlvHeaderLen is the size of a TLV's type+length header.
const tlvHeaderLen = 4

// Version1 and Version2 are the only protocol versions §4.3 accepts.
const (
	Version1 = 1
	Version2 = 2
)

// Packet is the decoded or to-be-encoded contents of one CDP frame
// (§3). The header fields are always present; everything else is an
// Optional attribute with explicit presence, so a present zero value
// (NativeVLAN 0, UntrustedPortCoS 0) is never confused with absence.
type Packet struct {
	// Header.
	Version  uint8
	TTL      uint8
	Checksum uint16 // as received; not used to re-derive on serialize

	// Required-when-transmitting-v2 (§3).
	DeviceID        Optional[string]
	SoftwareVersion Optional[string]
	Platform        Optional[string]
	PortID          Optional[string]
	Capabilities    Optional[Capabilities]
	Addresses       Optional[[]netaddr.Address]
	Duplex          DuplexMode

	// Optional.
	ODRPrefixes        Optional[[]netaddr.Prefix]
	ClusterManagement  Optional[ClusterManagementRecord]
	VTPDomain          Optional[string]
	NativeVLAN         Optional[uint16]
	TrustBitmap        Optional[uint8]
	UntrustedPortCoS   Optional[uint8]
	ManagementAddrs    Optional[[]netaddr.Address]
	PoEAvailable       Optional[PoEAvailability]
	StartupNativeVLAN  Optional[string]
}

// New returns a zero Packet with the given header fields. All optional
// attributes start absent and Duplex starts unset.
func New(version, ttl uint8) *Packet {
	return &Packet{Version: version, TTL: ttl}
}
