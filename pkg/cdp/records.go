package cdp

import "github.com/krisarmstrong/cdp-go/pkg/netaddr"

// ClusterManagementRecord is TLV 8's fixed-layout payload (§3, §4.3).
// Two source trees name this TLV differently ("hello protocol" vs.
// "cluster management protocol"); this codec uses the latter (§9).
type ClusterManagementRecord struct {
	OUI            uint32 // 24-bit, must be 0x00000C on parse (§4.3).
	ProtocolID     uint16
	ClusterMaster  netaddr.Address
	Netmask        netaddr.Address
	Version        uint16
	Status         uint8
	CommanderMAC   [6]byte
	LocalMAC       [6]byte
	ManagementVLAN uint16
}

// ClusterManagementOUI is the only OUI value §4.3 accepts for TLV 8.
const ClusterManagementOUI = 0x00000C

// PoEAvailability is TLV 26's payload (§3, §4.3).
type PoEAvailability struct {
	RequestID           uint16
	ManagementID        uint16
	AvailableMilliwatts uint32
	PowerManagementLevel int32
}
