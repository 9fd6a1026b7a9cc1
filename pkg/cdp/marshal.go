package cdp

import (
	"errors"

	"github.com/krisarmstrong/cdp-go/pkg/cdperr"
	"github.com/krisarmstrong/cdp-go/pkg/netaddr"
	"github.com/krisarmstrong/cdp-go/pkg/wire"
)

// checksumOffset is the header offset of the two-byte checksum field
// (§4.4: "inject_checksum(at = 2)").
const checksumOffset = 2

// Marshal serializes p into buf and returns the number of bytes
// written (§4.4). buf must be large enough for the whole frame; no
// partial write is left in a usable state on error beyond whatever
// scratch bytes were written before the precondition check fails.
func Marshal(p *Packet, buf []byte) (int, error) {
	if p.Version != Version1 && p.Version != Version2 {
		return 0, cdperr.Newf(cdperr.KindProtocolRequirement, "cdp.Marshal", "unsupported CDP version %d", p.Version)
	}
	if p.Version == Version2 && p.Duplex == DuplexUnset {
		return 0, cdperr.New(cdperr.KindProtocolRequirement, "cdp.Marshal", errDuplexRequired)
	}

	deviceID, ok := p.DeviceID.Get()
	if !ok {
		return 0, missingRequired("device-id")
	}
	softwareVersion, ok := p.SoftwareVersion.Get()
	if !ok {
		return 0, missingRequired("software-version")
	}
	platform, ok := p.Platform.Get()
	if !ok {
		return 0, missingRequired("platform")
	}
	portID, ok := p.PortID.Get()
	if !ok {
		return 0, missingRequired("port-id")
	}
	capabilities, ok := p.Capabilities.Get()
	if !ok {
		return 0, missingRequired("capabilities")
	}
	addresses, ok := p.Addresses.Get()
	if !ok || len(addresses) == 0 {
		return 0, missingRequired("addresses")
	}

	w := wire.NewWriter(buf)
	if err := w.Put8(p.Version); err != nil {
		return 0, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	if err := w.Put8(p.TTL); err != nil {
		return 0, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	if err := w.Put16(0); err != nil { // checksum placeholder
		return 0, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}

	if err := putStringTLV(w, TLVDeviceID, deviceID); err != nil {
		return 0, err
	}
	if err := putStringTLV(w, TLVSoftwareVersion, softwareVersion); err != nil {
		return 0, err
	}
	if err := putStringTLV(w, TLVPlatform, platform); err != nil {
		return 0, err
	}
	if err := putStringTLV(w, TLVPortID, portID); err != nil {
		return 0, err
	}
	if err := putCapabilitiesTLV(w, capabilities); err != nil {
		return 0, err
	}
	if err := putAddressListTLV(w, TLVAddresses, addresses); err != nil {
		return 0, err
	}
	if p.Version == Version2 {
		if err := putDuplexTLV(w, p.Duplex); err != nil {
			return 0, err
		}
	}

	if odr, ok := p.ODRPrefixes.Get(); ok {
		if err := putODRPrefixesTLV(w, odr); err != nil {
			return 0, err
		}
	}
	if cmr, ok := p.ClusterManagement.Get(); ok {
		if err := putClusterManagementTLV(w, cmr); err != nil {
			return 0, err
		}
	}
	if vtp, ok := p.VTPDomain.Get(); ok {
		if err := putStringTLV(w, TLVVTPDomain, vtp); err != nil {
			return 0, err
		}
	}
	if vlan, ok := p.NativeVLAN.Get(); ok {
		if err := putU16TLV(w, TLVNativeVLAN, vlan); err != nil {
			return 0, err
		}
	}
	if trust, ok := p.TrustBitmap.Get(); ok {
		if err := putU8TLV(w, TLVTrustBitmap, trust); err != nil {
			return 0, err
		}
	}
	if cos, ok := p.UntrustedPortCoS.Get(); ok {
		if err := putU8TLV(w, TLVUntrustedPortCoS, cos); err != nil {
			return 0, err
		}
	}
	if mgmt, ok := p.ManagementAddrs.Get(); ok && len(mgmt) > 0 {
		if err := putAddressListTLV(w, TLVManagementAddrs, mgmt); err != nil {
			return 0, err
		}
	}
	if poe, ok := p.PoEAvailable.Get(); ok {
		if err := putPoETLV(w, poe); err != nil {
			return 0, err
		}
	}
	if startupVLAN, ok := p.StartupNativeVLAN.Get(); ok {
		if err := putStringTLV(w, TLVStartupNativeVLAN, startupVLAN); err != nil {
			return 0, err
		}
	}

	if err := w.InjectChecksum(checksumOffset); err != nil {
		return 0, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	return w.Length(), nil
}

var errDuplexRequired = errors.New("duplex must not be unset when serializing a v2 frame")

func missingRequired(field string) error {
	return cdperr.Newf(cdperr.KindProtocolRequirement, "cdp.Marshal", "required attribute %q is absent", field)
}

func putTLVHeader(w *wire.Writer, tlvType uint16, valueLen int) error {
	if err := w.Put16(tlvType); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	if err := w.Put16(uint16(tlvHeaderLen + valueLen)); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	return nil
}

func putStringTLV(w *wire.Writer, tlvType uint16, s string) error {
	if err := putTLVHeader(w, tlvType, len(s)); err != nil {
		return err
	}
	if err := w.PutString(s); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	return nil
}

func putU8TLV(w *wire.Writer, tlvType uint16, v uint8) error {
	if err := putTLVHeader(w, tlvType, 1); err != nil {
		return err
	}
	if err := w.Put8(v); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	return nil
}

func putU16TLV(w *wire.Writer, tlvType uint16, v uint16) error {
	if err := putTLVHeader(w, tlvType, 2); err != nil {
		return err
	}
	if err := w.Put16(v); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	return nil
}

func putCapabilitiesTLV(w *wire.Writer, c Capabilities) error {
	if err := putTLVHeader(w, TLVCapabilities, 4); err != nil {
		return err
	}
	if err := w.Put32(uint32(c)); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	return nil
}

func putDuplexTLV(w *wire.Writer, d DuplexMode) error {
	if err := putTLVHeader(w, TLVDuplex, 1); err != nil {
		return err
	}
	if err := w.Put8(d.toWire()); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	return nil
}

// addressEntrySize returns the on-wire size of one address entry, kept
// in lockstep with wire.Writer.PutAddress and wire.Reader.GetAddress:
// 9 bytes for IPv4 (NLPID: kind, length, proto, 2-byte address-length,
// 4-byte address), 28 for IPv6 (SNAP: kind, length, dsap, ssap,
// control, 3-byte OUI, 2-byte PID, 2-byte address-length, 16-byte
// address). §4.4's own worked formula (8 + 9·#v4 + 26·#v6) undercounts
// the v6 entry by the OUI's third byte relative to its own §4.1
// decoder (oui read as a 24-bit field); this codec follows the
// decoder, so TLV length always matches what was actually written.
func addressEntrySize(a netaddr.Address) int {
	if a.Family() == netaddr.FamilyV4 {
		return 9
	}
	return 28
}

func putAddressListTLV(w *wire.Writer, tlvType uint16, addrs []netaddr.Address) error {
	bodyLen := 4 // u32 count
	for _, a := range addrs {
		bodyLen += addressEntrySize(a)
	}
	if err := putTLVHeader(w, tlvType, bodyLen); err != nil {
		return err
	}
	if err := w.Put32(uint32(len(addrs))); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	for _, a := range addrs {
		if err := w.PutAddress(a); err != nil {
			return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
		}
	}
	return nil
}

func putODRPrefixesTLV(w *wire.Writer, prefixes []netaddr.Prefix) error {
	const entrySize = 5
	if err := putTLVHeader(w, TLVODRPrefixes, len(prefixes)*entrySize); err != nil {
		return err
	}
	for _, pfx := range prefixes {
		if err := w.PutBuffer(pfx.Address().Bytes()); err != nil {
			return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
		}
		if err := w.Put8(uint8(pfx.Length())); err != nil {
			return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
		}
	}
	return nil
}

func putClusterManagementTLV(w *wire.Writer, rec ClusterManagementRecord) error {
	const bodyLen = 3 + 2 + 4 + 4 + 2 + 1 + 1 + 6 + 6 + 2 + 2
	if err := putTLVHeader(w, TLVClusterManagement, bodyLen); err != nil {
		return err
	}
	if err := w.Put24(rec.OUI); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	if err := w.Put16(rec.ProtocolID); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	if err := w.PutBuffer(rec.ClusterMaster.Bytes()); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	if err := w.PutBuffer(rec.Netmask.Bytes()); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	if err := w.Put16(rec.Version); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	if err := w.Put8(rec.Status); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	if err := w.Put8(0); err != nil { // reserved byte before commander MAC
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	if err := w.PutBuffer(rec.CommanderMAC[:]); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	if err := w.PutBuffer(rec.LocalMAC[:]); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	if err := w.Put16(0); err != nil { // reserved bytes before VLAN
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	if err := w.Put16(rec.ManagementVLAN); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	return nil
}

func putPoETLV(w *wire.Writer, rec PoEAvailability) error {
	const bodyLen = 2 + 2 + 4 + 4
	if err := putTLVHeader(w, TLVPoEAvailable, bodyLen); err != nil {
		return err
	}
	if err := w.Put16(rec.RequestID); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	if err := w.Put16(rec.ManagementID); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	if err := w.Put32(rec.AvailableMilliwatts); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	if err := w.Put32(uint32(rec.PowerManagementLevel)); err != nil {
		return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Marshal", err)
	}
	return nil
}
