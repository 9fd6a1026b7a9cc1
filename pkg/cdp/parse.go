package cdp

import (
	"github.com/krisarmstrong/cdp-go/pkg/cdperr"
	"github.com/krisarmstrong/cdp-go/pkg/netaddr"
	"github.com/krisarmstrong/cdp-go/pkg/wire"
)

// Logger receives one informational event per skipped unknown TLV
// (§4.3, §8 scenario 3). A nil Logger is a silent no-op; cmd/cdpd
// wires this to pkg/logging at the daemon boundary so the codec itself
// stays free of a logging dependency.
type Logger interface {
	Infof(format string, args ...any)
}

// ParseOptions configures Parse. The zero value accepts both CDPv1 and
// CDPv2 frames, matching the newer of the two historical parsers this
// codec was modeled on (§9's open question).
type ParseOptions struct {
	// StrictV2 rejects version-1 frames when set, for deployments that
	// want the older parser's stricter gate.
	StrictV2 bool
	// Logger, if non-nil, is notified once per skipped unknown TLV.
	Logger Logger
}

func (o ParseOptions) logf(format string, args ...any) {
	if o.Logger != nil {
		o.Logger.Infof(format, args...)
	}
}

// Parse decodes one CDP frame from r using default options (both v1
// and v2 accepted). Ownership of the returned Packet transfers to the
// caller.
func Parse(r *wire.Reader) (*Packet, error) {
	return ParseWithOptions(r, ParseOptions{})
}

// ParseWithOptions decodes one CDP frame from r (§4.3). Any length
// shortage or structural violation inside a known TLV frees the
// in-progress record and fails the whole parse; unknown TLVs are
// skipped and never fail parsing.
func ParseWithOptions(r *wire.Reader, opts ParseOptions) (*Packet, error) {
	version, err := r.Get8()
	if err != nil {
		return nil, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse", err)
	}
	if version != Version1 && version != Version2 {
		return nil, cdperr.Newf(cdperr.KindProtocolRequirement, "cdp.Parse", "unsupported CDP version %d", version)
	}
	if opts.StrictV2 && version != Version2 {
		return nil, cdperr.Newf(cdperr.KindProtocolRequirement, "cdp.Parse", "strict-v2 mode rejects version %d", version)
	}

	ttl, err := r.Get8()
	if err != nil {
		return nil, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse", err)
	}
	checksum, err := r.Get16()
	if err != nil {
		return nil, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse", err)
	}

	p := New(version, ttl)
	p.Checksum = checksum

	for !r.AtEnd() {
		start := r.Position()
		tlvType, err := r.Get16()
		if err != nil {
			return nil, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse", err)
		}
		tlvLength, err := r.Get16()
		if err != nil {
			return nil, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse", err)
		}
		if int(tlvLength) < tlvHeaderLen {
			return nil, cdperr.Newf(cdperr.KindMalformedTLV, "cdp.Parse", "tlv type 0x%04x has impossible length %d", tlvType, tlvLength)
		}
		valueLen := int(tlvLength) - tlvHeaderLen

		if err := dispatchTLV(r, p, tlvType, valueLen, opts); err != nil {
			return nil, err
		}

		if err := r.SetPosition(start + int(tlvLength)); err != nil {
			return nil, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse", err)
		}
	}

	return p, nil
}

func dispatchTLV(r *wire.Reader, p *Packet, tlvType uint16, valueLen int, opts ParseOptions) error {
	switch tlvType {
	case TLVDeviceID:
		s, err := r.GetString(valueLen)
		if err != nil {
			return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:device-id", err)
		}
		p.DeviceID = Some(s)

	case TLVAddresses:
		addrs, err := parseAddressList(r)
		if err != nil {
			return err
		}
		p.Addresses = Some(mergeAddresses(p.Addresses, addrs))

	case TLVPortID:
		s, err := r.GetString(valueLen)
		if err != nil {
			return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:port-id", err)
		}
		p.PortID = Some(s)

	case TLVCapabilities:
		v, err := r.Get32()
		if err != nil {
			return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:capabilities", err)
		}
		p.Capabilities = Some(Capabilities(v))

	case TLVSoftwareVersion:
		s, err := r.GetString(valueLen)
		if err != nil {
			return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:software-version", err)
		}
		p.SoftwareVersion = Some(s)

	case TLVPlatform:
		s, err := r.GetString(valueLen)
		if err != nil {
			return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:platform", err)
		}
		p.Platform = Some(s)

	case TLVODRPrefixes:
		prefixes, err := parseODRPrefixes(r, valueLen)
		if err != nil {
			return err
		}
		p.ODRPrefixes = Some(prefixes)

	case TLVClusterManagement:
		rec, err := parseClusterManagement(r)
		if err != nil {
			return err
		}
		p.ClusterManagement = Some(rec)

	case TLVVTPDomain:
		s, err := r.GetString(valueLen)
		if err != nil {
			return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:vtp-domain", err)
		}
		p.VTPDomain = Some(s)

	case TLVNativeVLAN:
		v, err := r.Get16()
		if err != nil {
			return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:native-vlan", err)
		}
		if v > 4095 {
			return cdperr.Newf(cdperr.KindMalformedTLV, "cdp.Parse:native-vlan", "vlan %d exceeds 4095", v)
		}
		p.NativeVLAN = Some(v)

	case TLVDuplex:
		v, err := r.Get8()
		if err != nil {
			return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:duplex", err)
		}
		p.Duplex = duplexFromWire(v)

	case TLVTrustBitmap:
		v, err := r.Get8()
		if err != nil {
			return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:trust-bitmap", err)
		}
		p.TrustBitmap = Some(v)

	case TLVUntrustedPortCoS:
		v, err := r.Get8()
		if err != nil {
			return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:untrusted-cos", err)
		}
		p.UntrustedPortCoS = Some(v)

	case TLVManagementAddrs:
		addrs, err := parseAddressList(r)
		if err != nil {
			return err
		}
		p.ManagementAddrs = Some(mergeAddresses(p.ManagementAddrs, addrs))

	case TLVPoEAvailable:
		rec, err := parsePoEAvailability(r)
		if err != nil {
			return err
		}
		p.PoEAvailable = Some(rec)

	case TLVStartupNativeVLAN:
		s, err := r.GetString(valueLen)
		if err != nil {
			return cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:startup-native-vlan", err)
		}
		p.StartupNativeVLAN = Some(s)

	default:
		opts.logf("cdp: skipping unknown tlv type=0x%04x length=%d", tlvType, valueLen+tlvHeaderLen)
	}
	return nil
}

func mergeAddresses(existing Optional[[]netaddr.Address], addrs []netaddr.Address) []netaddr.Address {
	prior, ok := existing.Get()
	if !ok {
		return addrs
	}
	return append(prior, addrs...)
}

func parseAddressList(r *wire.Reader) ([]netaddr.Address, error) {
	count, err := r.Get32()
	if err != nil {
		return nil, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:addresses", err)
	}
	out := make([]netaddr.Address, 0, count)
	for i := uint32(0); i < count; i++ {
		addr, err := r.GetAddress()
		if err != nil {
			return nil, cdperr.New(cdperr.KindMalformedTLV, "cdp.Parse:addresses", err)
		}
		out = append(out, addr)
	}
	return out, nil
}

func parseODRPrefixes(r *wire.Reader, valueLen int) ([]netaddr.Prefix, error) {
	const entrySize = 5 // 4-byte IPv4 address + 1-byte prefix length
	if valueLen%entrySize != 0 {
		return nil, cdperr.Newf(cdperr.KindMalformedTLV, "cdp.Parse:odr-prefixes", "value length %d not a multiple of %d", valueLen, entrySize)
	}
	n := valueLen / entrySize
	out := make([]netaddr.Prefix, 0, n)
	for i := 0; i < n; i++ {
		addr, err := r.GetInetAddress()
		if err != nil {
			return nil, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:odr-prefixes", err)
		}
		length, err := r.Get8()
		if err != nil {
			return nil, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:odr-prefixes", err)
		}
		prefix, err := netaddr.NewPrefix(addr, int(length))
		if err != nil {
			return nil, cdperr.New(cdperr.KindMalformedTLV, "cdp.Parse:odr-prefixes", err)
		}
		out = append(out, prefix)
	}
	return out, nil
}

func parseClusterManagement(r *wire.Reader) (ClusterManagementRecord, error) {
	var rec ClusterManagementRecord

	oui, err := r.Get24()
	if err != nil {
		return rec, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:cluster-management", err)
	}
	if oui != ClusterManagementOUI {
		return rec, cdperr.Newf(cdperr.KindMalformedTLV, "cdp.Parse:cluster-management", "OUI 0x%06x is not the Cisco cluster-management OUI", oui)
	}
	rec.OUI = oui

	if rec.ProtocolID, err = r.Get16(); err != nil {
		return rec, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:cluster-management", err)
	}
	if rec.ClusterMaster, err = r.GetInetAddress(); err != nil {
		return rec, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:cluster-management", err)
	}
	if rec.Netmask, err = r.GetInetAddress(); err != nil {
		return rec, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:cluster-management", err)
	}
	if rec.Version, err = r.Get16(); err != nil {
		return rec, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:cluster-management", err)
	}
	if rec.Status, err = r.Get8(); err != nil {
		return rec, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:cluster-management", err)
	}
	if err := r.Skip(1); err != nil { // reserved byte before commander MAC
		return rec, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:cluster-management", err)
	}
	commander, err := r.GetBuffer(6)
	if err != nil {
		return rec, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:cluster-management", err)
	}
	copy(rec.CommanderMAC[:], commander)
	local, err := r.GetBuffer(6)
	if err != nil {
		return rec, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:cluster-management", err)
	}
	copy(rec.LocalMAC[:], local)
	if err := r.Skip(2); err != nil { // reserved bytes before VLAN
		return rec, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:cluster-management", err)
	}
	if rec.ManagementVLAN, err = r.Get16(); err != nil {
		return rec, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:cluster-management", err)
	}
	return rec, nil
}

func parsePoEAvailability(r *wire.Reader) (PoEAvailability, error) {
	var rec PoEAvailability
	var err error
	if rec.RequestID, err = r.Get16(); err != nil {
		return rec, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:poe", err)
	}
	if rec.ManagementID, err = r.Get16(); err != nil {
		return rec, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:poe", err)
	}
	if rec.AvailableMilliwatts, err = r.Get32(); err != nil {
		return rec, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:poe", err)
	}
	level, err := r.Get32()
	if err != nil {
		return rec, cdperr.New(cdperr.KindBufferExhaustion, "cdp.Parse:poe", err)
	}
	rec.PowerManagementLevel = int32(level)
	return rec, nil
}
