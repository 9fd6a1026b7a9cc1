package cdp

// DuplexMode is the three-state duplex enum (§3). Unlike the other
// optional attributes, absence is a member of the enum itself rather
// than an Optional wrapper: DuplexUnset is what a freshly built Packet
// starts with, and it is illegal to serialize on a v2 frame (§4.4).
type DuplexMode uint8

const (
	// DuplexUnset means the field was never set (parse) or is not
	// transmittable (serialize on v2).
	DuplexUnset DuplexMode = iota
	DuplexHalf
	DuplexFull
)

// wireDuplex and its inverse encode the TLV 11 byte value: half = 2,
// full = 1 (§3, §4.3). Any other received byte coerces to DuplexUnset,
// per the permissive-parse/strict-serialize rule in §9.
const (
	wireDuplexFull = 1
	wireDuplexHalf = 2
)

// duplexFromWire maps a received TLV 11 byte to a DuplexMode,
// coercing anything outside {1,2} to DuplexUnset.
func duplexFromWire(b uint8) DuplexMode {
	switch b {
	case wireDuplexHalf:
		return DuplexHalf
	case wireDuplexFull:
		return DuplexFull
	default:
		return DuplexUnset
	}
}

// toWire returns the TLV 11 byte value for d. Callers must not call
// this with DuplexUnset on a v2 frame; the serializer checks that
// precondition itself (§4.4).
func (d DuplexMode) toWire() uint8 {
	switch d {
	case DuplexHalf:
		return wireDuplexHalf
	case DuplexFull:
		return wireDuplexFull
	default:
		return 0
	}
}

func (d DuplexMode) String() string {
	switch d {
	case DuplexHalf:
		return "half"
	case DuplexFull:
		return "full"
	default:
		return "unset"
	}
}
