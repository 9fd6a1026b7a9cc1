// Package netaddr implements the semantic address and prefix model:
// an immutable IPv4/IPv6 address value, an address-plus-length prefix,
// and fixed-capacity ordered collections of each, as used by CDP's
// address and ODR-prefix TLVs.
package netaddr

import (
	"fmt"
	"net/netip"
)

// Family identifies the address family of an Address.
type Family uint8

const (
	// FamilyV4 marks a 4-byte IPv4 address.
	FamilyV4 Family = iota
	// FamilyV6 marks a 16-byte IPv6 address.
	FamilyV6
)

// Address is an immutable IPv4 or IPv6 address. The zero value is not
// a valid Address; construct one with FromV4Bytes, FromV6Bytes, or
// FromNetIP.
type Address struct {
	addr netip.Addr
}

// FromV4Bytes builds an Address from exactly 4 big-endian bytes.
func FromV4Bytes(b []byte) (Address, error) {
	if len(b) != 4 {
		return Address{}, fmt.Errorf("netaddr: IPv4 address needs 4 bytes, got %d", len(b))
	}
	var a4 [4]byte
	copy(a4[:], b)
	return Address{addr: netip.AddrFrom4(a4)}, nil
}

// FromV6Bytes builds an Address from exactly 16 big-endian bytes.
func FromV6Bytes(b []byte) (Address, error) {
	if len(b) != 16 {
		return Address{}, fmt.Errorf("netaddr: IPv6 address needs 16 bytes, got %d", len(b))
	}
	var a16 [16]byte
	copy(a16[:], b)
	return Address{addr: netip.AddrFrom16(a16)}, nil
}

// FromNetIP adapts a standard library netip.Addr into an Address.
func FromNetIP(a netip.Addr) Address {
	if a.Is4In6() {
		a = a.Unmap()
	}
	return Address{addr: a}
}

// IsValid reports whether the Address was properly constructed.
func (a Address) IsValid() bool { return a.addr.IsValid() }

// Family reports whether this is a v4 or v6 address. Calling Family on
// an invalid Address panics, matching the "immutable after
// construction" invariant: there is no meaningful family for an
// unconstructed value.
func (a Address) Family() Family {
	if !a.addr.IsValid() {
		panic("netaddr: Family of invalid Address")
	}
	if a.addr.Is4() {
		return FamilyV4
	}
	return FamilyV6
}

// Width returns the bit width of this address's family (32 or 128).
func (a Address) Width() int {
	if a.Family() == FamilyV4 {
		return 32
	}
	return 128
}

// Bytes returns the big-endian byte representation (4 or 16 bytes).
func (a Address) Bytes() []byte {
	b := a.addr.AsSlice()
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// NetIP exposes the underlying netip.Addr for interop with net/http,
// net.IP-based APIs, etc.
func (a Address) NetIP() netip.Addr { return a.addr }

// String renders the address in its canonical textual form.
func (a Address) String() string { return a.addr.String() }

// Equal reports whether two addresses have the same family and value.
func (a Address) Equal(o Address) bool { return a.addr == o.addr }
