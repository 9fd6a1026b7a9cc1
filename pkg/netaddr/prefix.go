package netaddr

import "fmt"

// Prefix pairs an Address with a prefix bit length. It is used by the
// ODR-prefixes TLV (§3).
type Prefix struct {
	addr   Address
	length int
}

// NewPrefix validates that length is within the address family's bit
// width and returns a Prefix.
func NewPrefix(addr Address, length int) (Prefix, error) {
	if !addr.IsValid() {
		return Prefix{}, fmt.Errorf("netaddr: prefix over invalid address")
	}
	if length < 0 || length > addr.Width() {
		return Prefix{}, fmt.Errorf("netaddr: prefix length %d out of range [0,%d]", length, addr.Width())
	}
	return Prefix{addr: addr, length: length}, nil
}

// Address returns the prefix's network address.
func (p Prefix) Address() Address { return p.addr }

// Length returns the prefix bit length.
func (p Prefix) Length() int { return p.length }

// String renders the prefix in CIDR-like notation.
func (p Prefix) String() string { return fmt.Sprintf("%s/%d", p.addr, p.length) }
