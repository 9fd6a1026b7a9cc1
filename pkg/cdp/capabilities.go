package cdp

import "strings"

// Capabilities is the 32-bit device-role bitmap carried by TLV 4 (§6).
// The codec transports these bits without interpreting them.
type Capabilities uint32

const (
	CapRouter            Capabilities = 0x01
	CapTransparentBridge  Capabilities = 0x02
	CapSourceRouteBridge  Capabilities = 0x04
	CapSwitch             Capabilities = 0x08
	CapHost               Capabilities = 0x10
	CapIGMP               Capabilities = 0x20
	CapRepeater           Capabilities = 0x40
)

// Has reports whether all bits in mask are set.
func (c Capabilities) Has(mask Capabilities) bool { return c&mask == mask }

// String renders the set bits as a comma-joined list of names, in bit
// order, for logging.
func (c Capabilities) String() string {
	var names []string
	for _, b := range []struct {
		bit  Capabilities
		name string
	}{
		{CapRouter, "router"},
		{CapTransparentBridge, "transparent-bridge"},
		{CapSourceRouteBridge, "source-route-bridge"},
		{CapSwitch, "switch"},
		{CapHost, "host"},
		{CapIGMP, "igmp"},
		{CapRepeater, "repeater"},
	} {
		if c.Has(b.bit) {
			names = append(names, b.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}
