package cdp

import (
	"testing"

	"github.com/krisarmstrong/cdp-go/pkg/netaddr"
	"github.com/krisarmstrong/cdp-go/pkg/wire"
)

// FuzzParse feeds arbitrary byte buffers through the parser. A
// malformed buffer must return an error, never panic (§4.3's failure
// semantics: any problem frees the in-progress record and fails the
// whole parse).
func FuzzParse(f *testing.F) {
	seed := minimalV2SeedFrame()
	f.Add(seed)
	f.Add([]byte{})
	f.Add([]byte{2})
	f.Add([]byte{2, 180})
	f.Add([]byte{2, 180, 0, 0})
	f.Add([]byte{9, 180, 0, 0, 0, 1, 0, 8})

	f.Fuzz(func(t *testing.T, buf []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Parse panicked on %v: %v", buf, r)
			}
		}()
		_, _ = Parse(wire.NewReader(buf))
	})
}

func minimalV2SeedFrame() []byte {
	p := New(Version2, 180)
	p.DeviceID = Some("seed-device")
	p.SoftwareVersion = Some("seed/1.0")
	p.Platform = Some("seed-platform")
	p.PortID = Some("eth0")
	p.Capabilities = Some(CapHost)
	p.Duplex = DuplexFull
	addr, _ := netaddr.FromV4Bytes([]byte{10, 0, 0, 1})
	p.Addresses = Some([]netaddr.Address{addr})

	buf := make([]byte, 1500)
	n, err := Marshal(p, buf)
	if err != nil {
		return nil
	}
	return buf[:n]
}
