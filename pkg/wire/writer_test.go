package wire

import (
	"testing"

	"github.com/krisarmstrong/cdp-go/pkg/netaddr"
)

func TestWriterPut8Through32RoundTrip(t *testing.T) {
	buf := make([]byte, 10)
	w := NewWriter(buf)

	if err := w.Put8(0x01); err != nil {
		t.Fatalf("Put8: %v", err)
	}
	if err := w.Put16(0x0203); err != nil {
		t.Fatalf("Put16: %v", err)
	}
	if err := w.Put24(0x040506); err != nil {
		t.Fatalf("Put24: %v", err)
	}
	if err := w.Put32(0x0708090A); err != nil {
		t.Fatalf("Put32: %v", err)
	}

	r := NewReader(w.Bytes())
	b, _ := r.Get8()
	v16, _ := r.Get16()
	v24, _ := r.Get24()
	v32, _ := r.Get32()
	if b != 0x01 || v16 != 0x0203 || v24 != 0x040506 || v32 != 0x0708090A {
		t.Errorf("round trip mismatch: %#x %#x %#x %#x", b, v16, v24, v32)
	}
}

func TestWriterFailsWhenOutOfCapacity(t *testing.T) {
	w := NewWriter(make([]byte, 1))
	if err := w.Put16(1); err == nil {
		t.Fatal("expected error writing 2 bytes into a 1-byte buffer")
	}
}

func TestPutStringNoTrailingNUL(t *testing.T) {
	w := NewWriter(make([]byte, 5))
	if err := w.PutString("hi"); err != nil {
		t.Fatalf("PutString: %v", err)
	}
	if w.Length() != 2 {
		t.Errorf("Length = %d, want 2 (no trailing NUL)", w.Length())
	}
}

func TestInjectChecksumRejectsOffsetBeyondEmitted(t *testing.T) {
	w := NewWriter(make([]byte, 8))
	_ = w.Put16(0)
	if err := w.InjectChecksum(4); err == nil {
		t.Fatal("expected error injecting a checksum past the emitted prefix")
	}
}

func TestPutAddressRoundTripsThroughGetAddress(t *testing.T) {
	v4, _ := netaddr.FromV4Bytes([]byte{10, 100, 1, 1})
	v6, _ := netaddr.FromV6Bytes([]byte{0xfe, 0x80, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x16})

	for _, addr := range []netaddr.Address{v4, v6} {
		buf := make([]byte, 64)
		w := NewWriter(buf)
		if err := w.PutAddress(addr); err != nil {
			t.Fatalf("PutAddress(%v): %v", addr, err)
		}
		r := NewReader(w.Bytes())
		got, err := r.GetAddress()
		if err != nil {
			t.Fatalf("GetAddress: %v", err)
		}
		if !got.Equal(addr) {
			t.Errorf("round trip = %v, want %v", got, addr)
		}
		if !r.AtEnd() {
			t.Errorf("GetAddress left %d unread bytes", r.PeekRemaining())
		}
	}
}
