package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/krisarmstrong/cdp-go/pkg/netaddr"
)

// Writer is a mutable, bounds-checked cursor over a caller-supplied
// fixed-size buffer.
type Writer struct {
	buf []byte
	pos int
}

// NewWriter wraps buf for writing. The caller owns buf and must size
// it to the largest frame it expects to emit.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Length returns the number of bytes written so far.
func (w *Writer) Length() int { return w.pos }

// Bytes returns the emitted prefix of the underlying buffer.
func (w *Writer) Bytes() []byte { return w.buf[:w.pos] }

func (w *Writer) grab(n int) ([]byte, error) {
	if w.pos+n > len(w.buf) {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, n, len(w.buf)-w.pos)
	}
	b := w.buf[w.pos : w.pos+n]
	w.pos += n
	return b, nil
}

// Put8 writes one byte.
func (w *Writer) Put8(v uint8) error {
	b, err := w.grab(1)
	if err != nil {
		return err
	}
	b[0] = v
	return nil
}

// Put16 writes a big-endian 16-bit value.
func (w *Writer) Put16(v uint16) error {
	b, err := w.grab(2)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint16(b, v)
	return nil
}

// Put24 writes the low 24 bits of v, big-endian.
func (w *Writer) Put24(v uint32) error {
	b, err := w.grab(3)
	if err != nil {
		return err
	}
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
	return nil
}

// Put32 writes a big-endian 32-bit value.
func (w *Writer) Put32(v uint32) error {
	b, err := w.grab(4)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint32(b, v)
	return nil
}

// PutString writes s without a trailing NUL.
func (w *Writer) PutString(s string) error {
	return w.PutBuffer([]byte(s))
}

// PutBuffer copies raw bytes verbatim.
func (w *Writer) PutBuffer(b []byte) error {
	dst, err := w.grab(len(b))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// PutAddress writes one heterogeneous CDP address entry (NLPID for
// IPv4, SNAP for IPv6), matching the layout GetAddress decodes.
func (w *Writer) PutAddress(addr netaddr.Address) error {
	switch addr.Family() {
	case netaddr.FamilyV4:
		if err := w.Put8(uint8(ProtocolKindNLPID)); err != nil {
			return err
		}
		if err := w.Put8(1); err != nil {
			return err
		}
		if err := w.Put8(nlpidIPv4); err != nil {
			return err
		}
		if err := w.Put16(4); err != nil {
			return err
		}
		return w.PutBuffer(addr.Bytes())

	case netaddr.FamilyV6:
		if err := w.Put8(uint8(ProtocolKindSNAP)); err != nil {
			return err
		}
		if err := w.Put8(8); err != nil {
			return err
		}
		if err := w.Put8(snapDSAP); err != nil {
			return err
		}
		if err := w.Put8(snapSSAP); err != nil {
			return err
		}
		if err := w.Put8(snapCtrl); err != nil {
			return err
		}
		if err := w.Put24(0); err != nil {
			return err
		}
		if err := w.Put16(snapPIDIPv6); err != nil {
			return err
		}
		if err := w.Put16(16); err != nil {
			return err
		}
		return w.PutBuffer(addr.Bytes())

	default:
		return fmt.Errorf("wire: unknown address family")
	}
}

// InjectChecksum overwrites the two-byte field at offset `at` with the
// RFC 1071 checksum of the entire emitted buffer (with that field
// treated as zero during the sum), preserving the historical CDP
// byte-order quirk: Checksum's big-endian result is byte-swapped, and
// the low byte of that swapped value lands at `at` and its high byte at
// `at+1` (§4.4, §9). The two bytes written equal a big-endian store of
// Checksum's result, so ValidateChecksum over the buffer reads zero.
func (w *Writer) InjectChecksum(at int) error {
	if at+2 > w.pos {
		return fmt.Errorf("%w: checksum offset %d outside emitted %d bytes", ErrShortBuffer, at, w.pos)
	}
	emitted := w.buf[:w.pos]
	emitted[at], emitted[at+1] = 0, 0
	sum := Checksum(emitted)
	le := sum<<8 | sum>>8
	emitted[at] = byte(le)
	emitted[at+1] = byte(le >> 8)
	return nil
}
