package wire

import (
	"bytes"
	"testing"
)

func TestReaderGet8Through32(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A}
	r := NewReader(buf)

	b, err := r.Get8()
	if err != nil || b != 0x01 {
		t.Fatalf("Get8 = %v, %v, want 0x01, nil", b, err)
	}
	v16, err := r.Get16()
	if err != nil || v16 != 0x0203 {
		t.Fatalf("Get16 = %#x, %v, want 0x0203, nil", v16, err)
	}
	v24, err := r.Get24()
	if err != nil || v24 != 0x040506 {
		t.Fatalf("Get24 = %#x, %v, want 0x040506, nil", v24, err)
	}
	v32, err := r.Get32()
	if err != nil || v32 != 0x0708090A {
		t.Fatalf("Get32 = %#x, %v, want 0x0708090a, nil", v32, err)
	}
	if !r.AtEnd() {
		t.Error("expected AtEnd after consuming the whole buffer")
	}
}

func TestReaderShortBufferLeavesPositionAtFailurePoint(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.Get16(); err == nil {
		t.Fatal("expected error reading 2 bytes from a 1-byte buffer")
	}
	if r.Position() != 0 {
		t.Errorf("Position = %d, want 0 (cursor must not advance on failure)", r.Position())
	}
}

func TestReaderSetPositionRejectsOutOfRange(t *testing.T) {
	r := NewReader(make([]byte, 4))
	if err := r.SetPosition(5); err == nil {
		t.Fatal("expected error setting position beyond buffer length")
	}
	if r.Position() != 0 {
		t.Errorf("Position = %d, want 0 after a rejected SetPosition", r.Position())
	}
	if err := r.SetPosition(4); err != nil {
		t.Errorf("SetPosition(len(buf)) should succeed: %v", err)
	}
}

func TestReaderGetStringAdvancesByMaxLenRegardlessOfNUL(t *testing.T) {
	buf := append([]byte("hi"), 0, 0, 0)
	r := NewReader(buf)
	s, err := r.GetString(5)
	if err != nil {
		t.Fatalf("GetString: %v", err)
	}
	if s != "hi" {
		t.Errorf("GetString = %q, want %q", s, "hi")
	}
	if r.Position() != 5 {
		t.Errorf("Position = %d, want 5 (cursor advances by maxLen)", r.Position())
	}
}

func TestReaderGetStringNoNULUsesFullLength(t *testing.T) {
	buf := []byte("abcde")
	r := NewReader(buf)
	s, err := r.GetString(5)
	if err != nil {
		t.Fatalf("GetString: %v", err)
	}
	if s != "abcde" {
		t.Errorf("GetString = %q, want %q", s, "abcde")
	}
}

func TestReaderGetBufferCopies(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	r := NewReader(buf)
	out, err := r.GetBuffer(4)
	if err != nil {
		t.Fatalf("GetBuffer: %v", err)
	}
	out[0] = 99
	if buf[0] != 1 {
		t.Error("GetBuffer must return a copy, not an alias into the source buffer")
	}
}

func TestGetVariableLengthIntegerWidths(t *testing.T) {
	buf := []byte{0xAB, 0xCD, 0xEF, 0x01}
	tests := []struct {
		n    int
		want uint32
	}{
		{1, 0xAB},
		{2, 0xABCD},
		{3, 0xABCDEF},
		{4, 0xABCDEF01},
	}
	for _, tt := range tests {
		r := NewReader(buf)
		got, err := r.GetVariableLengthInteger(tt.n)
		if err != nil {
			t.Fatalf("GetVariableLengthInteger(%d): %v", tt.n, err)
		}
		if got != tt.want {
			t.Errorf("GetVariableLengthInteger(%d) = %#x, want %#x", tt.n, got, tt.want)
		}
	}
	r := NewReader(buf)
	if _, err := r.GetVariableLengthInteger(5); err == nil {
		t.Fatal("expected error for width 5")
	}
}

func TestChecksumOfEmptyBufferIsAllOnesComplement(t *testing.T) {
	if got := Checksum(nil); got != 0xFFFF {
		t.Errorf("Checksum(nil) = %#x, want 0xffff", got)
	}
}

func TestValidateChecksumRoundTrip(t *testing.T) {
	payload := []byte{0x02, 0xB4, 0x00, 0x00, 0x00, 0x01, 0x00, 0x08, 'a', 'b', 'c', 'd'}
	buf := make([]byte, len(payload))
	copy(buf, payload)

	w := NewWriter(buf)
	w.pos = len(buf)
	if err := w.InjectChecksum(2); err != nil {
		t.Fatalf("InjectChecksum: %v", err)
	}

	r := NewReader(buf)
	if !r.ValidateChecksum() {
		t.Fatal("ValidateChecksum should return true on a freshly checksummed buffer")
	}
	if !bytes.Equal(buf[4:], payload[4:]) {
		t.Error("InjectChecksum must not touch bytes outside the checksum field")
	}
}
