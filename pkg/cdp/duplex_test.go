package cdp

import "testing"

func TestDuplexFromWire(t *testing.T) {
	tests := []struct {
		in   uint8
		want DuplexMode
	}{
		{1, DuplexFull},
		{2, DuplexHalf},
		{0, DuplexUnset},
		{99, DuplexUnset},
	}
	for _, tt := range tests {
		if got := duplexFromWire(tt.in); got != tt.want {
			t.Errorf("duplexFromWire(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDuplexToWire(t *testing.T) {
	if DuplexFull.toWire() != 1 {
		t.Error("DuplexFull must encode to 1")
	}
	if DuplexHalf.toWire() != 2 {
		t.Error("DuplexHalf must encode to 2")
	}
}
