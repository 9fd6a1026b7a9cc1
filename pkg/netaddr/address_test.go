package netaddr

import "testing"

// TestFromV4BytesRoundTrip verifies 4-byte construction and rendering.
func TestFromV4BytesRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"private", []byte{10, 100, 1, 1}, "10.100.1.1"},
		{"loopback", []byte{127, 0, 0, 1}, "127.0.0.1"},
		{"broadcast", []byte{255, 255, 255, 255}, "255.255.255.255"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := FromV4Bytes(tt.in)
			if err != nil {
				t.Fatalf("FromV4Bytes: %v", err)
			}
			if addr.Family() != FamilyV4 {
				t.Errorf("Family = %v, want FamilyV4", addr.Family())
			}
			if addr.Width() != 32 {
				t.Errorf("Width = %d, want 32", addr.Width())
			}
			if got := addr.String(); got != tt.want {
				t.Errorf("String = %q, want %q", got, tt.want)
			}
			if got := addr.Bytes(); string(got) != string(tt.in) {
				t.Errorf("Bytes = %v, want %v", got, tt.in)
			}
		})
	}
}

func TestFromV4BytesWrongLength(t *testing.T) {
	if _, err := FromV4Bytes([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for 3-byte input")
	}
}

func TestFromV6BytesRoundTrip(t *testing.T) {
	in := []byte{0xfe, 0x80, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x16}
	addr, err := FromV6Bytes(in)
	if err != nil {
		t.Fatalf("FromV6Bytes: %v", err)
	}
	if addr.Family() != FamilyV6 {
		t.Errorf("Family = %v, want FamilyV6", addr.Family())
	}
	if addr.Width() != 128 {
		t.Errorf("Width = %d, want 128", addr.Width())
	}
	if got := addr.Bytes(); string(got) != string(in) {
		t.Errorf("Bytes = %v, want %v", got, in)
	}
}

func TestAddressEqual(t *testing.T) {
	a, _ := FromV4Bytes([]byte{1, 2, 3, 4})
	b, _ := FromV4Bytes([]byte{1, 2, 3, 4})
	c, _ := FromV4Bytes([]byte{1, 2, 3, 5})
	if !a.Equal(b) {
		t.Error("expected a.Equal(b)")
	}
	if a.Equal(c) {
		t.Error("did not expect a.Equal(c)")
	}
}

func TestAddressBytesIsACopy(t *testing.T) {
	a, _ := FromV4Bytes([]byte{1, 2, 3, 4})
	b := a.Bytes()
	b[0] = 99
	if a.Bytes()[0] != 1 {
		t.Error("mutating Bytes() result leaked into the Address")
	}
}

func TestFamilyOfInvalidAddressPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling Family on an invalid Address")
		}
	}()
	var a Address
	_ = a.Family()
}
