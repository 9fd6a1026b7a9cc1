package cdp

import "testing"

func TestCapabilitiesHas(t *testing.T) {
	c := CapHost | CapIGMP
	if !c.Has(CapHost) {
		t.Error("expected CapHost set")
	}
	if c.Has(CapRouter) {
		t.Error("did not expect CapRouter set")
	}
	if !c.Has(CapHost | CapIGMP) {
		t.Error("expected both CapHost and CapIGMP set")
	}
}

func TestCapabilitiesString(t *testing.T) {
	if got := Capabilities(0).String(); got != "none" {
		t.Errorf("String() = %q, want %q", got, "none")
	}
	if got := CapRouter.String(); got != "router" {
		t.Errorf("String() = %q, want %q", got, "router")
	}
}
