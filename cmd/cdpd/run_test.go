package main

import (
	"testing"

	"github.com/krisarmstrong/cdp-go/pkg/cdp"
)

func TestCapabilitiesFromNames(t *testing.T) {
	caps := capabilitiesFromNames([]string{"Switch", "igmp", "unknown"})
	if !caps.Has(cdp.CapSwitch) || !caps.Has(cdp.CapIGMP) {
		t.Fatalf("unexpected capabilities: %v", caps)
	}
	if caps.Has(cdp.CapRouter) {
		t.Error("did not expect router capability")
	}
}

func TestDuplexFromName(t *testing.T) {
	tests := map[string]cdp.DuplexMode{
		"full":    cdp.DuplexFull,
		"Half":    cdp.DuplexHalf,
		"":        cdp.DuplexUnset,
		"unknown": cdp.DuplexUnset,
	}
	for name, want := range tests {
		if got := duplexFromName(name); got != want {
			t.Errorf("duplexFromName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestResolveConfig_DefaultsWhenNoPath(t *testing.T) {
	cfg, err := resolveConfig("")
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if cfg.Discovery.Duplex != "full" {
		t.Errorf("expected default duplex full, got %q", cfg.Discovery.Duplex)
	}
}

func TestResolveConfig_MissingFile(t *testing.T) {
	if _, err := resolveConfig("/nonexistent/path/cdpd.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}
