package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "agent.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp yaml: %v", err)
	}
	return path
}

func TestLoad_Minimal(t *testing.T) {
	path := writeTempYAML(t, `
discovery:
  duplex: full
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Discovery.Version != DefaultVersion {
		t.Errorf("expected default version %d, got %d", DefaultVersion, cfg.Discovery.Version)
	}
	if cfg.Discovery.TickPeriodSeconds != DefaultTickPeriod {
		t.Errorf("expected default tick period %d, got %d", DefaultTickPeriod, cfg.Discovery.TickPeriodSeconds)
	}
	if cfg.Discovery.HoldTimeSeconds != DefaultHoldTime {
		t.Errorf("expected default hold time %d, got %d", DefaultHoldTime, cfg.Discovery.HoldTimeSeconds)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeTempYAML(t, `
identity:
  device_id: switch-01.example.com
  software_version: "cdp-go test"
  platform: Linux

interfaces:
  - eth0
  - eth1

discovery:
  version: 2
  strict_v2: true
  tick_period_seconds: 2
  transmit_interval_seconds: 30
  hold_time_seconds: 90
  port_id: GigabitEthernet0/1
  capabilities: [switch, igmp]
  duplex: full

notify:
  enabled: true
  community: public
  receivers:
    - "10.0.0.5:162"

history:
  enabled: true
  path: /var/lib/cdpd/history.db
  max_events: 500

api:
  enabled: true
  listen_addr: "127.0.0.1:9000"
  rate_limit: 5
  rate_burst: 10

debug_level: 2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Identity.DeviceID != "switch-01.example.com" {
		t.Errorf("unexpected device id %q", cfg.Identity.DeviceID)
	}
	if len(cfg.Interfaces) != 2 {
		t.Errorf("expected 2 interfaces, got %d", len(cfg.Interfaces))
	}
	if !cfg.Discovery.StrictV2 {
		t.Error("expected strict_v2 true")
	}
	if cfg.TickPeriod().Seconds() != 2 {
		t.Errorf("expected tick period 2s, got %v", cfg.TickPeriod())
	}
	if cfg.TransmitInterval().Seconds() != 30 {
		t.Errorf("expected transmit interval 30s, got %v", cfg.TransmitInterval())
	}
	if cfg.HoldTime().Seconds() != 90 {
		t.Errorf("expected hold time 90s, got %v", cfg.HoldTime())
	}
	if !cfg.Notify.Enabled || len(cfg.Notify.Receivers) != 1 {
		t.Errorf("unexpected notify config: %+v", cfg.Notify)
	}
	if !cfg.History.Enabled || cfg.History.MaxEvents != 500 {
		t.Errorf("unexpected history config: %+v", cfg.History)
	}
	if !cfg.API.Enabled || cfg.API.ListenAddr != "127.0.0.1:9000" {
		t.Errorf("unexpected api config: %+v", cfg.API)
	}
}

func TestLoad_InvalidVersion(t *testing.T) {
	path := writeTempYAML(t, `
discovery:
  version: 7
  duplex: full
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

func TestLoad_InvalidHoldTime(t *testing.T) {
	path := writeTempYAML(t, `
discovery:
  hold_time_seconds: 300
  duplex: full
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for hold time exceeding a single TTL byte")
	}
}

func TestLoad_UnknownCapability(t *testing.T) {
	path := writeTempYAML(t, `
discovery:
  duplex: full
  capabilities: [teleporter]
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown capability")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTempYAML(t, "not: valid: yaml: [[[")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestParse_EmptyEnabledAPIUsesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
discovery:
  duplex: half
api:
  enabled: true
`), "inline")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.API.ListenAddr != DefaultAPIListenAddr {
		t.Errorf("expected default listen addr, got %q", cfg.API.ListenAddr)
	}
	if cfg.API.RateLimit != DefaultRateLimit {
		t.Errorf("expected default rate limit, got %v", cfg.API.RateLimit)
	}
}
