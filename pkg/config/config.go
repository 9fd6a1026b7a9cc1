// Package config loads and validates the CDP agent's YAML
// configuration file (SPEC_FULL.md §1 ambient stack).
//
// Adapted from the teacher's pkg/config/config.go: the same
// load-then-validate shape and gopkg.in/yaml.v3-backed file format,
// narrowed from the teacher's per-device multi-protocol simulation
// schema down to the single CDP agent's tunables — identity
// overrides, agent-wide advertise/hold-time intervals, the strict-v2
// gate (spec.md §9 open question), and the optional SNMP
// notification/history/API collaborators (SPEC_FULL.md §3).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Discovery protocol defaults, narrowed from the teacher's
// DefaultCDPAdvertiseInterval/DefaultCDPHoldtime/DefaultCDPVersion to
// the one protocol this agent speaks.
const (
	DefaultTickPeriod       = 1   // seconds
	DefaultTransmitInterval = 60  // seconds
	DefaultHoldTime         = 180 // seconds
	DefaultVersion          = 2

	DefaultAPIListenAddr = "127.0.0.1:8480"
	DefaultRateLimit     = 10.0 // requests/sec per client
	DefaultRateBurst     = 20

	DefaultHistoryMaxEvents = 10000
)

// Config is the root of the agent's configuration file.
type Config struct {
	// Identity overrides the identity-probe collaborator (spec.md §6).
	// Any field left empty is probed at startup instead (pkg/identity).
	Identity IdentityConfig `yaml:"identity"`

	// Interfaces restricts which links the agent advertises on and
	// listens to. Empty means every eligible interface (pkg/iface).
	Interfaces []string `yaml:"interfaces"`

	// Discovery holds the periodic driver's tunables (spec.md §4.6).
	Discovery DiscoveryConfig `yaml:"discovery"`

	// Notify configures the optional SNMP trap collaborator
	// (pkg/notify, SPEC_FULL.md §3). Off by default.
	Notify NotifyConfig `yaml:"notify"`

	// History configures the optional discovery-event log
	// (pkg/history, SPEC_FULL.md §3). Off by default.
	History HistoryConfig `yaml:"history"`

	// API configures the read-only HTTP inspection surface
	// (pkg/api, SPEC_FULL.md §3). Off by default.
	API APIConfig `yaml:"api"`

	// DebugLevel gates verbose logging (pkg/logging).
	DebugLevel int `yaml:"debug_level"`
}

// IdentityConfig overrides the values the identity probe would
// otherwise derive from the host (spec.md §6's "two calls returning
// an owned string").
type IdentityConfig struct {
	DeviceID        string `yaml:"device_id"`
	SoftwareVersion string `yaml:"software_version"`
	Platform        string `yaml:"platform"`
}

// DiscoveryConfig configures the periodic driver (spec.md §4.6) and
// the outgoing frame's required fields (spec.md §3).
type DiscoveryConfig struct {
	// Version is the CDP protocol version to advertise: 1 or 2.
	Version int `yaml:"version"`
	// StrictV2, when true, rejects incoming v1 frames outright
	// (spec.md §9 open question).
	StrictV2 bool `yaml:"strict_v2"`

	TickPeriodSeconds       int `yaml:"tick_period_seconds"`
	TransmitIntervalSeconds int `yaml:"transmit_interval_seconds"`
	HoldTimeSeconds         int `yaml:"hold_time_seconds"`

	PortID       string   `yaml:"port_id"`
	Capabilities []string `yaml:"capabilities"`
	Duplex       string   `yaml:"duplex"`
}

// NotifyConfig configures the SNMPv2c trap sender.
type NotifyConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Community string   `yaml:"community"`
	Receivers []string `yaml:"receivers"`
}

// HistoryConfig configures the bbolt-backed discovery event log.
type HistoryConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	MaxEvents int    `yaml:"max_events"`
}

// APIConfig configures the read-only HTTP inspection surface.
type APIConfig struct {
	Enabled    bool    `yaml:"enabled"`
	ListenAddr string  `yaml:"listen_addr"`
	RateLimit  float64 `yaml:"rate_limit"`
	RateBurst  int     `yaml:"rate_burst"`
}

// Load reads and parses a YAML configuration file, applies defaults,
// and validates the result. It returns a *ConfigErrorList (via err)
// when validation fails, matching the teacher's load-then-validate
// contract.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses YAML bytes into a Config, applies defaults, and
// validates it. file is used only to annotate error messages.
func Parse(data []byte, file string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", file, err)
	}
	cfg.applyDefaults()

	if errs := cfg.Validate(); errs.HasErrors() {
		errs.File = file
		return nil, errs
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Discovery.Version == 0 {
		c.Discovery.Version = DefaultVersion
	}
	if c.Discovery.TickPeriodSeconds == 0 {
		c.Discovery.TickPeriodSeconds = DefaultTickPeriod
	}
	if c.Discovery.TransmitIntervalSeconds == 0 {
		c.Discovery.TransmitIntervalSeconds = DefaultTransmitInterval
	}
	if c.Discovery.HoldTimeSeconds == 0 {
		c.Discovery.HoldTimeSeconds = DefaultHoldTime
	}
	if c.API.Enabled {
		if c.API.ListenAddr == "" {
			c.API.ListenAddr = DefaultAPIListenAddr
		}
		if c.API.RateLimit == 0 {
			c.API.RateLimit = DefaultRateLimit
		}
		if c.API.RateBurst == 0 {
			c.API.RateBurst = DefaultRateBurst
		}
	}
	if c.History.Enabled && c.History.MaxEvents == 0 {
		c.History.MaxEvents = DefaultHistoryMaxEvents
	}
}

// TickPeriod returns the configured tick period as a Duration.
func (c *Config) TickPeriod() time.Duration {
	return time.Duration(c.Discovery.TickPeriodSeconds) * time.Second
}

// TransmitInterval returns the configured transmit interval as a Duration.
func (c *Config) TransmitInterval() time.Duration {
	return time.Duration(c.Discovery.TransmitIntervalSeconds) * time.Second
}

// HoldTime returns the configured hold time as a Duration.
func (c *Config) HoldTime() time.Duration {
	return time.Duration(c.Discovery.HoldTimeSeconds) * time.Second
}
