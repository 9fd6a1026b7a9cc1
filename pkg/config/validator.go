// Package config provides configuration validation
package config

import (
	"fmt"
	"net"
	"strings"
)

// knownCapabilities mirrors spec.md §6's capability bitmap catalogue
// (routing, transparent bridging, source-route bridging, switching,
// host, IGMP, repeater).
var knownCapabilities = map[string]bool{
	"routing":   true,
	"bridge":    true,
	"srbridge":  true,
	"switch":    true,
	"host":      true,
	"igmp":      true,
	"repeater":  true,
}

// Validator validates the agent configuration.
type Validator struct {
	errors *ConfigErrorList
	file   string
}

// NewValidator creates a new configuration validator.
func NewValidator(file string) *Validator {
	return &Validator{
		errors: &ConfigErrorList{File: file, Valid: true},
		file:   file,
	}
}

// Validate validates a complete configuration.
func (v *Validator) Validate(cfg *Config) *ConfigErrorList {
	if cfg == nil {
		v.addError("", "configuration is nil")
		return v.errors
	}

	v.validateDiscovery(&cfg.Discovery)
	v.validateNotify(&cfg.Notify)
	v.validateHistory(&cfg.History)
	v.validateAPI(&cfg.API)

	return v.errors
}

func (v *Validator) validateDiscovery(d *DiscoveryConfig) {
	if d.Version != 1 && d.Version != 2 {
		v.addError("discovery.version", fmt.Sprintf("unsupported CDP version %d: must be 1 or 2 (spec.md §4.3)", d.Version))
	}
	if d.TickPeriodSeconds <= 0 {
		v.addError("discovery.tick_period_seconds", "must be a positive number of seconds")
	}
	if d.TransmitIntervalSeconds <= 0 {
		v.addError("discovery.transmit_interval_seconds", "must be a positive number of seconds")
	}
	if d.HoldTimeSeconds <= 0 || d.HoldTimeSeconds > 255 {
		v.addError("discovery.hold_time_seconds", "must be between 1 and 255 (encoded as a single TTL byte, spec.md §4.3)")
	}
	switch strings.ToLower(d.Duplex) {
	case "", "unset", "half", "full":
	default:
		v.addError("discovery.duplex", fmt.Sprintf("unknown duplex %q: must be half or full", d.Duplex))
	}
	if d.Version == 2 && strings.ToLower(d.Duplex) == "" {
		v.addWarning("discovery.duplex", "no duplex configured for a v2 agent; serialization will fail until one is set (spec.md §4.4 protocol-requirement)")
	}
	for _, cap := range d.Capabilities {
		if !knownCapabilities[strings.ToLower(cap)] {
			v.addError("discovery.capabilities", fmt.Sprintf("unknown capability %q", cap))
		}
	}
}

func (v *Validator) validateNotify(n *NotifyConfig) {
	if !n.Enabled {
		return
	}
	if len(n.Receivers) == 0 {
		v.addWarning("notify.receivers", "notify is enabled but no receivers are configured; traps will never be sent")
	}
	for _, r := range n.Receivers {
		host := r
		if h, _, err := net.SplitHostPort(r); err == nil {
			host = h
		}
		if host == "" {
			v.addError("notify.receivers", fmt.Sprintf("invalid receiver address %q", r))
		}
	}
}

func (v *Validator) validateHistory(h *HistoryConfig) {
	if !h.Enabled {
		return
	}
	if h.Path == "" {
		v.addError("history.path", "history is enabled but no path is configured")
	}
	if h.MaxEvents < 0 {
		v.addError("history.max_events", "must not be negative")
	}
}

func (v *Validator) validateAPI(a *APIConfig) {
	if !a.Enabled {
		return
	}
	if a.ListenAddr == "" {
		v.addError("api.listen_addr", "api is enabled but no listen_addr is configured")
	}
	if a.RateLimit <= 0 {
		v.addError("api.rate_limit", "must be a positive requests-per-second value")
	}
	if a.RateBurst <= 0 {
		v.addError("api.rate_burst", "must be a positive integer")
	}
}

func (v *Validator) addError(field, message string) {
	v.errors.Add(NewConfigError(v.file, field, message))
}

func (v *Validator) addWarning(field, message string) {
	v.errors.Add(NewConfigWarning(v.file, field, message))
}

// Validate runs the default Validator over the Config and returns the
// accumulated errors/warnings.
func (c *Config) Validate() *ConfigErrorList {
	return NewValidator("").Validate(c)
}
