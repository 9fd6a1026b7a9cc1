package config

import "testing"

func validConfig() *Config {
	cfg := &Config{
		Discovery: DiscoveryConfig{
			Duplex: "full",
		},
	}
	cfg.applyDefaults()
	return cfg
}

func TestNewValidator(t *testing.T) {
	v := NewValidator("test.yaml")
	if v == nil {
		t.Fatal("expected validator, got nil")
	}
	if v.errors == nil {
		t.Fatal("expected errors list to be initialized")
	}
	if !v.errors.Valid {
		t.Error("expected a fresh validator's error list to start valid")
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	result := NewValidator("test.yaml").Validate(validConfig())
	if result.HasErrors() {
		t.Errorf("expected no errors, got: %v", result.Errors)
	}
}

func TestValidate_NilConfig(t *testing.T) {
	result := NewValidator("test.yaml").Validate(nil)
	if !result.HasErrors() {
		t.Fatal("expected an error for a nil config")
	}
}

func TestValidate_BadVersion(t *testing.T) {
	cfg := validConfig()
	cfg.Discovery.Version = 3
	result := NewValidator("test.yaml").Validate(cfg)
	if !result.HasErrors() {
		t.Fatal("expected error for unsupported version")
	}
}

func TestValidate_NonPositiveIntervals(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*DiscoveryConfig)
	}{
		{"tick period", func(d *DiscoveryConfig) { d.TickPeriodSeconds = 0 }},
		{"transmit interval", func(d *DiscoveryConfig) { d.TransmitIntervalSeconds = -1 }},
		{"hold time zero", func(d *DiscoveryConfig) { d.HoldTimeSeconds = 0 }},
		{"hold time overflow", func(d *DiscoveryConfig) { d.HoldTimeSeconds = 256 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg.Discovery)
			result := NewValidator("test.yaml").Validate(cfg)
			if !result.HasErrors() {
				t.Fatalf("expected error for %s", tt.name)
			}
		})
	}
}

func TestValidate_UnknownDuplex(t *testing.T) {
	cfg := validConfig()
	cfg.Discovery.Duplex = "autonegotiate"
	result := NewValidator("test.yaml").Validate(cfg)
	if !result.HasErrors() {
		t.Fatal("expected error for unknown duplex value")
	}
}

func TestValidate_V2WithoutDuplexWarns(t *testing.T) {
	cfg := validConfig()
	cfg.Discovery.Duplex = ""
	result := NewValidator("test.yaml").Validate(cfg)
	if !result.HasWarnings() {
		t.Error("expected a warning for v2 without duplex configured")
	}
	if result.HasErrors() {
		t.Errorf("missing duplex should warn, not error: %v", result.Errors)
	}
}

func TestValidate_UnknownCapability(t *testing.T) {
	cfg := validConfig()
	cfg.Discovery.Capabilities = []string{"switch", "warpdrive"}
	result := NewValidator("test.yaml").Validate(cfg)
	if !result.HasErrors() {
		t.Fatal("expected error for unknown capability")
	}
}

func TestValidate_NotifyEnabledNoReceiversWarns(t *testing.T) {
	cfg := validConfig()
	cfg.Notify.Enabled = true
	result := NewValidator("test.yaml").Validate(cfg)
	if !result.HasWarnings() {
		t.Error("expected warning for notify enabled with no receivers")
	}
}

func TestValidate_NotifyBadReceiver(t *testing.T) {
	cfg := validConfig()
	cfg.Notify.Enabled = true
	cfg.Notify.Receivers = []string{":"}
	result := NewValidator("test.yaml").Validate(cfg)
	if !result.HasErrors() {
		t.Fatal("expected error for invalid receiver address")
	}
}

func TestValidate_HistoryEnabledNoPath(t *testing.T) {
	cfg := validConfig()
	cfg.History.Enabled = true
	result := NewValidator("test.yaml").Validate(cfg)
	if !result.HasErrors() {
		t.Fatal("expected error for history enabled with no path")
	}
}

func TestValidate_APIEnabledDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.API.Enabled = true
	cfg.applyDefaults()
	result := NewValidator("test.yaml").Validate(cfg)
	if result.HasErrors() {
		t.Errorf("expected defaults to satisfy validation, got: %v", result.Errors)
	}
}

func TestValidate_APIEnabledMissingListenAddr(t *testing.T) {
	cfg := validConfig()
	cfg.API.Enabled = true
	cfg.API.RateLimit = 1
	cfg.API.RateBurst = 1
	result := NewValidator("test.yaml").Validate(cfg)
	if !result.HasErrors() {
		t.Fatal("expected error for api enabled with no listen_addr")
	}
}

func TestConfig_Validate_Method(t *testing.T) {
	cfg := validConfig()
	result := cfg.Validate()
	if result.HasErrors() {
		t.Errorf("expected no errors, got: %v", result.Errors)
	}
}
