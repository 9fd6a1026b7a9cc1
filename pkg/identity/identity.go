// Package identity implements the identity-probe collaborator (§6):
// two calls returning an owned string — device id (FQDN-style) and
// software version (multi-line free form) — called once at startup
// and held for the engine's lifetime.
//
// Grounded on cmd/niac/main.go's version banner (runtime.Version(),
// runtime.GOOS/GOARCH) for the software-version string, and on the
// standard library's os.Hostname for the device id, since none of the
// pack repos ship a dedicated host-identity probe of their own — the
// teacher's simulator names devices from its config file instead of
// probing the host it runs on.
package identity

import (
	"fmt"
	"os"
	"runtime"
)

// Provider supplies DeviceID and SoftwareVersion, implementing
// agent.IdentityProvider. Either value can be overridden at
// construction (pkg/config's IdentityConfig); an empty override falls
// back to the host probe.
type Provider struct {
	deviceID        string
	softwareVersion string
	platform        string
}

// New builds a Provider, probing the host for any value left empty in
// the overrides.
func New(deviceIDOverride, softwareVersionOverride, platformOverride string) *Provider {
	p := &Provider{
		deviceID:        deviceIDOverride,
		softwareVersion: softwareVersionOverride,
		platform:        platformOverride,
	}
	if p.deviceID == "" {
		p.deviceID = probeHostname()
	}
	if p.softwareVersion == "" {
		p.softwareVersion = probeSoftwareVersion()
	}
	if p.platform == "" {
		p.platform = probePlatform()
	}
	return p
}

// DeviceID satisfies agent.IdentityProvider.
func (p *Provider) DeviceID() string { return p.deviceID }

// SoftwareVersion satisfies agent.IdentityProvider.
func (p *Provider) SoftwareVersion() string { return p.softwareVersion }

// Platform returns the platform string used to populate outgoing
// frames' Platform TLV (spec.md §3). Not part of agent.IdentityProvider
// since the platform string lives in agent.Config.Platform instead,
// but exposed here so cmd/cdpd can default that field from the same
// probe used for device id and software version.
func (p *Provider) Platform() string { return p.platform }

func probeHostname() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "unknown-host"
	}
	return host
}

// probeSoftwareVersion builds a multi-line free-form string in the
// same shape as cmd/niac/main.go's version banner: the binary's
// semantic version (stamped at build time would be ideal; this agent
// has none, so it reports "dev") followed by the Go toolchain version
// and OS/architecture, matching spec.md §3's "free-form multiline
// string" for the software-version attribute.
func probeSoftwareVersion() string {
	return fmt.Sprintf("cdpd dev\nGo version: %s\nOS/Arch: %s/%s",
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func probePlatform() string {
	switch runtime.GOOS {
	case "linux":
		return "Linux"
	case "darwin":
		return "Darwin"
	case "windows":
		return "Windows"
	default:
		return runtime.GOOS
	}
}
