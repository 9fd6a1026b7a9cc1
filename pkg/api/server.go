// Package api implements the read-only JSON HTTP server (§6): a
// handful of endpoints over pkg/inspect's neighbor snapshots, with
// per-IP rate limiting and the teacher's security-header and bearer
// token conventions.
//
// Grounded on pkg/api/server.go's Server/RateLimiter/auth middleware,
// trimmed from a full read/write REST-and-SPA surface (simulation
// control, config editing, PCAP replay, topology export, a bundled
// web UI) down to the read-only neighbor/history inspection surface
// SPEC_FULL.md's domain stack table asks of this package — discovery
// has nothing to configure or replay over HTTP, only to report on.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/krisarmstrong/cdp-go/pkg/history"
	"github.com/krisarmstrong/cdp-go/pkg/inspect"
	"github.com/krisarmstrong/cdp-go/pkg/neighbor"
)

// DefaultRateLimit and DefaultBurst bound a single client IP absent
// an explicit configuration, matching the teacher's defaults.
const (
	DefaultRateLimit = 10
	DefaultBurst     = 20
)

// rateLimiterEntry tracks a rate limiter with its last access time so
// CleanupStale can bound the map's memory growth.
type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter provides per-IP rate limiting for API requests.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rateLimiterEntry
	rate     rate.Limit
	burst    int
}

// NewRateLimiter returns a RateLimiter applying r requests/second with
// burst b to each distinct client IP.
func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	return &RateLimiter{limiters: make(map[string]*rateLimiterEntry), rate: r, burst: b}
}

// Allow reports whether a request from ip may proceed.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	entry, ok := rl.limiters[ip]
	if !ok {
		entry = &rateLimiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	limiter := entry.limiter
	rl.mu.Unlock()
	return limiter.Allow()
}

// CleanupStale drops limiters for IPs not seen within staleAfter, so
// a long-running server does not accumulate one entry per client IP
// it has ever seen.
func (rl *RateLimiter) CleanupStale(staleAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := time.Now()
	for ip, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > staleAfter {
			delete(rl.limiters, ip)
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func addSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Content-Security-Policy", "default-src 'none'")
}

// Logger is the minimal seam this package needs, matching every other
// collaborator's own logger interface.
type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Infof(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}

// Config configures a Server.
type Config struct {
	Addr      string
	Token     string
	RateLimit rate.Limit
	RateBurst int
	Table     *neighbor.Table
	History   *history.Log
	Log       Logger
}

func (c Config) withDefaults() Config {
	if c.RateLimit <= 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.RateBurst <= 0 {
		c.RateBurst = DefaultBurst
	}
	if c.Log == nil {
		c.Log = noopLogger{}
	}
	return c
}

// Server exposes a read-only JSON view of the neighbor table and, if
// configured, the persisted discovery-event history.
type Server struct {
	cfg         Config
	httpServer  *http.Server
	rateLimiter *RateLimiter
}

// NewServer returns a configured Server. Call Start to boot the
// listener.
func NewServer(cfg Config) *Server {
	cfg = cfg.withDefaults()
	return &Server{
		cfg:         cfg,
		rateLimiter: NewRateLimiter(cfg.RateLimit, cfg.RateBurst),
	}
}

// Start boots the HTTP listener in a background goroutine. Call
// Shutdown to stop it.
func (s *Server) Start() error {
	if s.cfg.Addr == "" {
		return fmt.Errorf("api: listen address is required")
	}
	if s.cfg.Table == nil {
		return fmt.Errorf("api: neighbor table is required")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/neighbors", s.auth(s.handleNeighbors))
	mux.HandleFunc("/api/v1/history", s.auth(s.handleHistory))
	mux.HandleFunc("/healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.cfg.Log.Errorf("api: listener on %s exited: %v", s.cfg.Addr, err)
		}
	}()
	s.cfg.Log.Infof("api: listening on %s", s.cfg.Addr)
	return nil
}

// Shutdown gracefully stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addSecurityHeaders(w)

		ip := clientIP(r)
		if !s.rateLimiter.Allow(ip) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		if s.cfg.Token != "" {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.Token)) != 1 {
				writeError(w, http.StatusUnauthorized, "invalid or missing authentication token")
				return
			}
		}
		next(w, r)
	}
}

// neighborJSON is the wire shape for one decorated neighbor. Duplex
// and capabilities are rendered as their String() forms rather than
// raw numbers, matching pkg/logging's preference for human-readable
// output over bit patterns.
type neighborJSON struct {
	Link            string    `json:"link"`
	MAC             string    `json:"mac"`
	ReceivedAt      time.Time `json:"received_at"`
	ExpiresAt       time.Time `json:"expires_at"`
	Decoded         bool      `json:"decoded"`
	DeviceID        string    `json:"device_id,omitempty"`
	Platform        string    `json:"platform,omitempty"`
	SoftwareVersion string    `json:"software_version,omitempty"`
	PortID          string    `json:"port_id,omitempty"`
	Capabilities    string    `json:"capabilities,omitempty"`
	Duplex          string    `json:"duplex,omitempty"`
	NativeVLAN      *uint16   `json:"native_vlan,omitempty"`
	Addresses       []string  `json:"addresses,omitempty"`
}

func toNeighborJSON(n inspect.Neighbor) neighborJSON {
	out := neighborJSON{
		Link:            n.Link,
		MAC:             n.MAC,
		ReceivedAt:      n.ReceivedAt,
		ExpiresAt:       n.ExpiresAt,
		Decoded:         n.Decoded,
		DeviceID:        n.DeviceID,
		Platform:        n.Platform,
		SoftwareVersion: n.SoftwareVersion,
		PortID:          n.PortID,
	}
	if n.Decoded {
		out.Capabilities = n.Capabilities.String()
		out.Duplex = n.Duplex.String()
	}
	if n.HasNativeVLAN {
		v := n.NativeVLAN
		out.NativeVLAN = &v
	}
	for _, addr := range n.Addresses {
		out.Addresses = append(out.Addresses, addr.String())
	}
	return out
}

func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	views := inspect.Snapshot(s.cfg.Table)
	out := make([]neighborJSON, 0, len(views))
	for _, v := range views {
		out = append(out, toNeighborJSON(v))
	}
	writeJSON(w, out)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.cfg.History == nil {
		writeError(w, http.StatusNotFound, "history is not enabled")
		return
	}
	records, err := s.cfg.History.List(200)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	writeJSON(w, records)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
