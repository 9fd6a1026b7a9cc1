package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/krisarmstrong/cdp-go/pkg/neighbor"
)

func tableWithOneNeighbor(t *testing.T) *neighbor.Table {
	t.Helper()
	table := neighbor.New()
	if _, err := table.Receive("eth0", []byte{0, 1, 2, 3, 4, 5}, "switch", nil, time.Now()); err != nil {
		t.Fatalf("Receive: %v", err)
	}
	return table
}

func TestHandleNeighbors_NoToken(t *testing.T) {
	s := NewServer(Config{Table: tableWithOneNeighbor(t)})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/neighbors", nil)
	w := httptest.NewRecorder()

	s.auth(s.handleNeighbors)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got []neighborJSON
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Link != "eth0" {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestAuth_RejectsMissingToken(t *testing.T) {
	s := NewServer(Config{Table: tableWithOneNeighbor(t), Token: "secret"})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/neighbors", nil)
	w := httptest.NewRecorder()

	s.auth(s.handleNeighbors)(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuth_AcceptsBearerToken(t *testing.T) {
	s := NewServer(Config{Table: tableWithOneNeighbor(t), Token: "secret"})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/neighbors", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()

	s.auth(s.handleNeighbors)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAuth_RateLimitsAfterBurst(t *testing.T) {
	s := NewServer(Config{Table: tableWithOneNeighbor(t), RateLimit: 1, RateBurst: 1})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/neighbors", nil)
	req.RemoteAddr = "203.0.113.1:12345"

	w1 := httptest.NewRecorder()
	s.auth(s.handleNeighbors)(w1, req)
	if w1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", w1.Code)
	}

	w2 := httptest.NewRecorder()
	s.auth(s.handleNeighbors)(w2, req)
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be rate limited, got %d", w2.Code)
	}
}

func TestHandleHistory_DisabledByDefault(t *testing.T) {
	s := NewServer(Config{Table: tableWithOneNeighbor(t)})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	w := httptest.NewRecorder()

	s.auth(s.handleHistory)(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when history is disabled, got %d", w.Code)
	}
}

func TestStart_RequiresAddrAndTable(t *testing.T) {
	if err := NewServer(Config{}).Start(); err == nil {
		t.Error("expected error for missing addr and table")
	}
	if err := NewServer(Config{Addr: ":0"}).Start(); err == nil {
		t.Error("expected error for missing table")
	}
}

func TestRateLimiter_CleanupStale(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.Allow("10.0.0.1")
	if len(rl.limiters) != 1 {
		t.Fatalf("expected 1 tracked limiter, got %d", len(rl.limiters))
	}
	rl.CleanupStale(0)
	if len(rl.limiters) != 0 {
		t.Fatalf("expected stale limiter to be cleaned up, got %d", len(rl.limiters))
	}
}
