package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

type fixedBreaker gobreaker.State

func (b fixedBreaker) State() gobreaker.State { return gobreaker.State(b) }

func readiness(t *testing.T, h *ReadinessHandler) (int, readinessResponse) {
	t.Helper()
	c, rec := newContext(http.MethodGet, "/health/ready", nil)
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, resp
}

func TestReadiness_RedisReportsBreakerState(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cases := []struct {
		breaker BreakerReporter
		want    string
	}{
		{nil, "ok"},
		{fixedBreaker(gobreaker.StateClosed), "ok"},
		{fixedBreaker(gobreaker.StateOpen), "degraded"},
		{fixedBreaker(gobreaker.StateHalfOpen), "degraded"},
	}
	for _, tc := range cases {
		code, resp := readiness(t, NewReadinessHandler(nil, rdb, tc.breaker))

		// No mongo configured, so the probe itself is unavailable.
		if code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503 without mongo, got %d", code)
		}
		if got := resp.Dependencies["redis"].Status; got != tc.want {
			t.Errorf("breaker %v: expected redis %q, got %q", tc.breaker, tc.want, got)
		}
	}
}

func TestReadiness_RedisDisabled(t *testing.T) {
	_, resp := readiness(t, NewReadinessHandler(nil, nil, nil))

	if resp.Status != "unavailable" || resp.Dependencies["redis"].Status != "disabled" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
