package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestHealthHandler_Liveness(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/health", "")
	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadinessHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	cases := []struct {
		name       string
		postgres   probe
		redis      probe
		wantCode   int
		wantRedis  string
		wantStatus string
	}{
		{"all up", ok, ok, http.StatusOK, "ok", "ok"},
		{"redis disabled", ok, nil, http.StatusOK, "disabled", "ok"},
		{"postgres down", down, nil, http.StatusServiceUnavailable, "disabled", "degraded"},
		{"redis down", ok, down, http.StatusServiceUnavailable, "unhealthy", "degraded"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &ReadinessHandler{}
			h.add("postgres", tc.postgres)
			h.add("redis", tc.redis)
			h.add("mongodb", nil)

			c, rec := newContext(http.MethodGet, "/health/ready", "")
			if err := h.Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}

			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Status != tc.wantStatus || resp.Dependencies["redis"].Status != tc.wantRedis {
				t.Fatalf("unexpected response: %+v", resp)
			}
			if resp.Dependencies["mongodb"].Status != "disabled" {
				t.Fatalf("mongodb should be disabled: %+v", resp.Dependencies)
			}
		})
	}
}
