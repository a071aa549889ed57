package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func up(context.Context) error   { return nil }
func down(context.Context) error { return errors.New("connection refused") }

func TestHealthHandler_Readiness(t *testing.T) {
	cases := []struct {
		name          string
		remote, local Pinger
		wantCode      int
		wantStatus    string
	}{
		{"all up", up, up, http.StatusOK, "ok"},
		{"remote down", down, up, http.StatusOK, "degraded"},
		{"local down", up, down, http.StatusServiceUnavailable, "unavailable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler("mongo", tc.remote, tc.local)
			rec := serve(newTestEcho(), h.Readiness, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			resp := decodeBody(t, rec)
			if resp["status"] != tc.wantStatus {
				t.Fatalf("expected %q, got %v", tc.wantStatus, resp["status"])
			}
			deps, _ := resp["dependencies"].(map[string]any)
			if _, ok := deps["mongo"]; !ok {
				t.Fatalf("backend missing from %v", deps)
			}
		})
	}
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler("supabase", down, down)
	rec := serve(newTestEcho(), h.Liveness, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
