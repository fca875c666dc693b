package endpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/memoscribe/component"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func checker(statuses ...component.HealthStatus) HealthChecker {
	return func(context.Context) []component.Health {
		out := make([]component.Health, len(statuses))
		for i, s := range statuses {
			out[i] = component.Health{Name: string(s) + "-component", Status: s}
		}
		return out
	}
}

func serve(t *testing.T, path string, h gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	r := gin.New()
	r.GET(path, h)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return rr, body
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		checker    HealthChecker
		wantCode   int
		wantStatus string
	}{
		{"no checker", nil, http.StatusOK, "healthy"},
		{"all healthy", checker(component.StatusHealthy, component.StatusHealthy), http.StatusOK, "healthy"},
		{"loading model", checker(component.StatusHealthy, component.StatusDegraded), http.StatusOK, "degraded"},
		{"failed model", checker(component.StatusDegraded, component.StatusUnhealthy), http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr, body := serve(t, "/health", Health("memoscribe", tc.checker))
			if rr.Code != tc.wantCode {
				t.Errorf("expected %d, got %d", tc.wantCode, rr.Code)
			}
			if body["status"] != tc.wantStatus {
				t.Errorf("expected status %q, got %v", tc.wantStatus, body["status"])
			}
			if body["service"] != "memoscribe" {
				t.Errorf("unexpected service %v", body["service"])
			}
		})
	}
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name     string
		checker  HealthChecker
		wantCode int
	}{
		{"all healthy", checker(component.StatusHealthy), http.StatusOK},
		{"model loading", checker(component.StatusHealthy, component.StatusDegraded), http.StatusServiceUnavailable},
		{"model failed", checker(component.StatusUnhealthy), http.StatusServiceUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr, body := serve(t, "/ready", Readiness("memoscribe", tc.checker))
			if rr.Code != tc.wantCode {
				t.Errorf("expected %d, got %d", tc.wantCode, rr.Code)
			}
			if tc.wantCode != http.StatusOK && body["waiting_on"] == nil {
				t.Error("expected waiting_on to list components")
			}
		})
	}
}

func TestLiveness(t *testing.T) {
	rr, body := serve(t, "/alive", Liveness("memoscribe"))
	if rr.Code != http.StatusOK || body["status"] != "alive" {
		t.Errorf("unexpected response %d %v", rr.Code, body)
	}
}

func TestInfo(t *testing.T) {
	info := ServiceInfo{Name: "memoscribe", Title: "Voice Memo Transcriber", Version: "1.2.0", Environment: "test"}
	rr, body := serve(t, "/info", Info(info))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if body["version"] != "1.2.0" || body["title"] != "Voice Memo Transcriber" {
		t.Errorf("unexpected body %v", body)
	}

	_, body = serve(t, "/info", Info(ServiceInfo{Name: "memoscribe"}))
	if body["version"] == "" {
		t.Error("expected the build version when none is configured")
	}
}
