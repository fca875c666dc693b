package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/memoscribe/component"
	apperrors "github.com/kbukum/memoscribe/errors"
	"github.com/kbukum/memoscribe/logger"
	"github.com/kbukum/memoscribe/server/endpoint"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	cfg.Port = 0
	return New(cfg, logger.NewDefault("test"))
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Port != 8000 || cfg.MaxBodySize != "100MB" || cfg.StaticDir != "static" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.WriteTimeout != 10*time.Minute || cfg.ReadTimeout != time.Minute {
		t.Errorf("unexpected timeouts read=%v write=%v", cfg.ReadTimeout, cfg.WriteTimeout)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Errorf("expected allow-all CORS, got %v", cfg.CORS.AllowedOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"negative timeout", func(c *Config) { c.WriteTimeout = -1 }},
		{"negative rate limit", func(c *Config) { c.RateLimitPerMinute = -5 }},
		{"bad body size", func(c *Config) { c.MaxBodySize = "lots" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestServer_DefaultEndpointsThroughMiddleware(t *testing.T) {
	s := newTestServer(t)
	checker := func(context.Context) []component.Health {
		return []component.Health{{Name: "transcription-model", Status: component.StatusDegraded}}
	}
	s.ApplyDefaults(endpoint.ServiceInfo{Name: "memoscribe"}, checker)

	h := s.Handler()
	tests := []struct {
		path string
		want int
	}{
		{"/health", http.StatusOK},
		{"/ready", http.StatusServiceUnavailable},
		{"/alive", http.StatusOK},
		{"/info", http.StatusOK},
	}
	for _, tc := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, http.NoBody))
		if rr.Code != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.path, tc.want, rr.Code)
		}
		if rr.Header().Get("X-Request-Id") == "" {
			t.Errorf("%s: expected a request ID from server middleware", tc.path)
		}
	}
}

func TestServer_RecoversPanickingRoute(t *testing.T) {
	s := newTestServer(t)
	s.ApplyMiddleware()
	s.GinEngine().GET("/boom", func(*gin.Context) { panic("boom") })

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestServer_StartStop(t *testing.T) {
	s := newTestServer(t)
	s.GinEngine().GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	comp := NewComponent(s)

	if h := comp.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = comp.Stop(context.Background()) })

	if h := comp.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %s", h.Status)
	}

	resp, err := http.Get("http://" + s.Addr() + "/ping")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRespondWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"app error", apperrors.ExtractionFailed(), http.StatusBadRequest, "EXTRACTION_FAILED"},
		{"wrapped app error", errors.Join(errors.New("ctx"), apperrors.NotFound("Frontend not built")), http.StatusNotFound, "NOT_FOUND"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rr)
			RespondWithError(c, tc.err)

			if rr.Code != tc.wantCode {
				t.Errorf("expected %d, got %d", tc.wantCode, rr.Code)
			}
			var body apperrors.ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if string(body.Error.Code) != tc.wantBody {
				t.Errorf("expected code %s, got %s", tc.wantBody, body.Error.Code)
			}
		})
	}
}
