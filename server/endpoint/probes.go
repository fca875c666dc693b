package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/memoscribe/component"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// ProbeResponse is the body of /health, /ready and /alive.
type ProbeResponse struct {
	Status     string             `json:"status"`
	Service    string             `json:"service"`
	Timestamp  string             `json:"timestamp"`
	Components []component.Health `json:"components,omitempty"`
	WaitingOn  []string           `json:"waiting_on,omitempty"`
}

func probe(service, status string) ProbeResponse {
	return ProbeResponse{
		Status:    status,
		Service:   service,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func check(ctx context.Context, checker HealthChecker) []component.Health {
	if checker == nil {
		return nil
	}
	return checker(ctx)
}

// rollup returns the worst status in hs.
func rollup(hs []component.Health) component.HealthStatus {
	worst := component.StatusHealthy
	for _, h := range hs {
		switch h.Status {
		case component.StatusUnhealthy:
			return component.StatusUnhealthy
		case component.StatusDegraded:
			worst = component.StatusDegraded
		}
	}
	return worst
}

// Health reports every component. A loading model is "degraded" and still
// answers 200; only an unhealthy component turns it into a 503.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		hs := check(c.Request.Context(), checker)
		status := rollup(hs)

		resp := probe(serviceName, string(status))
		resp.Components = hs

		code := http.StatusOK
		if status == component.StatusUnhealthy {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, resp)
	}
}

// Readiness answers 200 only when every component is healthy, so traffic is
// held back until the model has loaded.
func Readiness(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var waiting []string
		for _, h := range check(c.Request.Context(), checker) {
			if h.Status != component.StatusHealthy {
				waiting = append(waiting, h.Name)
			}
		}
		if len(waiting) == 0 {
			c.JSON(http.StatusOK, probe(serviceName, "ready"))
			return
		}
		resp := probe(serviceName, "not_ready")
		resp.WaitingOn = waiting
		c.JSON(http.StatusServiceUnavailable, resp)
	}
}

// Liveness only confirms the process serves HTTP.
func Liveness(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, probe(serviceName, "alive"))
	}
}
