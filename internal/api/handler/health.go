package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const readinessTimeout = 3 * time.Second

// HealthHandler handles GET /health: liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Index lists the top-level route groups.
func (h *HealthHandler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "routes: auth, users, cats"})
}

// ReadinessHandler handles GET /health/ready: readiness probe.
// MongoDB is required. Redis is optional: when it is configured but down
// the service still serves, so it is reported as degraded, not unready.
type ReadinessHandler struct {
	mongo   *mongo.Database
	redis   *redis.Client
	breaker BreakerReporter
}

// BreakerReporter exposes the state of the circuit breaker in front of the
// cache.
type BreakerReporter interface {
	State() gobreaker.State
}

// NewReadinessHandler accepts a nil rdb and breaker when the cache is
// disabled.
func NewReadinessHandler(db *mongo.Database, rdb *redis.Client, breaker BreakerReporter) *ReadinessHandler {
	return &ReadinessHandler{mongo: db, redis: rdb, breaker: breaker}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, 2)
	ready, degraded := true, false

	switch {
	case h.mongo == nil:
		deps["mongodb"] = dependencyStatus{Status: "unhealthy", Error: "not configured"}
		ready = false
	default:
		if err := h.mongo.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
			deps["mongodb"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			ready = false
		} else {
			deps["mongodb"] = dependencyStatus{Status: "ok"}
		}
	}

	switch {
	case h.redis == nil:
		deps["redis"] = dependencyStatus{Status: "disabled"}
	default:
		if err := h.redis.Ping(ctx).Err(); err != nil {
			deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			degraded = true
		} else if h.breaker != nil && h.breaker.State() != gobreaker.StateClosed {
			// Reachable again, but lookups bypass the cache until the breaker closes.
			deps["redis"] = dependencyStatus{Status: "degraded", Error: "circuit " + h.breaker.State().String()}
			degraded = true
		} else {
			deps["redis"] = dependencyStatus{Status: "ok"}
		}
	}

	status, code := "ok", http.StatusOK
	switch {
	case !ready:
		status, code = "unavailable", http.StatusServiceUnavailable
	case degraded:
		status = "degraded"
	}

	return c.JSON(code, readinessResponse{Status: status, Dependencies: deps})
}
