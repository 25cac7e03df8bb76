package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler handles GET /health, the liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// probe checks one dependency. A nil probe marks the dependency as disabled.
type probe func(ctx context.Context) error

// ReadinessHandler handles GET /health/ready. Postgres is mandatory; Redis and
// MongoDB are optional and reported as "disabled" when not configured.
type ReadinessHandler struct {
	names  []string
	probes map[string]probe
}

func NewReadinessHandler(db *sqlx.DB, rdb *redis.Client, mdb *mongo.Database) *ReadinessHandler {
	h := &ReadinessHandler{}
	h.add("postgres", func(ctx context.Context) error { return db.PingContext(ctx) })

	var redisProbe probe
	if rdb != nil {
		redisProbe = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	h.add("redis", redisProbe)

	var mongoProbe probe
	if mdb != nil {
		mongoProbe = func(ctx context.Context) error {
			return mdb.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
		}
	}
	h.add("mongodb", mongoProbe)
	return h
}

func (h *ReadinessHandler) add(name string, p probe) {
	if h.probes == nil {
		h.probes = make(map[string]probe)
	}
	h.names = append(h.names, name)
	h.probes[name] = p
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness reports 503 when any configured dependency fails its ping.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.names))
	healthy := true

	for _, name := range h.names {
		p := h.probes[name]
		if p == nil {
			deps[name] = dependencyStatus{Status: "disabled"}
			continue
		}
		if err := p(ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
