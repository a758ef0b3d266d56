package health

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
)

// Checker defines the interface for checking a dependency's health.
type Checker interface {
	Ping(ctx context.Context) error
}

// RedisChecker adapts a redis client to the Checker interface.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a redis health checker.
func NewRedisChecker(client *redis.Client) RedisChecker {
	return RedisChecker{client: client}
}

func (c RedisChecker) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Handler handles health check operations.
type Handler struct {
	postgres Checker
	redis    Checker // nil when rate limiting runs in-memory
}

// NewHandler creates a new health handler.
func NewHandler(postgres, redisChecker Checker) *Handler {
	return &Handler{postgres: postgres, redis: redisChecker}
}

// Response is the response for the health check endpoint.
type Response struct {
	Body struct {
		Status   string `json:"status"`
		Postgres string `json:"postgres"`
		Redis    string `json:"redis,omitempty"`
	}
}

// Check reports the health of the service and its dependencies.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = "ok"

	if err := h.postgres.Ping(ctx); err != nil {
		resp.Body.Postgres = "unhealthy"
		resp.Body.Status = "degraded"
	} else {
		resp.Body.Postgres = "healthy"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			resp.Body.Redis = "unhealthy"
			resp.Body.Status = "degraded"
		} else {
			resp.Body.Redis = "healthy"
		}
	}

	return resp, nil
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/health", h.Check)
}
