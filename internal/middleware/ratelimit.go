package middleware

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/hypd/shortlink/internal/handlers"
	"github.com/hypd/shortlink/internal/ratelimit"
	"go.uber.org/zap"
)

// RejectionMessage is the uniform body returned when a client is limited.
const RejectionMessage = "Too many requests from this IP, please try again later."

// apiPrefix scopes rate limiting to the API routes; the redirect route and
// health endpoint stay exempt.
const apiPrefix = "/api/"

// RateLimiter returns a middleware that applies the fixed-window limit to
// every /api/* operation, keyed by client IP.
func RateLimiter(api huma.API, limiter *ratelimit.FixedWindowLimiter, logger *zap.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()
		if op == nil || !strings.HasPrefix(op.Path, apiPrefix) {
			next(ctx)

			return
		}

		key := handlers.RequestMetaFromContext(ctx.Context()).ClientIP
		if key == "" {
			key = clientIP(ctx)
		}

		allowed, err := limiter.Allow(ctx.Context(), key)
		if err != nil {
			logger.Error("rate limit check failed",
				zap.String("path", op.Path),
				zap.Error(err),
			)
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "Internal server error", err)

			return
		}

		if !allowed {
			logger.Warn("rate limit exceeded",
				zap.String("path", op.Path),
				zap.String("method", ctx.Method()),
				zap.String("clientIp", key),
			)
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, RejectionMessage)

			return
		}

		next(ctx)
	}
}
