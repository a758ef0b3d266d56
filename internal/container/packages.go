package container

import (
	"context"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/hypd/shortlink/internal/catalog"
	"github.com/hypd/shortlink/internal/database"
	"github.com/hypd/shortlink/internal/handlers"
	"github.com/hypd/shortlink/internal/health"
	"github.com/hypd/shortlink/internal/middleware"
	"github.com/hypd/shortlink/internal/ratelimit"
	"github.com/hypd/shortlink/internal/shortener"
	"github.com/hypd/shortlink/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// Fixed-window policy applied to every /api/* route.
const (
	apiRequestLimit  = 100
	apiRequestWindow = 15 * time.Minute
)

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.LogFormat == "console" {
			return zap.NewDevelopment()
		}

		return zap.NewProduction()
	})
}

// PostgresPackage provides the database handle, applying migrations on first
// use. The handle is closed through injector shutdown.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*database.Postgres, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return database.New(context.Background(), opts.DatabaseURL, logger)
	})
}

// RedisPackage provides the redis client, or nil when no address is
// configured; consumers fall back to in-memory counterparts.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.RedisAddr == "" {
			return nil, nil
		}

		return redis.NewClient(&redis.Options{Addr: opts.RedisAddr}), nil
	})
}

// RepositoryPackage provides the mapping repository over Postgres.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		pg := do.MustInvoke[*database.Postgres](i)

		return store.NewPostgresStore(pg.Pool), nil
	})
}

// CatalogPackage provides the product metadata resolver.
func CatalogPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (catalog.Resolver, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return catalog.NewClient(opts.CatalogURL, opts.VendorDomain, logger), nil
	})
}

// ShortenerPackage provides the shortening service.
func ShortenerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		repo := do.MustInvoke[shortener.Repository](i)
		resolver := do.MustInvoke[catalog.Resolver](i)

		generate, err := shortener.NewGenerator(opts.CodeLength)
		if err != nil {
			return nil, fmt.Errorf("create code generator: %w", err)
		}

		return shortener.NewService(repo, resolver, generate, logger), nil
	})
}

// RateLimitPackage provides the fixed-window limiter, Redis-backed when a
// Redis address is configured.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ratelimit.FixedWindowLimiter, error) {
		client := do.MustInvoke[*redis.Client](i)

		var st ratelimit.Store
		if client != nil {
			st = store.NewRateLimitRedisStore(client)
		} else {
			st = store.NewRateLimitMemoryStore()
		}

		return ratelimit.NewFixedWindowLimiter(st, apiRequestLimit, apiRequestWindow), nil
	})
}

// HTTPPackage provides the router and the API with all routes registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)
		limiter := do.MustInvoke[*ratelimit.FixedWindowLimiter](i)
		svc := do.MustInvoke[*shortener.Service](i)
		pg := do.MustInvoke[*database.Postgres](i)
		redisClient := do.MustInvoke[*redis.Client](i)

		// Every error huma writes uses the flat {"error": ...} model.
		huma.NewError = handlers.NewError

		api := humachi.New(router, huma.DefaultConfig("HYPD Link Shortener", "1.0.0"))
		api.UseMiddleware(
			middleware.RequestMeta(api),
			middleware.RateLimiter(api, limiter, logger),
		)

		baseURL := opts.BaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("http://localhost:%d", opts.Port)
		}

		urls := handlers.NewURLHandler(svc, baseURL, opts.VendorDomain, logger)
		images := handlers.NewImageProxyHandler(logger)
		handlers.RegisterRoutes(api, urls, images)

		var redisChecker health.Checker
		if redisClient != nil {
			redisChecker = health.NewRedisChecker(redisClient)
		}

		health.RegisterRoutes(api, health.NewHandler(pg, redisChecker))

		return api, nil
	})
}
