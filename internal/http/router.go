// Package httpapi wires the HTTP transport (Gin) to the command/query layer,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging, panic recovery, metrics, compression,
// CORS, security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-post-service/internal/blob"
	"github.com/tbourn/go-post-service/internal/cache"
	"github.com/tbourn/go-post-service/internal/config"
	"github.com/tbourn/go-post-service/internal/cqrs"
	"github.com/tbourn/go-post-service/internal/domain"
	"github.com/tbourn/go-post-service/internal/http/handlers"
	"github.com/tbourn/go-post-service/internal/http/middleware"
	"github.com/tbourn/go-post-service/internal/repo"
)

// postRepoShim adapts the repository free functions to the cqrs.PostStore
// interface expected by the command and query handlers. This keeps the cqrs
// package decoupled from the concrete repo package while reusing existing
// functions.
type postRepoShim struct{}

// FindPost proxies repo.FindPost.
func (postRepoShim) FindPost(ctx context.Context, db *gorm.DB, sid string) (*domain.Post, error) {
	return repo.FindPost(ctx, db, sid)
}

// InsertPost proxies repo.InsertPost.
func (postRepoShim) InsertPost(ctx context.Context, db *gorm.DB, p *domain.Post) error {
	return repo.InsertPost(ctx, db, p)
}

// SavePost proxies repo.SavePost.
func (postRepoShim) SavePost(ctx context.Context, db *gorm.DB, p *domain.Post) error {
	return repo.SavePost(ctx, db, p)
}

// CountPosts proxies repo.CountPosts.
func (postRepoShim) CountPosts(ctx context.Context, db *gorm.DB, search string) (int64, error) {
	return repo.CountPosts(ctx, db, search)
}

// ListPostsPage proxies repo.ListPostsPage.
func (postRepoShim) ListPostsPage(ctx context.Context, db *gorm.DB, search, sortColumn string, desc bool, offset, limit int) ([]domain.Post, error) {
	return repo.ListPostsPage(ctx, db, search, sortColumn, desc, offset, limit)
}

// NewDispatcher builds the command/query dispatcher with every handler
// registered exactly once. Registration failures are wiring bugs and panic at
// startup rather than surfacing per request.
func NewDispatcher(db *gorm.DB, store cqrs.PostStore, uploader cqrs.BlobUploader) *cqrs.Dispatcher {
	d := cqrs.NewDispatcher()
	cqrs.MustRegister(d, (&cqrs.CreatePostHandler{DB: db, Posts: store, Blob: uploader}).Handle)
	cqrs.MustRegister(d, (&cqrs.EditPostHandler{DB: db, Posts: store, Blob: uploader}).Handle)
	cqrs.MustRegister(d, (&cqrs.DeletePostHandler{DB: db, Posts: store}).Handle)
	cqrs.MustRegister(d, (&cqrs.GetPostByIDHandler{DB: db, Posts: store}).Handle)
	cqrs.MustRegister(d, (&cqrs.ListPostsHandler{DB: db, Posts: store}).Handle)
	return d
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting, CORS
// and security headers, health and metrics endpoints, and then mounts the
// versioned public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. gzip response compression
//  7. Metrics
//  8. Rate limiter (per client IP)
//  9. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (8 MiB: multipart uploads carry images)
	r.Use(limitBody(8 << 20))

	// 6) Response compression (skip the metrics scrape endpoint)
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Uploaded images. With the default BLOB_BASE_URL the image_url values
	// returned by the API resolve against this route; point BLOB_BASE_URL at a
	// CDN or external file server to serve blobs elsewhere.
	r.Static("/blobs", cfg.Blob.Dir)

	// Swagger UI (config-gated)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: dispatcher ← repo/db/blob, reader ← cache
	uploader := blob.NewDiskUploader(cfg.Blob.Dir, cfg.Blob.BaseURL)
	d := NewDispatcher(db, postRepoShim{}, uploader)
	reader := &cache.CachedPostReader{
		Cache:  cache.NewMemory(cfg.Cache.Capacity, cfg.Cache.Shards, cfg.Cache.TTL, cfg.Cache.EvictPercent),
		Sender: d,
	}
	h := handlers.New(d, reader, db, cfg.Blob.Container)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/v2"
	{
		api.GET("/posts", h.ListPosts)
		api.POST("/posts", h.CreatePost)
		api.GET("/posts/:sid", h.GetPost)
		api.PUT("/posts/:sid", h.UpdatePost)
		api.DELETE("/posts/:sid", h.DeletePost)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
