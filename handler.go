package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Handler holds shared dependencies (stores, generators, limiter) for all route handlers.
type Handler struct {
	users     userStore
	profiles  profileStore
	plans     *planGenerator
	preview   *previewGenerator
	limiter   *rateLimiter
	jwtSecret []byte
}

// newHandler wires the PostgreSQL store into every component. rdb is
// optional; when present it holds the rate-limit counters instead of Postgres.
func newHandler(cfg *config, pool *pgxpool.Pool, rdb *redis.Client) *Handler {
	store := &pgStore{pool: pool}

	var counters counterStore = store
	if rdb != nil {
		counters = &redisCounterStore{client: rdb}
	}

	return &Handler{
		users:     store,
		profiles:  store,
		plans:     newPlanGenerator(store, store, store),
		preview:   newPreviewGenerator(newOpenAIContentGenerator(cfg.AI), cfg.AI.Timeout),
		limiter:   newRateLimiter(counters, cfg.RateLimit),
		jwtSecret: []byte(cfg.JWTSecret),
	}
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn) because
// the hosted database closes idle connections after a few minutes.
func getDBPool(dbURL string) *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from server-side prepared statement caches after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("DB pool ready!")
	return pool
}

// getRedisClient connects to REDIS_URL. Returns nil when it is unset.
func getRedisClient(redisURL string) *redis.Client {
	if redisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse REDIS_URL: %v\n", err)
		os.Exit(1)
	}
	opts.MinIdleConns = 2
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to redis: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Redis ready!")
	return rdb
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "time": time.Now().UTC()})
	})

	// Public routes
	router.POST("/api/login", h.login)
	router.POST("/api/preview-plan", h.generatePreviewPlan)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.POST("/plans/generate", h.generateDailyPlan)
	api.GET("/plans/today", h.getTodayPlan)
	api.PATCH("/plans/today/completion", h.patchTodayCompletion)
	api.GET("/dashboard", h.getDashboard)
	api.GET("/profile", h.getProfile)
	api.PATCH("/profile", h.patchProfile)
	api.POST("/onboarding/advance", h.advanceOnboarding)
	api.POST("/onboarding/complete", h.completeOnboarding)
}
