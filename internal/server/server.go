// Package server exposes the dashboard views and the data layer over HTTP and
// WebSocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialpulse/internal/api"
	"socialpulse/internal/bootstrap"
	"socialpulse/internal/cache"
	"socialpulse/internal/config"
	"socialpulse/internal/featureflags"
	"socialpulse/internal/middleware"
	"socialpulse/internal/models"
	"socialpulse/internal/notifications"
	"socialpulse/internal/observability"
	"socialpulse/internal/view"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
)

const (
	serviceName    = "socialpulse"
	serviceVersion = "1.0.0"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	rt             *bootstrap.Runtime
	redis          *redis.Client
	cache          *cache.Cache
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	limiter        *middleware.RateLimiter
	notifier       *notifications.Notifier
	hub            *notifications.Hub
	featureFlags   *featureflags.Manager
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	unsubscribe    func()
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	rt, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		return nil, fmt.Errorf("runtime initialization failed: %w", err)
	}
	return NewServerWithRuntime(rt), nil
}

// NewServerWithRuntime creates a Server from an already-initialized runtime.
// Use this in tests or when the caller owns Redis and the data access client.
func NewServerWithRuntime(rt *bootstrap.Runtime) *Server {
	s := &Server{
		config:         rt.Config,
		rt:             rt,
		redis:          rt.Redis,
		cache:          rt.Cache,
		promMiddleware: middleware.InitMetrics(serviceName),
		limiter:        middleware.NewRateLimiter(rt.Redis, rt.Config.Env),
		notifier:       notifications.NewNotifier(rt.Redis),
		hub:            notifications.NewHub(),
		featureFlags:   rt.Flags,
	}

	// Every applied feed refresh is pushed to the clients of this instance.
	s.unsubscribe = rt.Feed.Subscribe(func(snap view.FeedSnapshot) {
		e, err := notifications.NewEvent(notifications.EventFeedSnapshot, snap)
		if err != nil {
			observability.GlobalLogger.Error("failed to encode feed snapshot", "error", err)
			return
		}
		_ = s.hub.BroadcastEvent(e)
	})

	return s
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	// Tracing runs before ContextMiddleware so the trace id reaches the logger.
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so that rejected browser requests still
	// carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		MaxAge:       86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
				Code:  "RATE_LIMITED",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	group := app.Group("/api")
	group.Get("/", s.ReadinessCheck)

	group.Get("/feed", s.GetFeed)
	group.Post("/feed/refresh", s.RefreshFeed)

	topUsers := group.Group("/top-users")
	topUsers.Get("/", s.GetTopUsers)
	topUsers.Post("/:id/toggle", s.ToggleTopUser)

	// Specific routes before the /:id ones.
	trending := group.Group("/trending")
	trending.Get("/", s.GetTrending)
	trending.Put("/draft", s.SetCommentDraft)
	trending.Post("/:id/toggle", s.ToggleComments)
	trending.Post("/:id/comments", s.limiter.Handler(
		api.OpAddComment, s.config.CommentRateLimit, s.config.CommentRateWindow(), middleware.FailOpen), s.AddComment)

	group.Post("/posts", s.limiter.Handler(
		api.OpCreatePost, 10, time.Minute, middleware.FailOpen), s.CreatePost)

	data := group.Group("/data")
	data.Get("/users/top", s.GetTopUsersData)
	data.Get("/users/:id/posts", s.GetUserPostsData)
	data.Get("/posts/trending", s.GetTrendingPostsData)
	data.Get("/posts/latest", s.GetLatestPostsData)

	group.Get("/feature-flags", s.GetFeatureFlags)
	group.Get("/ws/feed", s.WebSocketFeedHandler())
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: a
// missing client is reported as disabled, an unreachable one fails the probe.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	redisStatus := "disabled"
	if s.cache.Enabled() {
		redisStatus = "healthy"
		if err := s.cache.Ping(ctx); err != nil {
			redisStatus = "unhealthy"
		}
	}

	tokenStatus := "valid"
	switch {
	case s.config.APIToken == "":
		tokenStatus = "missing"
	case api.TokenExpired(s.config.APIToken, time.Now()):
		tokenStatus = "expired"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"version": serviceVersion,
		"status":  overallStatus,
		"checks": fiber.Map{
			"redis":     redisStatus,
			"api_token": tokenStatus,
		},
		"feed_subscribers": s.hub.Len(),
		"time":             time.Now(),
	})
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	observability.GlobalLogger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// App builds the Fiber app with middleware and routes.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "SocialPulse Dashboard",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start wires the live feed, starts the poller and serves until the app is
// shut down.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.App()

	if s.notifier.Enabled() {
		if err := s.hub.StartWiring(ctx, s.notifier); err != nil {
			observability.GlobalLogger.Error("failed to start feed hub wiring", "error", err)
		}
	}

	if s.featureFlags.Enabled(featureflags.LiveFeed, 0) {
		if err := s.rt.Feed.Start(ctx); err != nil {
			return fmt.Errorf("start feed poller: %w", err)
		}
	}

	observability.GlobalLogger.Info("server starting", "port", s.config.Port, "env", s.config.Env)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger := observability.GlobalLogger

	if s.shutdownFn != nil {
		s.shutdownFn()
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		logger.Error("error shutting down feed hub", "error", err)
	}

	if err := s.rt.Close(); err != nil {
		logger.Error("error closing runtime", "error", err)
	}

	logger.Info("server shutdown complete")
	return nil
}
