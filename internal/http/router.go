package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/employeehub/internal/auth"
	"github.com/geocoder89/employeehub/internal/config"
	"github.com/geocoder89/employeehub/internal/http/handlers"
	"github.com/geocoder89/employeehub/internal/http/middlewares"
	"github.com/geocoder89/employeehub/internal/observability"
	"github.com/geocoder89/employeehub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20 // requests here are small JSON documents

// Deps carries everything the router assembles. Tests swap the stores for
// the memory repos and leave the optional pieces nil.
type Deps struct {
	Log       *slog.Logger
	Cfg       config.Config
	Employees handlers.EmployeeStore
	Users     handlers.UserStore
	JWT       *auth.Manager
	Ping      func() error

	// optional
	AuthLimiter gin.HandlerFunc
	APILimiter  gin.HandlerFunc
	Metrics     *observability.Prom
	Registry    *prometheus.Registry
	Tracing     bool
}

// NewRouter is the production wiring: postgres repos over the pool, redis
// rate limiting when a client is supplied, prometheus always.
func NewRouter(log *slog.Logger, pool *pgxpool.Pool, rdb *redis.Client, cfg config.Config) *gin.Engine {
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewProm(registry)

	deps := Deps{
		Log:       log,
		Cfg:       cfg,
		Employees: postgres.NewEmployeesRepo(pool, metrics),
		Users:     postgres.NewUsersRepo(pool, metrics),
		JWT:       auth.NewManager(cfg.JWTSecret, cfg.AccessTTL()),
		Ping:      ping,
		Metrics:   metrics,
		Registry:  registry,
		Tracing:   cfg.OtelEndpoint != "",
	}

	// the auth endpoints limit anonymous callers by IP; the employee
	// endpoints limit by authenticated principal with an IP fallback.
	if rdb != nil {
		authLimiter := middlewares.NewRedisRateLimiter(rdb, cfg.AuthRateLimit, cfg.AuthRateWindow)
		apiLimiter := middlewares.NewRedisRateLimiter(rdb, cfg.APIRateLimit, cfg.APIRateWindow)
		deps.AuthLimiter = authLimiter.RateLimiterMiddleware(middlewares.KeyByIP)
		deps.APILimiter = apiLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP)
	} else {
		authLimiter := middlewares.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
		apiLimiter := middlewares.NewRateLimiter(cfg.APIRateLimit, cfg.APIRateWindow)
		deps.AuthLimiter = authLimiter.RateLimiterMiddleware(middlewares.KeyByIP)
		deps.APILimiter = apiLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP)
	}

	return NewRouterWith(deps)
}

func NewRouterWith(d Deps) *gin.Engine {
	if d.Cfg.Env != "dev" && d.Cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())

	if d.Metrics != nil {
		r.Use(d.Metrics.GinHandleMiddleware())
	}

	if d.Tracing {
		r.Use(otelgin.Middleware("employeehub"))
	}

	// health + metrics

	h := handlers.NewHealthHandler(d.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	// Wire up handlers

	employeesHandler := handlers.NewEmployeesHandler(d.Employees)
	authHandler := handlers.NewAuthHandler(d.Users, d.JWT)
	authMiddleware := middlewares.NewAuthMiddleware(d.JWT)

	v1 := r.Group("/api/v1")

	authRoutes := v1.Group("/auth")

	if d.AuthLimiter != nil {
		authRoutes.Use(d.AuthLimiter)
	}

	authRoutes.POST("/generateAVeryInsecureToken_pleasedontusethisever", authHandler.GenerateToken)
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)

	// every employee route is Admin-gated

	employeeRoutes := v1.Group("/employees", authMiddleware.RequireAuth(), authMiddleware.RequireRole("Admin"))

	// after auth so the limiter keys on the principal, not the IP
	if d.APILimiter != nil {
		employeeRoutes.Use(d.APILimiter)
	}

	employeeRoutes.GET("", employeesHandler.ListEmployees)
	employeeRoutes.POST("", employeesHandler.CreateEmployee)
	employeeRoutes.GET("/:id", employeesHandler.GetEmployeeById)
	employeeRoutes.PUT("/:id", employeesHandler.UpdateEmployee)
	employeeRoutes.DELETE("/:id", employeesHandler.DeleteEmployee)
	employeeRoutes.GET("/:id/benefits", employeesHandler.GetBenefitsForEmployee)

	return r
}
