package api

import (
	"context"
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/cursomc/commerce-api/internal/api/docs"
	"github.com/cursomc/commerce-api/internal/api/handler"
	"github.com/cursomc/commerce-api/internal/api/middleware"
	"github.com/cursomc/commerce-api/internal/core/domain"
	"github.com/cursomc/commerce-api/internal/core/ports"
)

// multipartOverhead is the slack allowed on top of the file size for the
// multipart envelope.
const multipartOverhead = 64 << 10

const uploadScope = "picture_upload"

// Dependencies groups everything the router needs. UploadLimiter may be nil
// to run without rate limiting; Registerer and Gatherer default to the
// Prometheus globals.
type Dependencies struct {
	AuthService     ports.AuthService
	CustomerService ports.CustomerService
	UploadLimiter   middleware.RateLimiter
	HealthChecks    map[string]func(context.Context) error

	JWTSecret      string
	MaxUploadBytes int64

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = handler.DefaultMaxUploadBytes
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "commerce",
		Subsystem:  "http",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.Auth(deps.JWTSecret))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	customerHandler := handler.NewCustomerHandler(deps.CustomerService, deps.MaxUploadBytes)
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh_token", authHandler.Refresh)

	// --- Customer routes ---
	// Ownership rules are enforced by the service; RBAC only short-circuits
	// admin-only listings and deletes.
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	clientes := e.Group("/clientes")
	clientes.POST("", customerHandler.Insert)
	clientes.GET("", customerHandler.List, adminOnly)
	clientes.GET("/page", customerHandler.Page, adminOnly)
	clientes.GET("/email", customerHandler.FindByEmail)
	clientes.GET("/:id", customerHandler.Find)
	clientes.PUT("/:id", customerHandler.Update)
	clientes.DELETE("/:id", customerHandler.Delete, adminOnly)
	clientes.POST("/picture", customerHandler.UploadPicture,
		echomiddleware.BodyLimit(fmt.Sprintf("%dK", (deps.MaxUploadBytes+multipartOverhead)/1024)),
		middleware.RateLimit(deps.UploadLimiter, uploadScope),
	)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	// --- Observability ---
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
