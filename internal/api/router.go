package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/linkvault/linkvault/docs"
	"github.com/linkvault/linkvault/internal/api/handler"
	"github.com/linkvault/linkvault/internal/api/middleware"
	"github.com/linkvault/linkvault/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Auth       ports.AuthService
	Collection ports.CollectionService

	// Health maps a dependency name to its ping for /health/ready.
	Health map[string]func(context.Context) error

	CORSOrigins []string
	Log         zerolog.Logger

	// Metrics receives the HTTP metrics and backs /metrics. Nil means the
	// Prometheus default registry.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	promCfg := echoprometheus.MiddlewareConfig{Subsystem: "linkvault"}
	metricsHandler := echoprometheus.NewHandler()
	if d.Metrics != nil {
		promCfg.Registerer = d.Metrics
		metricsHandler = echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Metrics})
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promCfg))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	profileHandler := handler.NewProfileHandler(d.Auth)
	sectionHandler := handler.NewSectionHandler(d.Collection)
	linkHandler := handler.NewLinkHandler(d.Collection)
	healthHandler := handler.NewHealthHandler(d.Health)

	// --- Public routes ---
	e.POST("/signup", authHandler.Register)
	e.POST("/api/signup", authHandler.Register)
	e.POST("/api/login", authHandler.Login)

	// --- Authenticated routes ---
	api := e.Group("/api", middleware.Auth(d.Auth))
	api.GET("/profile", profileHandler.Get)
	api.PUT("/update-profile", profileHandler.Update)

	api.GET("/sections", sectionHandler.List)
	api.POST("/add-section", sectionHandler.Add)
	api.PUT("/update-section/:sectionId", sectionHandler.Rename)
	api.DELETE("/delete-section/:sectionId", sectionHandler.Delete)

	api.POST("/add-link", linkHandler.Add)
	api.PUT("/update-link/:linkId", linkHandler.Update)
	api.DELETE("/delete-link/:linkId", linkHandler.Delete)
	api.GET("/search", linkHandler.Search)

	// --- Operations (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", metricsHandler)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
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
			if v.Status >= 500 {
				ev = log.Error()
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
