package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sitterhub/marketplace/internal/api/handler"
	"github.com/sitterhub/marketplace/internal/api/middleware"
	"github.com/sitterhub/marketplace/internal/core/domain"
	"github.com/sitterhub/marketplace/internal/core/ports"
)

const defaultBodyLimit = "1M"

// Dependencies is everything the router needs. Services are built by the caller.
type Dependencies struct {
	Log    zerolog.Logger
	Tokens middleware.TokenVerifier

	Auth     ports.AuthService
	Accounts ports.AccountService
	Bookings ports.BookingService
	Admin    ports.AdminService

	// Readiness backs /health/ready. Nil leaves only the liveness probe.
	Readiness *handler.ReadinessHandler

	CORSOrigins []string
	BodyLimit   string

	// Metrics receives the HTTP metrics and backs /metrics. Nil uses the
	// default Prometheus registry, where the domain metrics live.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	if len(d.CORSOrigins) > 0 {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins: d.CORSOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}
	bodyLimit := d.BodyLimit
	if bodyLimit == "" {
		bodyLimit = defaultBodyLimit
	}
	e.Use(echomiddleware.BodyLimit(bodyLimit))

	metricsCfg := echoprometheus.MiddlewareConfig{
		Subsystem: "http",
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/health") || strings.HasPrefix(p, "/swagger")
		},
	}
	metricsHandler := echoprometheus.NewHandler()
	if d.Metrics != nil {
		metricsCfg.Registerer = d.Metrics
		metricsHandler = echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Metrics})
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(metricsCfg))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	babysitterHandler := handler.NewBabysitterHandler(d.Accounts, d.Bookings)
	bookingHandler := handler.NewBookingHandler(d.Bookings)
	profileHandler := handler.NewProfileHandler(d.Accounts)
	adminHandler := handler.NewAdminHandler(d.Admin, d.Bookings)

	auth := middleware.Auth(d.Tokens)
	clientOnly := []echo.MiddlewareFunc{auth, middleware.RBAC(domain.RoleClient)}
	babysitterOnly := []echo.MiddlewareFunc{auth, middleware.RBAC(domain.RoleBabysitter)}
	adminOnly := []echo.MiddlewareFunc{auth, middleware.RBAC(domain.RoleAdmin)}

	api := e.Group("/api")

	// --- Clients ---
	api.POST("/users/register", authHandler.RegisterClient)
	api.POST("/users/login", authHandler.LoginClient)
	api.GET("/users/profile", profileHandler.Get, clientOnly...)
	api.PUT("/users/profile", profileHandler.UpdateClient, clientOnly...)
	api.DELETE("/users/profile", profileHandler.Delete, clientOnly...)

	// --- Babysitters ---
	api.POST("/babysitters/register", authHandler.RegisterBabysitter)
	api.POST("/babysitters/login", authHandler.LoginBabysitter)
	api.GET("/babysitters", babysitterHandler.Search)
	api.GET("/babysitters/profile", profileHandler.Get, babysitterOnly...)
	api.PUT("/babysitters/profile", profileHandler.UpdateBabysitter, babysitterOnly...)
	api.DELETE("/babysitters/profile", profileHandler.Delete, babysitterOnly...)
	api.GET("/babysitters/:id", babysitterHandler.Get)
	api.GET("/babysitters/:id/bookings", babysitterHandler.Bookings,
		auth, middleware.RBAC(domain.RoleBabysitter, domain.RoleAdmin))

	// --- Bookings ---
	// :id is the client account id on GET and the booking id on PUT.
	api.POST("/bookings", bookingHandler.Create, clientOnly...)
	api.GET("/bookings/:id", bookingHandler.ListByClient,
		auth, middleware.RBAC(domain.RoleClient, domain.RoleAdmin))
	api.PUT("/bookings/:id/status", bookingHandler.UpdateStatus,
		auth, middleware.RBAC(domain.RoleBabysitter, domain.RoleAdmin))

	// --- Admin ---
	api.POST("/admin/login", authHandler.LoginAdmin)
	api.GET("/admin/summary", adminHandler.Summary, adminOnly...)
	api.GET("/admin/bookings", adminHandler.ListBookings, adminOnly...)
	api.GET("/admin/bookings/:id/history", adminHandler.History, adminOnly...)

	// --- Health probes, metrics and docs (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	if d.Readiness != nil {
		e.GET("/health/ready", d.Readiness.Readiness)
	}
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
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
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
