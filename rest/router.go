// Package rest exposes the engine over HTTP using echo. It owns request
// validation, cookie handling, tenant gating, and the mapping from engine
// sentinel errors to status codes.
package rest

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	goBasket "github.com/MrEthical07/goBasket"
)

// RouterConfig carries the optional pieces of the HTTP surface.
type RouterConfig struct {
	// MetricsHandler, when set, is mounted at /metrics outside the tenant
	// gate.
	MetricsHandler http.Handler

	// TenantGate, when true, wraps the auth endpoints in
	// [TenantMiddleware].
	TenantGate bool
}

// NewRouter builds the echo instance with all routes mounted.
func NewRouter(engine *goBasket.Engine, logger *slog.Logger, cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewRequestValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	handler := NewAuthHandler(engine, logger)

	e.GET("/v1/health", handler.Health)
	if cfg.MetricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(cfg.MetricsHandler))
	}

	auth := e.Group("/v1/auth")
	if cfg.TenantGate {
		auth.Use(TenantMiddleware(engine.Tenants(), logger))
	}
	auth.POST("/login", handler.Login)
	auth.POST("/register", handler.Register)
	auth.POST("/logout", handler.Logout)
	auth.GET("/me", handler.Me)

	return e
}
