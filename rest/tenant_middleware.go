package rest

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/MrEthical07/goBasket/tenant"
)

const (
	// TenantSlugHeader overrides host-based tenant detection.
	TenantSlugHeader = "X-Tenant-Slug"
	// TenantIDHeader optionally pins a tenant UUID; requests with an
	// unknown UUID are rejected.
	TenantIDHeader = "X-Tenant-ID"

	// TenantIDContextKey is where the middleware stores the resolved
	// tenant UUID on the echo context.
	TenantIDContextKey = "tenant_id"
)

// TenantMiddleware gates requests on tenant identity. The tenant slug comes
// from the X-Tenant-Slug header, falling back to the first label of the Host.
// Unknown tenants get 404; a database outage gets 503.
func TenantMiddleware(resolver *tenant.Resolver, logger *slog.Logger) echo.MiddlewareFunc {
	log := logger.With("component", "tenant_middleware")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			if raw := c.Request().Header.Get(TenantIDHeader); raw != "" {
				id, err := uuid.Parse(raw)
				if err != nil {
					return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid tenant id"})
				}
				exists, err := resolver.ConfirmTenantExists(ctx, id)
				if err != nil {
					if errors.Is(err, tenant.ErrDatabaseUnavailable) {
						return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "service unavailable"})
					}
					log.Error("tenant confirmation failed", "error", err)
					return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
				}
				if !exists {
					return c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown tenant"})
				}
				c.Set(TenantIDContextKey, id)
				return next(c)
			}

			slug := c.Request().Header.Get(TenantSlugHeader)
			if slug == "" {
				slug = hostSlug(c.Request().Host)
			}
			if slug == "" {
				return c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown tenant"})
			}

			id, err := resolver.ResolveIDBySlug(ctx, slug)
			if err != nil {
				if errors.Is(err, tenant.ErrDatabaseUnavailable) {
					return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "service unavailable"})
				}
				log.Error("tenant resolution failed", "error", err)
				return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
			}
			if id == nil {
				return c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown tenant"})
			}

			c.Set(TenantIDContextKey, *id)
			return next(c)
		}
	}
}

// TenantID returns the tenant UUID stored by [TenantMiddleware], or false if
// the request did not pass through it.
func TenantID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(TenantIDContextKey).(uuid.UUID)
	return id, ok
}

// hostSlug extracts the first DNS label from a Host header. IPs and bare
// hostnames have no subdomain to use as a slug.
func hostSlug(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if net.ParseIP(host) != nil {
		return ""
	}
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[0]
}
