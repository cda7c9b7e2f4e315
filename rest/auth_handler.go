package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	goBasket "github.com/MrEthical07/goBasket"
	"github.com/MrEthical07/goBasket/session"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_id"

// AuthHandler handles the authentication HTTP endpoints.
type AuthHandler struct {
	engine *goBasket.Engine
	logger *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(engine *goBasket.Engine, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		engine: engine,
		logger: logger.With("component", "auth_handler"),
	}
}

// Login handles POST /v1/auth/login. On success it sets the session cookie
// and returns the user.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	token, user, err := h.engine.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, goBasket.ErrInvalidCredentials),
			errors.Is(err, goBasket.ErrPasswordLoginUnsupported):
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
		case errors.Is(err, session.ErrCacheUnavailable):
			return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "service unavailable"})
		default:
			h.logger.Error("login failed", "error", err)
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		}
	}

	c.SetCookie(h.sessionCookie(token, int(h.engine.SessionTTL().Seconds())))

	return c.JSON(http.StatusOK, UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// Register handles POST /v1/auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	user, err := h.engine.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, goBasket.ErrAccountExists) {
			return c.JSON(http.StatusConflict, ErrorResponse{Error: "account already exists"})
		}
		h.logger.Error("registration failed", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	return c.JSON(http.StatusCreated, UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// Logout handles POST /v1/auth/logout. It succeeds whether or not a live
// session existed, and clears the cookie either way.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.engine.Logout(c.Request().Context(), cookie.Value); err != nil {
			h.logger.Error("logout failed", "error", err)
			return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "service unavailable"})
		}
	}

	expired := h.sessionCookie("", -1)
	c.SetCookie(expired)

	return c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// Me handles GET /v1/auth/me, resolving the session cookie to its session.
func (h *AuthHandler) Me(c echo.Context) error {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	}

	sess, err := h.engine.Session(c.Request().Context(), cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, goBasket.ErrUnauthenticated):
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
		case errors.Is(err, session.ErrCacheUnavailable):
			return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "service unavailable"})
		default:
			h.logger.Error("session lookup failed", "error", err)
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		}
	}

	// A session without a user id carries no identity to report.
	if sess.UserID == nil {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	}

	return c.JSON(http.StatusOK, MeResponse{
		UserID:    sess.UserID,
		UserEmail: sess.UserEmail,
		CreatedAt: sess.CreatedAt,
	})
}

// Health handles GET /v1/health.
func (h *AuthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "ok"})
}

func (h *AuthHandler) sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
