package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/agency-admin/internal/api/dto"
	"github.com/spec-kit/agency-admin/internal/auth"
	"github.com/spec-kit/agency-admin/internal/service"
)

// SessionHandler exposes login/logout endpoints.
type SessionHandler struct {
	sessions *service.SessionService
	secure   bool
}

// NewSessionHandler constructs handler. secure controls the cookie flag
// and should be on outside development.
func NewSessionHandler(sessions *service.SessionService, secure bool) *SessionHandler {
	return &SessionHandler{sessions: sessions, secure: secure}
}

// Login handles POST /auth/login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	principal, token, exp, err := h.sessions.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieAuthToken,
		Value:    token,
		Expires:  exp,
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieUserRole,
		Value:    string(principal.Role),
		Expires:  exp,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"principal": fiber.Map{
				"id":    principal.ID,
				"name":  principal.Name,
				"email": principal.Email,
				"role":  principal.Role,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /auth/logout by expiring every session cookie.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	for _, name := range []string{
		auth.CookieAuthToken,
		auth.CookieUserRole,
		auth.CookieUserRoles,
		auth.CookieAssumedRole,
		auth.CookieImpersonation,
	} {
		c.Cookie(&fiber.Cookie{
			Name:    name,
			Value:   "",
			Expires: time.Now().Add(-time.Hour),
			Path:    "/",
		})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "logged_out"}})
}
