package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/agency-admin/internal/api/dto"
	"github.com/spec-kit/agency-admin/internal/auth"
	"github.com/spec-kit/agency-admin/internal/service"
	apperrors "github.com/spec-kit/agency-admin/pkg/util"
)

// ImpersonationHandler exposes start/stop endpoints for acting-as sessions.
type ImpersonationHandler struct {
	impersonation *service.ImpersonationService
	secure        bool
}

// NewImpersonationHandler constructs handler.
func NewImpersonationHandler(impersonation *service.ImpersonationService, secure bool) *ImpersonationHandler {
	return &ImpersonationHandler{impersonation: impersonation, secure: secure}
}

// Start handles POST /admin/impersonation/start.
func (h *ImpersonationHandler) Start(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(apperrors.CodeAuthenticationRequired, "authentication required")
	}

	var req dto.StartImpersonationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.TargetID == "" {
		return fiber.NewError(http.StatusBadRequest, "target_id required")
	}

	actor := service.Actor{
		ID:    session.Identity.ID,
		Email: session.Identity.Email,
		Role:  session.EffectiveRole,
	}
	grant, target, err := h.impersonation.Start(c.Context(), actor, req.TargetID, req.Justification, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieAssumedRole,
		Value:    string(target.Role),
		Expires:  grant.ExpiresAt,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieImpersonation,
		Value:    grant.ID,
		Expires:  grant.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.ImpersonationResponse{
			GrantID: grant.ID,
			Target: dto.ImpersonationTarget{
				ID:    target.ID,
				Name:  target.Name,
				Email: target.Email,
				Role:  string(target.Role),
			},
			ExpiresAt: grant.ExpiresAt,
		},
	})
}

// Stop handles POST /admin/impersonation/stop.
func (h *ImpersonationHandler) Stop(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(apperrors.CodeAuthenticationRequired, "authentication required")
	}

	grantID := c.Cookies(auth.CookieImpersonation)
	actor := service.Actor{
		ID:    session.Identity.ID,
		Email: session.Identity.Email,
		Role:  session.EffectiveRole,
	}
	if err := h.impersonation.Terminate(c.Context(), actor, grantID); err != nil {
		return err
	}

	for _, name := range []string{auth.CookieAssumedRole, auth.CookieImpersonation} {
		c.Cookie(&fiber.Cookie{
			Name:    name,
			Value:   "",
			Expires: time.Now().Add(-time.Hour),
			Path:    "/",
		})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "terminated"}})
}
