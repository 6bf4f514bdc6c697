package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/agency-admin/internal/repository"
	"github.com/spec-kit/agency-admin/internal/service"
	apperrors "github.com/spec-kit/agency-admin/pkg/util"
)

// AdminHandler exposes read endpoints for the admin backoffice.
type AdminHandler struct {
	principals repository.PrincipalRepository
	agencies   repository.AgencyRepository
	audit      *service.AuditService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(principals repository.PrincipalRepository, agencies repository.AgencyRepository, audit *service.AuditService) *AdminHandler {
	return &AdminHandler{principals: principals, agencies: agencies, audit: audit}
}

// ListPrincipals handles GET /admin/principals, optionally filtered by agency.
func (h *AdminHandler) ListPrincipals(c *fiber.Ctx) error {
	var agencyID *string
	if v := c.Query("agency_id"); v != "" {
		agencyID = &v
	}

	principals, err := h.principals.List(c.Context(), agencyID)
	if err != nil {
		return apperrors.MapError(err)
	}

	items := make([]fiber.Map, 0, len(principals))
	for _, p := range principals {
		items = append(items, fiber.Map{
			"id":        p.ID,
			"name":      p.Name,
			"email":     p.Email,
			"role":      p.Role,
			"agency_id": p.AgencyID,
			"active":    p.Active,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListAgencies handles GET /admin/agencies.
func (h *AdminHandler) ListAgencies(c *fiber.Ctx) error {
	agencies, err := h.agencies.List(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}

	items := make([]fiber.Map, 0, len(agencies))
	for _, a := range agencies {
		items = append(items, fiber.Map{
			"id":     a.ID,
			"name":   a.Name,
			"slug":   a.Slug,
			"status": a.Status,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// RecentAudit handles GET /admin/audit.
func (h *AdminHandler) RecentAudit(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	entries, err := h.audit.Recent(c.Context(), limit)
	if err != nil {
		return apperrors.MapError(err)
	}

	items := make([]fiber.Map, 0, len(entries))
	for _, e := range entries {
		items = append(items, fiber.Map{
			"id":           e.ID,
			"kind":         e.Kind,
			"actor_id":     e.ActorID,
			"actor_email":  e.ActorEmail,
			"target_id":    e.TargetID,
			"target_email": e.TargetEmail,
			"path":         e.Path,
			"detail":       e.Detail,
			"created_at":   e.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
