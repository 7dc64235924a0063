package tenants

import (
	"errors"

	"huddle-backend/internal/constants"
	"huddle-backend/internal/members"
	"huddle-backend/internal/middleware"
	"huddle-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
	Members *members.Service
}

// POST /api/v1/workspaces
func (h *Handlers) CreateWorkspace(c *fiber.Ctx) error {
	actor := middleware.GetUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body CreateInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	tenant, err := h.Service.Create(c.Context(), body, actor.UserID)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
	return response.SuccessCreated(c, "Workspace created successfully", tenant, nil)
}

// GET /api/v1/workspaces
func (h *Handlers) ListWorkspaces(c *fiber.Ctx) error {
	actor := middleware.GetUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	rows, err := h.Service.ListForMember(c.Context(), actor.UserID)
	if err != nil {
		return response.Error(c, "Could not list workspaces", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Workspaces fetched successfully", rows, nil)
}

// GET /api/v1/workspaces/:slug
func (h *Handlers) ViewWorkspace(c *fiber.Ctx) error {
	actor := middleware.GetUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	tenant, err := h.Service.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return h.mapError(c, err)
	}
	m, err := h.Members.ActiveMember(c.Context(), tenant.TenantID, actor.UserID)
	if err != nil {
		return response.Forbidden(c, ErrNotMember.Error())
	}
	return response.Success(c, "Workspace fetched successfully", TenantWithRole{Tenant: *tenant, MyRole: m.Role}, nil)
}

// PATCH /api/v1/workspaces/:slug
func (h *Handlers) UpdateWorkspace(c *fiber.Ctx) error {
	actor := middleware.GetUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var fields map[string]interface{}
	if err := c.BodyParser(&fields); err != nil || len(fields) == 0 {
		return response.Error(c, "Update fields are required", fiber.StatusBadRequest, nil)
	}

	tenant, err := h.Service.Update(c.Context(), c.Params("slug"), fields, actor.UserID)
	if err != nil {
		return h.mapError(c, err)
	}
	return response.Success(c, "Workspace updated successfully", tenant, nil)
}

// DELETE /api/v1/workspaces/:slug
func (h *Handlers) DeactivateWorkspace(c *fiber.Ctx) error {
	actor := middleware.GetUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.Service.Deactivate(c.Context(), c.Params("slug"), actor.UserID); err != nil {
		return h.mapError(c, err)
	}
	return response.Success(c, "Workspace deactivated", nil, nil)
}

// GET /api/v1/workspaces/:slug/members
func (h *Handlers) ListMembers(c *fiber.Ctx) error {
	actor := middleware.GetUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	tenant, err := h.Service.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return h.mapError(c, err)
	}
	if err := h.Service.requirePermission(c.Context(), tenant.TenantID, actor.UserID, constants.ViewMembers); err != nil {
		return h.mapError(c, err)
	}

	views, err := h.Members.ListForTenant(c.Context(), tenant.TenantID)
	if err != nil {
		return response.Error(c, "Could not list members", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Members fetched successfully", views, nil)
}

// DELETE /api/v1/workspaces/:slug/members/:user_id
func (h *Handlers) RemoveMember(c *fiber.Ctx) error {
	actor := middleware.GetUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	targetID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return response.Error(c, "Invalid user ID", fiber.StatusBadRequest, nil)
	}

	tenant, err := h.Service.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return h.mapError(c, err)
	}
	if err := h.Service.requirePermission(c.Context(), tenant.TenantID, actor.UserID, constants.RemoveMember); err != nil {
		return h.mapError(c, err)
	}
	if targetID == tenant.OwnerID {
		return response.Forbidden(c, "The workspace owner cannot be removed")
	}

	if err := h.Members.Deactivate(c.Context(), tenant.TenantID, targetID); err != nil {
		if errors.Is(err, members.ErrMemberNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.Error(c, "Could not remove member", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Member removed", nil, nil)
}

func (h *Handlers) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrTenantNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, ErrNotMember), errors.Is(err, ErrForbidden):
		return response.Forbidden(c, err.Error())
	default:
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
}
