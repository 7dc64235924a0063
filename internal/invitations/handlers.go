package invitations

import (
	"context"
	"errors"
	"time"

	"huddle-backend/internal/domain"
	"huddle-backend/internal/emails"
	"huddle-backend/internal/middleware"
	"huddle-backend/internal/pkg/response"
	"huddle-backend/internal/tenants"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handlers struct {
	Service       *Service
	Mailer        emails.Sender
	InviteBaseURL string
}

// POST /api/v1/workspaces/:slug/invitations (auth required)
func (h *Handlers) CreateInvite(c *fiber.Ctx) error {
	actor := middleware.GetUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" {
		return response.Error(c, "Email is required", fiber.StatusBadRequest, nil)
	}

	slug := c.Params("slug")
	inv, created, err := h.Service.Create(c.Context(), CreateInput{
		Slug:    slug,
		ActorID: actor.UserID,
		Email:   body.Email,
		Role:    body.Role,
	})
	if err != nil {
		return h.mapError(c, err)
	}
	if !created {
		return response.Success(c, "Pending invitation already exists", inv, nil)
	}

	h.dispatchInvite(slug, inv)

	// The token is the invitee's secret; it is exposed here, to the inviting
	// context only, and never again on reads.
	return response.SuccessCreated(c, "Invitation sent successfully", fiber.Map{
		"invitation": inv,
		"token":      inv.Token.String(),
	}, nil)
}

// POST /api/v1/invitations/validate (public)
func (h *Handlers) ValidateToken(c *fiber.Ctx) error {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&body); err != nil || body.Token == "" {
		return response.Error(c, "Invitation token is required", fiber.StatusBadRequest, nil)
	}

	result, err := h.Service.Validate(c.Context(), body.Token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.Error(c, ErrNotFound.Error(), fiber.StatusBadRequest, fiber.Map{"valid": false})
		}
		return response.Error(c, "Validation failed", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Invitation token verified", fiber.Map{
		"valid":       true,
		"tenant_name": result.TenantName,
		"email":       result.Email,
		"role":        result.Role,
	}, nil)
}

// POST /api/v1/invitations/accept (auth required)
func (h *Handlers) AcceptInvite(c *fiber.Ctx) error {
	actor := middleware.GetUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&body); err != nil || body.Token == "" {
		return response.Error(c, "Invitation token is required", fiber.StatusBadRequest, nil)
	}

	member, err := h.Service.Accept(c.Context(), body.Token, actor.UserID)
	if err != nil {
		return h.mapError(c, err)
	}
	return response.Success(c, "Invitation accepted successfully", member, nil)
}

// POST /api/v1/invitations/reject (auth required)
func (h *Handlers) RejectInvite(c *fiber.Ctx) error {
	actor := middleware.GetUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := c.BodyParser(&body); err != nil || body.Token == "" {
		return response.Error(c, "Invitation token is required", fiber.StatusBadRequest, nil)
	}

	if err := h.Service.Reject(c.Context(), body.Token, actor.UserID); err != nil {
		return h.mapError(c, err)
	}
	return response.Success(c, "Invitation rejected", nil, nil)
}

// POST /api/v1/workspaces/:slug/invitations/revoke (auth required)
func (h *Handlers) RevokeInvite(c *fiber.Ctx) error {
	actor := middleware.GetUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" {
		return response.Error(c, "Email is required", fiber.StatusBadRequest, nil)
	}

	inv, err := h.Service.Revoke(c.Context(), c.Params("slug"), body.Email, actor.UserID)
	if err != nil {
		return h.mapError(c, err)
	}
	return response.Success(c, "Invitation revoked successfully", inv, nil)
}

// POST /api/v1/workspaces/:slug/invitations/resend (auth required)
func (h *Handlers) ResendInvite(c *fiber.Ctx) error {
	actor := middleware.GetUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	var body struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" {
		return response.Error(c, "Email is required", fiber.StatusBadRequest, nil)
	}

	slug := c.Params("slug")
	inv, err := h.Service.Resend(c.Context(), slug, body.Email, actor.UserID)
	if err != nil {
		return h.mapError(c, err)
	}

	h.dispatchInvite(slug, inv)
	return response.Success(c, "Invitation resent successfully", inv, nil)
}

// GET /api/v1/workspaces/:slug/invitations (auth required)
func (h *Handlers) ListInvitations(c *fiber.Ctx) error {
	actor := middleware.GetUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	invitations, err := h.Service.List(c.Context(), c.Params("slug"), c.Query("status"), actor.UserID)
	if err != nil {
		return h.mapError(c, err)
	}
	return response.Success(c, "Invitations fetched successfully", invitations, nil)
}

// dispatchInvite sends the invite email off the request path. Email is a
// side channel: failures are logged, never surfaced to the API caller.
func (h *Handlers) dispatchInvite(slug string, inv *domain.TenantInvitation) {
	if h.Mailer == nil {
		return
	}
	link := h.InviteBaseURL + "/invitations/accept?token=" + inv.Token.String()
	email, role := inv.Email, inv.Role
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		name := slug
		if t, err := h.Service.Tenants.GetBySlug(ctx, slug); err == nil {
			name = t.Name
		}
		if err := h.Mailer.SendInvite(ctx, email, link, name, role); err != nil {
			log.Warn().Err(err).Str("email", email).Msg("invite email failed")
		}
	}()
}

func (h *Handlers) mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, tenants.ErrTenantNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, ErrExpired):
		return response.Error(c, err.Error(), fiber.StatusGone, nil)
	case errors.Is(err, ErrAlreadyProcessed):
		return response.Error(c, err.Error(), fiber.StatusConflict, nil)
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrNotMember), errors.Is(err, ErrNoPermission), errors.Is(err, ErrTenantInactive):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, ErrAlreadyMember):
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	case errors.Is(err, ErrResendThrottled):
		return response.Error(c, err.Error(), fiber.StatusTooManyRequests, nil)
	default:
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}
}
