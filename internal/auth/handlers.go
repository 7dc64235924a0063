package auth

import (
	"errors"

	"huddle-backend/internal/middleware"
	"huddle-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
	Tokens  *TokenIssuer
}

type sessionPayload struct {
	User   interface{} `json:"user"`
	Tokens *TokenPair  `json:"tokens"`
}

// POST /api/v1/auth/register
func (h *Handlers) Register(c *fiber.Ctx) error {
	var body RegisterInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	user, err := h.Service.Register(c.Context(), body)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
	}

	tokens, err := h.Tokens.Issue(c.Context(), user)
	if err != nil {
		return response.Error(c, "Could not issue tokens", fiber.StatusInternalServerError, nil)
	}
	return response.SuccessCreated(c, "Registration successful", sessionPayload{User: user, Tokens: tokens}, nil)
}

// POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var body LoginInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	user, err := h.Service.Login(c.Context(), body)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailPasswordRequired):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrAccountDisabled):
			return response.Unauthorized(c, err.Error())
		}
		return response.Error(c, "Login failed", fiber.StatusInternalServerError, nil)
	}

	tokens, err := h.Tokens.Issue(c.Context(), user)
	if err != nil {
		return response.Error(c, "Could not issue tokens", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Login successful", sessionPayload{User: user, Tokens: tokens}, nil)
}

// POST /api/v1/auth/refresh
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var body struct {
		Refresh string `json:"refresh"`
	}
	if err := c.BodyParser(&body); err != nil || body.Refresh == "" {
		return response.Error(c, "Refresh token is required", fiber.StatusBadRequest, nil)
	}

	userID, err := h.Tokens.Consume(c.Context(), body.Refresh)
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			return response.Unauthorized(c, err.Error())
		}
		return response.Error(c, "Refresh failed", fiber.StatusInternalServerError, nil)
	}

	user, err := h.Service.GetUser(c.Context(), userID.String())
	if err != nil {
		return response.Unauthorized(c, ErrInvalidRefreshToken.Error())
	}

	tokens, err := h.Tokens.Issue(c.Context(), user)
	if err != nil {
		return response.Error(c, "Could not issue tokens", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Token refreshed", tokens, nil)
}

// POST /api/v1/auth/logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	var body struct {
		Refresh string `json:"refresh"`
	}
	if err := c.BodyParser(&body); err != nil || body.Refresh == "" {
		return response.Error(c, "Refresh token is required", fiber.StatusBadRequest, nil)
	}
	if err := h.Tokens.Revoke(c.Context(), body.Refresh); err != nil {
		return response.Error(c, "Logout failed", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Logout successful", nil, nil)
}

// GET /api/v1/auth/me (auth required)
func (h *Handlers) Me(c *fiber.Ctx) error {
	actor := middleware.GetUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	user, err := h.Service.GetUser(c.Context(), actor.UserID.String())
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	return response.Success(c, "Authenticated user", user, nil)
}
