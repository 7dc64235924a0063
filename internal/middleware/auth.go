package middleware

import (
	"strings"

	"huddle-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const userLocal = "user"

// AuthUser is the authenticated identity attached to the request context.
// Email mirrors the claim at token-issue time; security-sensitive flows
// (invitation acceptance) re-fetch the user row instead of trusting it.
type AuthUser struct {
	UserID uuid.UUID
	Email  string
}

// RequireAuth validates the Bearer access token and stores the AuthUser in
// Locals. Returns 401 with the standard error format on any failure.
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return response.Unauthorized(c, "Unauthorized")
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return response.Unauthorized(c, "Unauthorized")
		}

		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		email, _ := claims["email"].(string)

		c.Locals(userLocal, &AuthUser{UserID: userID, Email: email})
		return c.Next()
	}
}

// GetUser returns the authenticated user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) *AuthUser {
	u, _ := c.Locals(userLocal).(*AuthUser)
	return u
}
