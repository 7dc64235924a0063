package auth

import (
	"context"
	"time"

	"huddle-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
	refreshPrefix   = "refresh:"
)

// TokenPair is what login/register/refresh hand back to the client.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenIssuer issues HS256 access tokens and Redis-backed refresh tokens.
// Refresh tokens are opaque UUIDs keyed in Redis with a TTL; rotating one
// consumes the old key atomically so a replayed refresh fails.
type TokenIssuer struct {
	Secret string
	Rdb    *redis.Client
}

// Issue returns a fresh access/refresh pair for the user.
func (t *TokenIssuer) Issue(ctx context.Context, user *domain.User) (*TokenPair, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.UserID.String(),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(accessTokenTTL).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(t.Secret))
	if err != nil {
		return nil, err
	}

	refresh := uuid.New().String()
	if err := t.Rdb.Set(ctx, refreshPrefix+refresh, user.UserID.String(), refreshTokenTTL).Err(); err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Consume exchanges a refresh token for the user ID it was issued to,
// deleting it so it cannot be replayed.
func (t *TokenIssuer) Consume(ctx context.Context, refresh string) (uuid.UUID, error) {
	val, err := t.Rdb.GetDel(ctx, refreshPrefix+refresh).Result()
	if err == redis.Nil {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrInvalidRefreshToken
	}
	return userID, nil
}

// Revoke deletes a refresh token (logout). Unknown tokens are a no-op.
func (t *TokenIssuer) Revoke(ctx context.Context, refresh string) error {
	return t.Rdb.Del(ctx, refreshPrefix+refresh).Err()
}
