package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenKind separates access and refresh tokens in the allow-list.
type TokenKind string

const (
	AccessTokenKind  TokenKind = "access_token"
	RefreshTokenKind TokenKind = "refresh_token"
)

// TokenRepository is the allow-list of issued tokens. A token that is not
// in the list is treated as revoked.
type TokenRepository interface {
	Store(ctx context.Context, kind TokenKind, userID uuid.UUID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, kind TokenKind, userID uuid.UUID, tokenID string) (bool, error)
	Revoke(ctx context.Context, kind TokenKind, userID uuid.UUID, tokenID string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}
