package repository

import (
	"context"
	"fmt"
	"time"

	domainRepo "hospital-portal/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type tokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) domainRepo.TokenRepository {
	return &tokenRepository{client: client}
}

func tokenKey(kind domainRepo.TokenKind, userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", kind, userID.String(), tokenID)
}

func (r *tokenRepository) Store(ctx context.Context, kind domainRepo.TokenKind, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return r.client.Set(ctx, tokenKey(kind, userID, tokenID), "valid", ttl).Err()
}

func (r *tokenRepository) Exists(ctx context.Context, kind domainRepo.TokenKind, userID uuid.UUID, tokenID string) (bool, error) {
	exists, err := r.client.Exists(ctx, tokenKey(kind, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (r *tokenRepository) Revoke(ctx context.Context, kind domainRepo.TokenKind, userID uuid.UUID, tokenID string) error {
	return r.client.Del(ctx, tokenKey(kind, userID, tokenID)).Err()
}

// RevokeAll deletes every access and refresh token issued to the user.
func (r *tokenRepository) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	for _, kind := range []domainRepo.TokenKind{domainRepo.AccessTokenKind, domainRepo.RefreshTokenKind} {
		keys, err := r.client.Keys(ctx, fmt.Sprintf("%s:%s:*", kind, userID.String())).Result()
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			continue
		}
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return nil
}
