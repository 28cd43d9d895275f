package repository

import (
	"context"

	"hospital-portal/internal/domain/entity"

	"github.com/google/uuid"
)

type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	// CreateWithProfile writes the account and its profile in one transaction.
	CreateWithProfile(ctx context.Context, account *entity.Account, profile *entity.UserProfile) error
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)
}

// UserRepository stores user profiles.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.UserProfile, error)
	// CreateIfAbsent inserts the profile unless one already exists for its id.
	// It reports whether a row was written.
	CreateIfAbsent(ctx context.Context, profile *entity.UserProfile) (bool, error)
	FindAll(ctx context.Context) ([]entity.UserProfile, error)
	CountByRole(ctx context.Context, role entity.Role) (int64, error)
}
