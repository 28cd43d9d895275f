package repository

import (
	"context"

	"hospital-portal/internal/domain/entity"

	"github.com/google/uuid"
)

type DoctorRepository interface {
	// Provision creates the account, the doctor row and the doctor profile in one transaction.
	Provision(ctx context.Context, account *entity.Account, doctor *entity.Doctor, profile *entity.UserProfile) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	FindAll(ctx context.Context) ([]entity.Doctor, error)
	Update(ctx context.Context, doctor *entity.Doctor) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
}
