package repository

import (
	"context"

	"hospital-portal/internal/domain/entity"
)

type EnquiryRepository interface {
	Create(ctx context.Context, enquiry *entity.Enquiry) error
	FindAll(ctx context.Context) ([]entity.Enquiry, error)
}
