package repository

import (
	"context"

	"hospital-portal/internal/domain/entity"
	domainRepo "hospital-portal/internal/domain/repository"

	"gorm.io/gorm"
)

type enquiryRepository struct {
	db *gorm.DB
}

func NewEnquiryRepository(db *gorm.DB) domainRepo.EnquiryRepository {
	return &enquiryRepository{db: db}
}

func (r *enquiryRepository) Create(ctx context.Context, enquiry *entity.Enquiry) error {
	return r.db.WithContext(ctx).Create(enquiry).Error
}

func (r *enquiryRepository) FindAll(ctx context.Context) ([]entity.Enquiry, error) {
	var enquiries []entity.Enquiry
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&enquiries).Error; err != nil {
		return nil, err
	}
	return enquiries, nil
}
