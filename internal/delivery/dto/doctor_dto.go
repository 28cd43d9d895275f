package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Name      string `json:"name" validate:"required,notblank,max=255"`
	Specialty string `json:"specialty" validate:"required,notblank,max=255"`
	Bio       string `json:"bio" validate:"omitempty,max=5000"`
	PhotoURL  string `json:"photo_url" validate:"omitempty,url"`
	IsExpert  bool   `json:"is_expert"`
}

type UpdateDoctorRequest struct {
	Name      *string `json:"name" validate:"omitempty,notblank,max=255"`
	Specialty *string `json:"specialty" validate:"omitempty,notblank,max=255"`
	Bio       *string `json:"bio" validate:"omitempty,max=5000"`
	PhotoURL  *string `json:"photo_url" validate:"omitempty,url"`
	IsExpert  *bool   `json:"is_expert"`
}

// Response DTOs

type DoctorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	Bio       string    `json:"bio,omitempty"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	IsExpert  bool      `json:"is_expert"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
