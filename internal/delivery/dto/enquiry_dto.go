package dto

import (
	"time"

	"github.com/google/uuid"
)

type EnquiryRequest struct {
	Name    string `json:"name" validate:"required,notblank,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=30"`
	Message string `json:"message" validate:"required,notblank,max=5000"`
}

type EnquiryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type EnquiryListResponse struct {
	Enquiries []EnquiryResponse `json:"enquiries"`
	Total     int               `json:"total"`
}
