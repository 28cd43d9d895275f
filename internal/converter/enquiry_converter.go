package converter

import (
	"hospital-portal/internal/delivery/dto"
	"hospital-portal/internal/domain/entity"
)

func EnquiryToResponse(enquiry *entity.Enquiry) *dto.EnquiryResponse {
	if enquiry == nil {
		return nil
	}

	return &dto.EnquiryResponse{
		ID:        enquiry.ID,
		Name:      enquiry.Name,
		Email:     enquiry.Email,
		Phone:     enquiry.Phone,
		Message:   enquiry.Message,
		Status:    string(enquiry.Status),
		CreatedAt: enquiry.CreatedAt,
	}
}

func EnquiriesToResponses(enquiries []entity.Enquiry) []dto.EnquiryResponse {
	responses := make([]dto.EnquiryResponse, len(enquiries))
	for i := range enquiries {
		responses[i] = *EnquiryToResponse(&enquiries[i])
	}
	return responses
}
