package converter

import (
	"hospital-portal/internal/delivery/dto"
	"hospital-portal/internal/domain/entity"
)

// UserToResponse converts a UserProfile entity to UserResponse DTO
func UserToResponse(profile *entity.UserProfile) *dto.UserResponse {
	if profile == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:        profile.ID,
		Email:     profile.Email,
		Role:      profile.Role.String(),
		Name:      profile.Name,
		Phone:     profile.Phone,
		CreatedAt: profile.CreatedAt,
	}
}

func UsersToResponses(profiles []entity.UserProfile) []dto.UserResponse {
	responses := make([]dto.UserResponse, len(profiles))
	for i := range profiles {
		responses[i] = *UserToResponse(&profiles[i])
	}
	return responses
}

func IdentityToResponse(identity entity.Identity) dto.IdentityResponse {
	return dto.IdentityResponse{ID: identity.ID, Email: identity.Email}
}
