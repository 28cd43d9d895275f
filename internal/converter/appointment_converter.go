package converter

import (
	"hospital-portal/internal/delivery/dto"
	"hospital-portal/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	if a == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:                a.ID,
		PatientName:       a.PatientName,
		Email:             a.Email,
		Phone:             a.Phone,
		UserID:            a.UserID,
		DoctorID:          a.DoctorID,
		DoctorName:        a.DoctorName,
		DoctorSpecialty:   a.DoctorSpecialty,
		RequestedDate:     a.RequestedDate,
		RequestedTime:     a.RequestedTime,
		RequestedAt:       a.RequestedAt,
		ConfirmedTime:     a.ConfirmedTime,
		Status:            string(a.Status),
		Notes:             a.Notes,
		DoctorComment:     a.DoctorComment,
		ProgressReportURL: a.ProgressReportURL,
		PrescriptionURL:   a.PrescriptionURL,
		ReportUploadedAt:  a.ReportUploadedAt,
		UpdatedBy:         string(a.UpdatedBy),
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
