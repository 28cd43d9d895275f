package repository

import (
	"context"

	"hospital-portal/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentScope narrows a conditional update. Zero values do not constrain.
type AppointmentScope struct {
	DoctorID *uuid.UUID
	Statuses []entity.AppointmentStatus
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindAll(ctx context.Context) ([]entity.Appointment, error)
	FindByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]entity.Appointment, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Appointment, error)
	// UpdateFields writes fields to the appointment only when it matches scope
	// and returns the number of rows changed.
	UpdateFields(ctx context.Context, id uuid.UUID, scope AppointmentScope, fields map[string]interface{}) (int64, error)
	Count(ctx context.Context) (int64, error)
}
