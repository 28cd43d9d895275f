package usecase

import (
	"context"

	"hospital-portal/internal/delivery/dto"
	"hospital-portal/internal/domain/entity"
	"hospital-portal/internal/live"
)

type liveProjector struct {
	appointments AppointmentUsecase
	dashboard    DashboardUsecase
}

// NewLiveProjector computes the live view of each topic from the current data.
func NewLiveProjector(appointments AppointmentUsecase, dashboard DashboardUsecase) live.Projector {
	return &liveProjector{appointments: appointments, dashboard: dashboard}
}

func (p *liveProjector) Project(ctx context.Context, topic string) (interface{}, error) {
	role, owner, err := live.ParseTopic(topic)
	if err != nil {
		return nil, err
	}

	switch role {
	case entity.RoleAdmin:
		stats, err := p.dashboard.Stats(ctx)
		if err != nil {
			return nil, err
		}
		appointments, err := p.appointments.AdminView(ctx, dto.AppointmentFilter{})
		if err != nil {
			return nil, err
		}
		return &dto.AdminLiveView{Stats: *stats, Appointments: *appointments}, nil
	case entity.RoleDoctor:
		return p.appointments.DoctorView(ctx, owner, dto.AppointmentFilter{})
	default:
		return p.appointments.PatientView(ctx, owner)
	}
}
