package projection

import (
	"testing"
	"time"

	"hospital-portal/internal/delivery/dto"
	"hospital-portal/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrTime(t time.Time) *time.Time {
	return &t
}

func sampleAppointments() []entity.Appointment {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return []entity.Appointment{
		{ID: uuid.New(), PatientName: "Asha Rao", DoctorName: "Meera Iyer", Email: "asha@example.com", Status: entity.AppointmentStatusPending, CreatedAt: base},
		{ID: uuid.New(), PatientName: "Ravi Kumar", DoctorName: "Meera Iyer", Email: "ravi@example.com", Status: entity.AppointmentStatusConfirmed,
			ConfirmedTime: ptrTime(base.AddDate(0, 0, 10)), CreatedAt: base.Add(time.Hour)},
		{ID: uuid.New(), PatientName: "Lakshmi", DoctorName: "John Mathew", Email: "lakshmi@example.com", Status: entity.AppointmentStatusCompleted,
			PrescriptionURL: "https://files/rx.pdf", CreatedAt: base.Add(2 * time.Hour)},
		{ID: uuid.New(), PatientName: "Tom", DoctorName: "John Mathew", Email: "tom@example.com", Status: entity.AppointmentStatusRescheduled,
			ConfirmedTime: ptrTime(base.AddDate(0, 0, 12)), CreatedAt: base.Add(3 * time.Hour)},
		{ID: uuid.New(), PatientName: "Anu", DoctorName: "John Mathew", Email: "anu@example.com", Status: entity.AppointmentStatusCompleted, CreatedAt: base.Add(4 * time.Hour)},
	}
}

func TestFilterAppointments(t *testing.T) {
	all := sampleAppointments()

	assert.Len(t, FilterAppointments(all, "", ""), 5)
	assert.Len(t, FilterAppointments(all, "", StatusAll), 5)
	assert.Len(t, FilterAppointments(all, "MEERA", ""), 2)
	assert.Len(t, FilterAppointments(all, "lakshmi@", ""), 1)
	assert.Len(t, FilterAppointments(all, "john", "completed"), 2)
	assert.Empty(t, FilterAppointments(all, "asha", "confirmed"))
}

func TestCountByStatusUsesFullSet(t *testing.T) {
	resp := AdminAppointments(sampleAppointments(), dto.AppointmentFilter{Status: "pending"})

	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, dto.AppointmentStats{Total: 5, Pending: 1, Confirmed: 1, Rescheduled: 1, Completed: 2}, resp.Stats)
}

func TestDoctorActions(t *testing.T) {
	tests := []struct {
		status entity.AppointmentStatus
		want   []string
	}{
		{entity.AppointmentStatusPending, []string{ActionConfirm, ActionReschedule}},
		{entity.AppointmentStatusConfirmed, []string{ActionReschedule, ActionComplete}},
		{entity.AppointmentStatusRescheduled, []string{ActionReschedule, ActionComplete}},
		{entity.AppointmentStatusCompleted, nil},
		{entity.AppointmentStatusCancelled, nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			actions := DoctorActions(&entity.Appointment{Status: tt.status})
			want := append(tt.want, ActionComment, ActionUploadProgressReport, ActionUploadPrescription)
			assert.Equal(t, want, actions)
		})
	}
}

func TestPatientUpdates(t *testing.T) {
	all := sampleAppointments()
	// confirmed without a time produces no update
	all = append(all, entity.Appointment{ID: uuid.New(), DoctorName: "X", Status: entity.AppointmentStatusConfirmed})

	updates := PatientUpdates(all, time.UTC)

	require.Len(t, updates, 4)
	assert.Equal(t, UpdateRescheduled, updates[0].Type)
	assert.Equal(t, "Your appointment with Dr. John Mathew has been rescheduled to March 13, 2025 9:00 AM", updates[0].Message)
	assert.Equal(t, UpdateConfirmed, updates[1].Type)
	assert.Equal(t, UpdateCompleted, updates[2].Type)
	assert.Equal(t, all[4].ID, updates[2].AppointmentID)
	assert.Equal(t, all[2].ID, updates[3].AppointmentID)
}

func TestPatientReports(t *testing.T) {
	reports := PatientReports(sampleAppointments())

	require.Len(t, reports, 1)
	assert.Equal(t, "Lakshmi", reports[0].PatientName)
}

func TestStatusMessage(t *testing.T) {
	at := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)

	assert.Equal(t, "Confirmed for March 12, 2025 2:00 PM",
		StatusMessage(&entity.Appointment{Status: entity.AppointmentStatusConfirmed, ConfirmedTime: &at}, time.UTC))
	assert.Equal(t, "Rescheduled to March 12, 2025 2:00 PM",
		StatusMessage(&entity.Appointment{Status: entity.AppointmentStatusRescheduled, ConfirmedTime: &at}, time.UTC))
	assert.Empty(t, StatusMessage(&entity.Appointment{Status: entity.AppointmentStatusPending}, time.UTC))
}

func TestPatientDashboard(t *testing.T) {
	resp := PatientDashboard(sampleAppointments(), time.UTC)

	assert.Equal(t, 5, resp.Total)
	assert.Len(t, resp.Reports, 1)
	assert.Equal(t, "Confirmed for March 11, 2025 9:00 AM", resp.Appointments[1].Message)
}

func TestDoctorAppointments(t *testing.T) {
	resp := DoctorAppointments(sampleAppointments()[:2], dto.AppointmentFilter{})

	require.Len(t, resp.Appointments, 2)
	assert.Equal(t, []string{ActionConfirm, ActionReschedule, ActionComment, ActionUploadProgressReport, ActionUploadPrescription},
		resp.Appointments[0].Actions)
	assert.Equal(t, 2, resp.Stats.Total)
}
