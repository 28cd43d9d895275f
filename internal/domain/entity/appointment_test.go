package entity

import (
	"testing"
	"time"

	"hospital-portal/internal/domain/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		want     bool
	}{
		{AppointmentStatusPending, AppointmentStatusConfirmed, true},
		{AppointmentStatusPending, AppointmentStatusRescheduled, true},
		{AppointmentStatusPending, AppointmentStatusCompleted, false},
		{AppointmentStatusPending, AppointmentStatusCancelled, true},
		{AppointmentStatusConfirmed, AppointmentStatusConfirmed, false},
		{AppointmentStatusConfirmed, AppointmentStatusRescheduled, true},
		{AppointmentStatusConfirmed, AppointmentStatusCompleted, true},
		{AppointmentStatusRescheduled, AppointmentStatusRescheduled, true},
		{AppointmentStatusRescheduled, AppointmentStatusCompleted, true},
		{AppointmentStatusRescheduled, AppointmentStatusConfirmed, false},
		{AppointmentStatusCompleted, AppointmentStatusCancelled, false},
		{AppointmentStatusCompleted, AppointmentStatusRescheduled, false},
		{AppointmentStatusCancelled, AppointmentStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTransitionSources(t *testing.T) {
	assert.Equal(t, []AppointmentStatus{AppointmentStatusPending}, TransitionSources(AppointmentStatusConfirmed))
	assert.Equal(t,
		[]AppointmentStatus{AppointmentStatusConfirmed, AppointmentStatusRescheduled},
		TransitionSources(AppointmentStatusCompleted))
	assert.Equal(t,
		[]AppointmentStatus{AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusRescheduled},
		TransitionSources(AppointmentStatusRescheduled))
	assert.Empty(t, TransitionSources(AppointmentStatusPending))
}

func TestAppointment_ConfirmSetsTimeAndMarker(t *testing.T) {
	a := &Appointment{Status: AppointmentStatusPending}
	at := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)

	require.NoError(t, a.Confirm(at))
	assert.Equal(t, AppointmentStatusConfirmed, a.Status)
	assert.Equal(t, at, *a.ConfirmedTime)
	assert.Equal(t, RoleDoctor, a.UpdatedBy)
}

func TestAppointment_CompleteFromPendingRejected(t *testing.T) {
	a := &Appointment{Status: AppointmentStatusPending}

	err := a.Complete()

	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.True(t, apperror.Is(err, apperror.KindInvalidTransition))
	assert.Equal(t, AppointmentStatusPending, a.Status)
}

func TestAppointment_TerminalStatesRejectEverything(t *testing.T) {
	at := time.Now()
	for _, status := range []AppointmentStatus{AppointmentStatusCompleted, AppointmentStatusCancelled} {
		a := &Appointment{Status: status}
		assert.True(t, status.IsTerminal())
		assert.Error(t, a.Confirm(at))
		assert.Error(t, a.Reschedule(at))
		assert.Error(t, a.Complete())
		assert.Error(t, a.Cancel())
		assert.Equal(t, status, a.Status)
		assert.Nil(t, a.ConfirmedTime)
	}
}

func TestAppointment_CancelMarksAdmin(t *testing.T) {
	a := &Appointment{Status: AppointmentStatusRescheduled}

	require.NoError(t, a.Cancel())
	assert.Equal(t, AppointmentStatusCancelled, a.Status)
	assert.Equal(t, RoleAdmin, a.UpdatedBy)
}

func TestAppointment_AttachDocumentKeepsStatus(t *testing.T) {
	first := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	a := &Appointment{Status: AppointmentStatusCompleted}

	require.NoError(t, a.AttachDocument(DocumentProgressReport, "https://files/report.pdf", first))
	require.NoError(t, a.AttachDocument(DocumentPrescription, "https://files/rx.pdf", second))

	assert.Equal(t, AppointmentStatusCompleted, a.Status)
	assert.Equal(t, "https://files/report.pdf", a.ProgressReportURL)
	assert.Equal(t, "https://files/rx.pdf", a.PrescriptionURL)
	assert.Equal(t, second, *a.ReportUploadedAt)
	assert.True(t, a.HasDocuments())

	assert.Error(t, a.AttachDocument(DocumentKind("xray"), "u", second))
}

func TestDocumentKind_Column(t *testing.T) {
	assert.Equal(t, "progress_report_url", DocumentProgressReport.Column())
	assert.Equal(t, "prescription_url", DocumentPrescription.Column())
}

func TestParseSlot(t *testing.T) {
	want := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)

	for _, clock := range []string{"14:00", "02:00 PM", "2:00 pm", "02:00PM"} {
		got, err := ParseSlot("2025-03-12", clock, time.UTC)
		require.NoError(t, err, clock)
		assert.Equal(t, want, got, clock)
	}

	morning, err := ParseSlot("2025-03-10", "09:00 AM", nil)
	require.NoError(t, err)
	assert.Equal(t, 9, morning.Hour())

	_, err = ParseSlot("12/03/2025", "14:00", time.UTC)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = ParseSlot("2025-03-12", "noon", time.UTC)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestRole_LoginPath(t *testing.T) {
	assert.Equal(t, "/admin/login", RoleAdmin.LoginPath())
	assert.Equal(t, "/doctor/login", RoleDoctor.LoginPath())
	assert.Equal(t, "/login", RolePatient.LoginPath())
	assert.False(t, Role("superuser").IsValid())
}
