// Package projection derives the read views of the dashboards from entity
// snapshots. Every function is pure and recomputed from the full list.
package projection

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"hospital-portal/internal/converter"
	"hospital-portal/internal/delivery/dto"
	"hospital-portal/internal/domain/entity"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// Doctor actions
const (
	ActionConfirm              = "confirm"
	ActionReschedule           = "reschedule"
	ActionComplete             = "complete"
	ActionComment              = "comment"
	ActionUploadProgressReport = "upload_progress_report"
	ActionUploadPrescription   = "upload_prescription"
)

// Update types in the patient feed
const (
	UpdateConfirmed   = "confirmed"
	UpdateRescheduled = "rescheduled"
	UpdateCompleted   = "completed"
)

const displayLayout = "January 2, 2006 3:04 PM"

func containsFold(value, needle string) bool {
	return strings.Contains(strings.ToLower(value), needle)
}

// FilterAppointments keeps appointments whose patient name, doctor name or
// email contains search (case-insensitive) and whose status equals status.
// An empty search or a status of "" or "all" does not filter.
func FilterAppointments(appointments []entity.Appointment, search, status string) []entity.Appointment {
	needle := strings.ToLower(strings.TrimSpace(search))
	status = strings.ToLower(strings.TrimSpace(status))

	filtered := make([]entity.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if status != "" && status != StatusAll && string(a.Status) != status {
			continue
		}
		if needle != "" &&
			!containsFold(a.PatientName, needle) &&
			!containsFold(a.DoctorName, needle) &&
			!containsFold(a.Email, needle) {
			continue
		}
		filtered = append(filtered, a)
	}
	return filtered
}

// CountByStatus tallies the full set, independent of any filter.
func CountByStatus(appointments []entity.Appointment) dto.AppointmentStats {
	stats := dto.AppointmentStats{Total: len(appointments)}
	for _, a := range appointments {
		switch a.Status {
		case entity.AppointmentStatusPending:
			stats.Pending++
		case entity.AppointmentStatusConfirmed:
			stats.Confirmed++
		case entity.AppointmentStatusRescheduled:
			stats.Rescheduled++
		case entity.AppointmentStatusCompleted:
			stats.Completed++
		case entity.AppointmentStatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}

// DoctorActions lists what the assigned doctor may do with the appointment.
func DoctorActions(a *entity.Appointment) []string {
	var actions []string
	if a.CanTransitionTo(entity.AppointmentStatusConfirmed) {
		actions = append(actions, ActionConfirm)
	}
	if a.CanTransitionTo(entity.AppointmentStatusRescheduled) {
		actions = append(actions, ActionReschedule)
	}
	if a.CanTransitionTo(entity.AppointmentStatusCompleted) {
		actions = append(actions, ActionComplete)
	}
	return append(actions, ActionComment, ActionUploadProgressReport, ActionUploadPrescription)
}

// StatusMessage is the line shown next to an appointment on the patient dashboard.
func StatusMessage(a *entity.Appointment, loc *time.Location) string {
	if a.ConfirmedTime == nil {
		return ""
	}
	switch a.Status {
	case entity.AppointmentStatusConfirmed:
		return "Confirmed for " + formatTime(*a.ConfirmedTime, loc)
	case entity.AppointmentStatusRescheduled:
		return "Rescheduled to " + formatTime(*a.ConfirmedTime, loc)
	}
	return ""
}

// PatientUpdates builds at most one notification per appointment, newest first.
// Confirmed and rescheduled notifications need a confirmed time and use it as
// their timestamp. Completed notifications use the creation time.
func PatientUpdates(appointments []entity.Appointment, loc *time.Location) []dto.PatientUpdateResponse {
	updates := make([]dto.PatientUpdateResponse, 0)
	for i := range appointments {
		a := &appointments[i]
		switch {
		case a.Status == entity.AppointmentStatusConfirmed && a.ConfirmedTime != nil:
			updates = append(updates, dto.PatientUpdateResponse{
				AppointmentID: a.ID,
				Type:          UpdateConfirmed,
				Message:       fmt.Sprintf("Your appointment with Dr. %s has been confirmed for %s", a.DoctorName, formatTime(*a.ConfirmedTime, loc)),
				Timestamp:     *a.ConfirmedTime,
			})
		case a.Status == entity.AppointmentStatusRescheduled && a.ConfirmedTime != nil:
			updates = append(updates, dto.PatientUpdateResponse{
				AppointmentID: a.ID,
				Type:          UpdateRescheduled,
				Message:       fmt.Sprintf("Your appointment with Dr. %s has been rescheduled to %s", a.DoctorName, formatTime(*a.ConfirmedTime, loc)),
				Timestamp:     *a.ConfirmedTime,
			})
		case a.Status == entity.AppointmentStatusCompleted:
			updates = append(updates, dto.PatientUpdateResponse{
				AppointmentID: a.ID,
				Type:          UpdateCompleted,
				Message:       fmt.Sprintf("Your appointment with Dr. %s has been completed", a.DoctorName),
				Timestamp:     a.CreatedAt,
			})
		}
	}

	sort.SliceStable(updates, func(i, j int) bool {
		return updates[i].Timestamp.After(updates[j].Timestamp)
	})
	return updates
}

// PatientReports keeps completed appointments that carry at least one document.
func PatientReports(appointments []entity.Appointment) []entity.Appointment {
	reports := make([]entity.Appointment, 0)
	for _, a := range appointments {
		if a.IsCompleted() && a.HasDocuments() {
			reports = append(reports, a)
		}
	}
	return reports
}

func AdminAppointments(all []entity.Appointment, filter dto.AppointmentFilter) *dto.AdminAppointmentListResponse {
	filtered := FilterAppointments(all, filter.Search, filter.Status)
	return &dto.AdminAppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(filtered),
		Total:        len(filtered),
		Stats:        CountByStatus(all),
	}
}

func DoctorAppointments(own []entity.Appointment, filter dto.AppointmentFilter) *dto.DoctorAppointmentListResponse {
	filtered := FilterAppointments(own, filter.Search, filter.Status)
	rows := make([]dto.DoctorAppointmentResponse, len(filtered))
	for i := range filtered {
		rows[i] = dto.DoctorAppointmentResponse{
			AppointmentResponse: *converter.AppointmentToResponse(&filtered[i]),
			Actions:             DoctorActions(&filtered[i]),
		}
	}
	return &dto.DoctorAppointmentListResponse{
		Appointments: rows,
		Total:        len(rows),
		Stats:        CountByStatus(own),
	}
}

func PatientDashboard(own []entity.Appointment, loc *time.Location) *dto.PatientDashboardResponse {
	rows := make([]dto.PatientAppointmentResponse, len(own))
	for i := range own {
		rows[i] = dto.PatientAppointmentResponse{
			AppointmentResponse: *converter.AppointmentToResponse(&own[i]),
			Message:             StatusMessage(&own[i], loc),
		}
	}
	return &dto.PatientDashboardResponse{
		Appointments: rows,
		Updates:      PatientUpdates(own, loc),
		Reports:      converter.AppointmentsToResponses(PatientReports(own)),
		Total:        len(rows),
	}
}

func formatTime(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(displayLayout)
}
