package entity

import (
	"strings"
	"time"

	"hospital-portal/internal/domain/apperror"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending     AppointmentStatus = "pending"
	AppointmentStatusConfirmed   AppointmentStatus = "confirmed"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
	AppointmentStatusCompleted   AppointmentStatus = "completed"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
)

// AppointmentStatuses lists every status in display order.
var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusConfirmed,
	AppointmentStatusRescheduled,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
}

func (s AppointmentStatus) IsValid() bool {
	_, ok := appointmentTransitions[s]
	return ok
}

func (s AppointmentStatus) IsTerminal() bool {
	return len(appointmentTransitions[s]) == 0
}

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:     {AppointmentStatusConfirmed, AppointmentStatusRescheduled, AppointmentStatusCancelled},
	AppointmentStatusConfirmed:   {AppointmentStatusRescheduled, AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusRescheduled: {AppointmentStatusRescheduled, AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusCompleted:   {},
	AppointmentStatusCancelled:   {},
}

// CanTransition reports whether an appointment in status from may move to status to.
func CanTransition(from, to AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionSources returns the statuses from which to is reachable.
func TransitionSources(to AppointmentStatus) []AppointmentStatus {
	var sources []AppointmentStatus
	for _, from := range AppointmentStatuses {
		if CanTransition(from, to) {
			sources = append(sources, from)
		}
	}
	return sources
}

// DocumentKind identifies which report slot a document is attached to
type DocumentKind string

const (
	DocumentProgressReport DocumentKind = "progress"
	DocumentPrescription   DocumentKind = "prescription"
)

func (k DocumentKind) IsValid() bool {
	return k == DocumentProgressReport || k == DocumentPrescription
}

// Column returns the appointments column holding the document URL.
func (k DocumentKind) Column() string {
	if k == DocumentPrescription {
		return "prescription_url"
	}
	return "progress_report_url"
}

var ErrInvalidStatusTransition = apperror.New(apperror.KindInvalidTransition, "invalid appointment status transition")

// Appointment is a patient's request to see a doctor and its lifecycle.
type Appointment struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientName       string            `gorm:"type:varchar(255);not null" json:"patient_name"`
	Email             string            `gorm:"type:varchar(255);not null" json:"email"`
	Phone             string            `gorm:"type:varchar(30);not null" json:"phone"`
	UserID            *uuid.UUID        `gorm:"type:uuid;index" json:"user_id,omitempty"`
	DoctorID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	DoctorName        string            `gorm:"type:varchar(255)" json:"doctor_name"`
	DoctorSpecialty   string            `gorm:"type:varchar(255)" json:"doctor_specialty"`
	RequestedDate     string            `gorm:"type:varchar(10);not null" json:"requested_date"`
	RequestedTime     string            `gorm:"type:varchar(20);not null" json:"requested_time"`
	RequestedAt       time.Time         `gorm:"not null" json:"requested_at"`
	ConfirmedTime     *time.Time        `json:"confirmed_time,omitempty"`
	Status            AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes             string            `gorm:"type:text" json:"notes,omitempty"`
	DoctorComment     string            `gorm:"type:text" json:"doctor_comment,omitempty"`
	ProgressReportURL string            `gorm:"type:text" json:"progress_report_url,omitempty"`
	PrescriptionURL   string            `gorm:"type:text" json:"prescription_url,omitempty"`
	ReportUploadedAt  *time.Time        `json:"report_uploaded_at,omitempty"`
	UpdatedBy         Role              `gorm:"type:varchar(20)" json:"updated_by,omitempty"`
	CreatedAt         time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) CanTransitionTo(status AppointmentStatus) bool {
	return CanTransition(a.Status, status)
}

func (a *Appointment) IsCompleted() bool {
	return a.Status == AppointmentStatusCompleted
}

func (a *Appointment) HasDocuments() bool {
	return a.ProgressReportURL != "" || a.PrescriptionURL != ""
}

// Confirm accepts the appointment for the given time.
func (a *Appointment) Confirm(at time.Time) error {
	return a.schedule(AppointmentStatusConfirmed, at)
}

// Reschedule moves the appointment to a new time.
func (a *Appointment) Reschedule(at time.Time) error {
	return a.schedule(AppointmentStatusRescheduled, at)
}

func (a *Appointment) schedule(status AppointmentStatus, at time.Time) error {
	if !a.CanTransitionTo(status) {
		return ErrInvalidStatusTransition
	}
	a.Status = status
	a.ConfirmedTime = &at
	a.UpdatedBy = RoleDoctor
	return nil
}

// Complete marks the visit as done. Reports are not required.
func (a *Appointment) Complete() error {
	if !a.CanTransitionTo(AppointmentStatusCompleted) {
		return ErrInvalidStatusTransition
	}
	a.Status = AppointmentStatusCompleted
	return nil
}

// Cancel closes the appointment without a visit.
func (a *Appointment) Cancel() error {
	if !a.CanTransitionTo(AppointmentStatusCancelled) {
		return ErrInvalidStatusTransition
	}
	a.Status = AppointmentStatusCancelled
	a.UpdatedBy = RoleAdmin
	return nil
}

// AttachDocument stores a document URL in the slot for kind. Allowed in every status.
func (a *Appointment) AttachDocument(kind DocumentKind, url string, at time.Time) error {
	switch kind {
	case DocumentProgressReport:
		a.ProgressReportURL = url
	case DocumentPrescription:
		a.PrescriptionURL = url
	default:
		return apperror.Validation("unknown document kind")
	}
	a.ReportUploadedAt = &at
	return nil
}

const dateLayout = "2006-01-02"

var clockLayouts = []string{"15:04", "03:04 PM", "3:04 PM", "03:04PM", "3:04PM"}

// ParseSlot combines a YYYY-MM-DD date and a clock time into a timestamp in loc.
// The clock may be 24-hour ("14:00") or a 12-hour slot label ("02:00 PM").
func ParseSlot(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, apperror.Validation("date must use the YYYY-MM-DD format")
	}
	clock = strings.ToUpper(strings.TrimSpace(clock))
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, clock)
		if err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
		}
	}
	return time.Time{}, apperror.Validation("time must be HH:MM or hh:mm AM/PM")
}
