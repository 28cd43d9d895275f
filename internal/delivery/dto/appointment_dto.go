package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type BookAppointmentRequest struct {
	PatientName string `json:"patient_name" validate:"required,notblank,max=255"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,notblank,max=30"`
	DoctorID    string `json:"doctor_id" validate:"required,uuid"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required,notblank"`
	Notes       string `json:"notes" validate:"omitempty,max=2000"`
}

// ScheduleRequest carries the date and time chosen by a doctor. Completeness
// is checked by the use case so a missing value maps to its own error.
type ScheduleRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type CommentRequest struct {
	Comment string `json:"comment" validate:"required,notblank,max=2000"`
}

type AppointmentFilter struct {
	Search string `json:"search"`
	Status string `json:"status"`
}

// Response DTOs

type AppointmentResponse struct {
	ID                uuid.UUID  `json:"id"`
	PatientName       string     `json:"patient_name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	UserID            *uuid.UUID `json:"user_id,omitempty"`
	DoctorID          uuid.UUID  `json:"doctor_id"`
	DoctorName        string     `json:"doctor_name"`
	DoctorSpecialty   string     `json:"doctor_specialty"`
	RequestedDate     string     `json:"requested_date"`
	RequestedTime     string     `json:"requested_time"`
	RequestedAt       time.Time  `json:"requested_at"`
	ConfirmedTime     *time.Time `json:"confirmed_time,omitempty"`
	Status            string     `json:"status"`
	Notes             string     `json:"notes,omitempty"`
	DoctorComment     string     `json:"doctor_comment,omitempty"`
	ProgressReportURL string     `json:"progress_report_url,omitempty"`
	PrescriptionURL   string     `json:"prescription_url,omitempty"`
	ReportUploadedAt  *time.Time `json:"report_uploaded_at,omitempty"`
	UpdatedBy         string     `json:"updated_by,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type AppointmentStats struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Confirmed   int `json:"confirmed"`
	Rescheduled int `json:"rescheduled"`
	Completed   int `json:"completed"`
	Cancelled   int `json:"cancelled"`
}

type AdminAppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
	Stats        AppointmentStats      `json:"stats"`
}

type DoctorAppointmentResponse struct {
	AppointmentResponse
	Actions []string `json:"actions"`
}

type DoctorAppointmentListResponse struct {
	Appointments []DoctorAppointmentResponse `json:"appointments"`
	Total        int                         `json:"total"`
	Stats        AppointmentStats            `json:"stats"`
}

type PatientAppointmentResponse struct {
	AppointmentResponse
	Message string `json:"message,omitempty"`
}

type PatientUpdateResponse struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	Type          string    `json:"type"`
	Message       string    `json:"message"`
	Timestamp     time.Time `json:"timestamp"`
}

type PatientDashboardResponse struct {
	Appointments []PatientAppointmentResponse `json:"appointments"`
	Updates      []PatientUpdateResponse      `json:"updates"`
	Reports      []AppointmentResponse        `json:"reports"`
	Total        int                          `json:"total"`
}
