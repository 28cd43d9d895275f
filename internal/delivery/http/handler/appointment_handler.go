package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"hospital-portal/internal/delivery/dto"
	"hospital-portal/internal/domain/entity"
	"hospital-portal/internal/session"
	"hospital-portal/internal/usecase"
	"hospital-portal/pkg/response"
	"hospital-portal/pkg/validator"

	"github.com/google/uuid"
)

// multipartOverhead leaves room for form fields around the file part.
const multipartOverhead = 1 << 20

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func filterFrom(r *http.Request) dto.AppointmentFilter {
	q := r.URL.Query()
	return dto.AppointmentFilter{Search: q.Get("search"), Status: q.Get("status")}
}

// BookAppointment handles appointment booking
// @Summary Book an appointment
// @Description Anyone may book. A signed in caller gets the appointment linked to their account.
// @Tags Appointments
// @Accept json
// @Produce json
// @Param request body dto.BookAppointmentRequest true "Booking Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	caller := session.FromContext(r.Context()).Current().Identity
	appointment, err := h.appointmentUsecase.Book(r.Context(), &req, caller)
	if err != nil {
		writeError(w, err, "Failed to book appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

// AdminAppointments handles the admin appointment table
// @Summary List all appointments
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param search query string false "Patient, doctor or email"
// @Param status query string false "Status filter"
// @Success 200 {object} response.Response
// @Router /admin/appointments [get]
func (h *AppointmentHandler) AdminAppointments(w http.ResponseWriter, r *http.Request) {
	view, err := h.appointmentUsecase.AdminView(r.Context(), filterFrom(r))
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", view)
}

// CancelAppointment handles cancellation by admin
// @Summary Cancel appointment
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/appointments/{id}/cancel [post]
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	admin, ok := currentProfile(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	appointment, err := h.appointmentUsecase.Cancel(r.Context(), admin.ID, id)
	if err != nil {
		writeError(w, err, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", appointment)
}

// DoctorAppointments handles the doctor dashboard
// @Summary List own appointments
// @Tags Doctor
// @Security BearerAuth
// @Produce json
// @Param search query string false "Patient name or email"
// @Param status query string false "Status filter"
// @Success 200 {object} response.Response
// @Router /doctor/appointments [get]
func (h *AppointmentHandler) DoctorAppointments(w http.ResponseWriter, r *http.Request) {
	doctor, ok := currentProfile(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	view, err := h.appointmentUsecase.DoctorView(r.Context(), doctor.ID, filterFrom(r))
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", view)
}

// ConfirmAppointment handles confirmation by the assigned doctor
// @Summary Confirm appointment
// @Description Sets the confirmed time from date and time. Both are required.
// @Tags Doctor
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.ScheduleRequest true "Schedule"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /doctor/appointments/{id}/confirm [post]
func (h *AppointmentHandler) ConfirmAppointment(w http.ResponseWriter, r *http.Request) {
	h.schedule(w, r, h.appointmentUsecase.Confirm, "Appointment confirmed successfully", "Failed to confirm appointment")
}

// RescheduleAppointment handles rescheduling by the assigned doctor
// @Summary Reschedule appointment
// @Tags Doctor
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.ScheduleRequest true "Schedule"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /doctor/appointments/{id}/reschedule [post]
func (h *AppointmentHandler) RescheduleAppointment(w http.ResponseWriter, r *http.Request) {
	h.schedule(w, r, h.appointmentUsecase.Reschedule, "Appointment rescheduled successfully", "Failed to reschedule appointment")
}

type scheduleFunc func(ctx context.Context, doctorID, id uuid.UUID, req *dto.ScheduleRequest) (*dto.AppointmentResponse, error)

func (h *AppointmentHandler) schedule(w http.ResponseWriter, r *http.Request, apply scheduleFunc, success, failure string) {
	doctor, ok := currentProfile(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	appointment, err := apply(r.Context(), doctor.ID, id, &req)
	if err != nil {
		writeError(w, err, failure)
		return
	}

	response.Success(w, http.StatusOK, success, appointment)
}

// CompleteAppointment handles completion by the assigned doctor
// @Summary Complete appointment
// @Tags Doctor
// @Security BearerAuth
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /doctor/appointments/{id}/complete [post]
func (h *AppointmentHandler) CompleteAppointment(w http.ResponseWriter, r *http.Request) {
	doctor, ok := currentProfile(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	appointment, err := h.appointmentUsecase.Complete(r.Context(), doctor.ID, id)
	if err != nil {
		writeError(w, err, "Failed to complete appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment completed successfully", appointment)
}

// @Summary Comment on appointment
// @Tags Doctor
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.CommentRequest true "Comment"
// @Success 200 {object} response.Response
// @Router /doctor/appointments/{id}/comment [put]
func (h *AppointmentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	doctor, ok := currentProfile(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.AddComment(r.Context(), doctor.ID, id, &req)
	if err != nil {
		writeError(w, err, "Failed to save comment")
		return
	}

	response.Success(w, http.StatusOK, "Comment saved successfully", appointment)
}

// UploadDocument handles progress report and prescription uploads
// @Summary Attach a document
// @Description Multipart form with "kind" (progress or prescription) and "file". Max 10 MB.
// @Tags Doctor
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Appointment ID"
// @Param kind formData string true "progress or prescription"
// @Param file formData file true "Document"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /doctor/appointments/{id}/documents [post]
func (h *AppointmentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	doctor, ok := currentProfile(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, usecase.MaxDocumentSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form or file too large", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		response.ValidationError(w, map[string]string{"file": "file is required"})
		return
	}
	defer file.Close()

	appointment, err := h.appointmentUsecase.AttachDocument(r.Context(), doctor.ID, id, usecase.Document{
		Kind:     entity.DocumentKind(r.FormValue("kind")),
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	})
	if err != nil {
		writeError(w, err, "Failed to attach document")
		return
	}

	response.Success(w, http.StatusOK, "Document uploaded successfully", appointment)
}

// PatientDashboard handles the patient's own appointments and reports
// @Summary Patient dashboard
// @Tags Patient
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /patient/dashboard [get]
func (h *AppointmentHandler) PatientDashboard(w http.ResponseWriter, r *http.Request) {
	patient, ok := currentProfile(r)
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	view, err := h.appointmentUsecase.PatientView(r.Context(), patient.ID)
	if err != nil {
		writeError(w, err, "Failed to get dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", view)
}
