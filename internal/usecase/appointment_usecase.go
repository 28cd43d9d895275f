package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"hospital-portal/internal/converter"
	"hospital-portal/internal/delivery/dto"
	"hospital-portal/internal/domain/apperror"
	"hospital-portal/internal/domain/entity"
	"hospital-portal/internal/domain/repository"
	"hospital-portal/internal/infrastructure/storage"
	"hospital-portal/internal/live"
	"hospital-portal/internal/projection"
	"hospital-portal/internal/service"
	"hospital-portal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MaxDocumentSize is the largest medical document accepted (10 MB).
const MaxDocumentSize = 10 * 1024 * 1024

var allowedDocumentExtensions = map[string]struct{}{
	".pdf": {}, ".jpg": {}, ".jpeg": {}, ".png": {}, ".doc": {}, ".docx": {},
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

var (
	ErrAppointmentNotFound = apperror.NotFound("appointment")
	ErrDoctorNotFound      = apperror.NotFound("doctor")
)

// Document is an uploaded file waiting to be attached to an appointment.
type Document struct {
	Kind     entity.DocumentKind
	Filename string
	Size     int64
	Content  io.Reader
}

type AppointmentUsecase interface {
	// Book creates a pending appointment. caller is nil for anonymous bookings.
	Book(ctx context.Context, req *dto.BookAppointmentRequest, caller *entity.Identity) (*dto.AppointmentResponse, error)
	Confirm(ctx context.Context, doctorID, id uuid.UUID, req *dto.ScheduleRequest) (*dto.AppointmentResponse, error)
	Reschedule(ctx context.Context, doctorID, id uuid.UUID, req *dto.ScheduleRequest) (*dto.AppointmentResponse, error)
	Complete(ctx context.Context, doctorID, id uuid.UUID) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, adminID, id uuid.UUID) (*dto.AppointmentResponse, error)
	AttachDocument(ctx context.Context, doctorID, id uuid.UUID, doc Document) (*dto.AppointmentResponse, error)
	AddComment(ctx context.Context, doctorID, id uuid.UUID, req *dto.CommentRequest) (*dto.AppointmentResponse, error)

	AdminView(ctx context.Context, filter dto.AppointmentFilter) (*dto.AdminAppointmentListResponse, error)
	DoctorView(ctx context.Context, doctorID uuid.UUID, filter dto.AppointmentFilter) (*dto.DoctorAppointmentListResponse, error)
	PatientView(ctx context.Context, userID uuid.UUID) (*dto.PatientDashboardResponse, error)
}

type appointmentUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	blobs           storage.BlobStore
	auditService    service.AuditService
	publisher       live.Publisher
	metrics         *metrics.Metrics
	location        *time.Location
	now             func() time.Time
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	blobs storage.BlobStore,
	auditService service.AuditService,
	publisher live.Publisher,
	m *metrics.Metrics,
	location *time.Location,
) AppointmentUsecase {
	if location == nil {
		location = time.UTC
	}
	return &appointmentUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		blobs:           blobs,
		auditService:    auditService,
		publisher:       publisher,
		metrics:         m,
		location:        location,
		now:             time.Now,
	}
}

func (u *appointmentUsecase) Book(ctx context.Context, req *dto.BookAppointmentRequest, caller *entity.Identity) (*dto.AppointmentResponse, error) {
	patientName := strings.TrimSpace(req.PatientName)
	email := strings.TrimSpace(req.Email)
	phone := strings.TrimSpace(req.Phone)
	date := strings.TrimSpace(req.Date)
	clock := strings.TrimSpace(req.Time)
	if patientName == "" || email == "" || phone == "" || req.DoctorID == "" || date == "" || clock == "" {
		return nil, apperror.Validation("patient name, email, phone, doctor, date and time are required")
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, apperror.Validation("invalid doctor id")
	}

	requestedAt, err := entity.ParseSlot(date, clock, u.location)
	if err != nil {
		return nil, err
	}

	doctor, err := u.doctorRepo.FindByID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	appointment := &entity.Appointment{
		ID:              uuid.New(),
		PatientName:     patientName,
		Email:           email,
		Phone:           phone,
		DoctorID:        doctor.ID,
		DoctorName:      doctor.Name,
		DoctorSpecialty: doctor.Specialty,
		RequestedDate:   date,
		RequestedTime:   clock,
		RequestedAt:     requestedAt,
		Status:          entity.AppointmentStatusPending,
		Notes:           strings.TrimSpace(req.Notes),
	}
	var actor *uuid.UUID
	if caller != nil {
		id := caller.ID
		appointment.UserID = &id
		actor = &id
	}

	if err := u.appointmentRepo.Create(ctx, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	u.metrics.AppointmentsBooked.Inc()
	u.auditService.LogCreate(ctx, actor, entity.AuditActionAppointmentBook, "appointment", appointment.ID.String(), converter.AppointmentToResponse(appointment))
	u.announce(ctx, appointment)

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) Confirm(ctx context.Context, doctorID, id uuid.UUID, req *dto.ScheduleRequest) (*dto.AppointmentResponse, error) {
	return u.schedule(ctx, doctorID, id, req, entity.AuditActionAppointmentConfirm, (*entity.Appointment).Confirm)
}

func (u *appointmentUsecase) Reschedule(ctx context.Context, doctorID, id uuid.UUID, req *dto.ScheduleRequest) (*dto.AppointmentResponse, error) {
	return u.schedule(ctx, doctorID, id, req, entity.AuditActionAppointmentReschedule, (*entity.Appointment).Reschedule)
}

func (u *appointmentUsecase) schedule(
	ctx context.Context,
	doctorID, id uuid.UUID,
	req *dto.ScheduleRequest,
	action string,
	apply func(*entity.Appointment, time.Time) error,
) (*dto.AppointmentResponse, error) {
	if strings.TrimSpace(req.Date) == "" || strings.TrimSpace(req.Time) == "" {
		return nil, apperror.IncompleteSchedule()
	}
	at, err := entity.ParseSlot(req.Date, req.Time, u.location)
	if err != nil {
		return nil, err
	}

	return u.transition(ctx, id, &doctorID, doctorID, action, func(a *entity.Appointment) (map[string]interface{}, error) {
		if err := apply(a, at); err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"status":         a.Status,
			"confirmed_time": a.ConfirmedTime,
			"updated_by":     a.UpdatedBy,
		}, nil
	})
}

func (u *appointmentUsecase) Complete(ctx context.Context, doctorID, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, id, &doctorID, doctorID, entity.AuditActionAppointmentComplete, func(a *entity.Appointment) (map[string]interface{}, error) {
		if err := a.Complete(); err != nil {
			return nil, err
		}
		return map[string]interface{}{"status": a.Status}, nil
	})
}

func (u *appointmentUsecase) Cancel(ctx context.Context, adminID, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return u.transition(ctx, id, nil, adminID, entity.AuditActionAppointmentCancel, func(a *entity.Appointment) (map[string]interface{}, error) {
		if err := a.Cancel(); err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"status":     a.Status,
			"updated_by": a.UpdatedBy,
		}, nil
	})
}

// transition loads the appointment, applies a status change in memory and
// persists it only if the stored status is still the one that was read.
// owner restricts the appointment to one doctor when set.
func (u *appointmentUsecase) transition(
	ctx context.Context,
	id uuid.UUID,
	owner *uuid.UUID,
	actor uuid.UUID,
	action string,
	apply func(*entity.Appointment) (map[string]interface{}, error),
) (*dto.AppointmentResponse, error) {
	appointment, err := u.findOwned(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	from := appointment.Status
	fields, err := apply(appointment)
	if err != nil {
		return nil, err
	}

	scope := repository.AppointmentScope{DoctorID: owner, Statuses: []entity.AppointmentStatus{from}}
	rows, err := u.appointmentRepo.UpdateFields(ctx, id, scope, fields)
	if err != nil {
		u.log.Warnf("Failed to update appointment %s: %+v", id, err)
		return nil, err
	}
	if rows == 0 {
		// status changed between read and write
		return nil, entity.ErrInvalidStatusTransition
	}

	u.metrics.AppointmentTransitions.WithLabelValues(string(appointment.Status)).Inc()
	u.auditService.LogUpdate(ctx, &actor, action, "appointment", id.String(), from, fields)
	u.announce(ctx, appointment)

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) findOwned(ctx context.Context, id uuid.UUID, owner *uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	// another doctor's appointment is reported as absent
	if owner != nil && appointment.DoctorID != *owner {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

func (u *appointmentUsecase) AttachDocument(ctx context.Context, doctorID, id uuid.UUID, doc Document) (*dto.AppointmentResponse, error) {
	if !doc.Kind.IsValid() {
		return nil, apperror.Validation("document type must be progress or prescription")
	}
	ext := strings.ToLower(filepath.Ext(doc.Filename))
	if _, ok := allowedDocumentExtensions[ext]; !ok {
		return nil, apperror.Validation("file type not allowed, use PDF, JPG, PNG, DOC or DOCX")
	}
	if doc.Size > MaxDocumentSize {
		return nil, apperror.Validation("file must be 10 MB or smaller")
	}

	appointment, err := u.findOwned(ctx, id, &doctorID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	blobPath := fmt.Sprintf("appointments/%s/%s/%d_%s", id, doc.Kind, now.UnixMilli(), sanitizeFilename(doc.Filename))
	url, err := u.blobs.Put(ctx, blobPath, doc.Content)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			return nil, apperror.Validation("file must be 10 MB or smaller")
		}
		u.log.Warnf("Failed to upload document: %+v", err)
		return nil, apperror.Storage("failed to upload document", err)
	}

	if err := appointment.AttachDocument(doc.Kind, url, now); err != nil {
		u.discardBlob(ctx, url)
		return nil, err
	}

	fields := map[string]interface{}{
		doc.Kind.Column():    url,
		"report_uploaded_at": appointment.ReportUploadedAt,
	}
	rows, err := u.appointmentRepo.UpdateFields(ctx, id, repository.AppointmentScope{DoctorID: &doctorID}, fields)
	if err != nil || rows == 0 {
		u.discardBlob(ctx, url)
		if err != nil {
			u.log.Warnf("Failed to record document on appointment %s: %+v", id, err)
			return nil, err
		}
		return nil, ErrAppointmentNotFound
	}

	u.metrics.DocumentsAttached.WithLabelValues(string(doc.Kind)).Inc()
	u.auditService.LogUpdate(ctx, &doctorID, entity.AuditActionDocumentAttach, "appointment", id.String(), nil, fields)
	u.announce(ctx, appointment)

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) discardBlob(ctx context.Context, url string) {
	if err := u.blobs.Delete(ctx, url); err != nil {
		u.log.Warnf("Failed to delete orphaned document %s: %+v", url, err)
	}
}

func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	cleaned := strings.Trim(unsafeFileChars.ReplaceAllString(base, "_"), "._")
	if cleaned == "" {
		return "document"
	}
	return cleaned
}

func (u *appointmentUsecase) AddComment(ctx context.Context, doctorID, id uuid.UUID, req *dto.CommentRequest) (*dto.AppointmentResponse, error) {
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return nil, apperror.Validation("comment is required")
	}

	appointment, err := u.findOwned(ctx, id, &doctorID)
	if err != nil {
		return nil, err
	}

	old := appointment.DoctorComment
	fields := map[string]interface{}{"doctor_comment": comment}
	rows, err := u.appointmentRepo.UpdateFields(ctx, id, repository.AppointmentScope{DoctorID: &doctorID}, fields)
	if err != nil {
		u.log.Warnf("Failed to save comment on appointment %s: %+v", id, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrAppointmentNotFound
	}
	appointment.DoctorComment = comment

	u.auditService.LogUpdate(ctx, &doctorID, entity.AuditActionAppointmentComment, "appointment", id.String(), old, comment)
	u.announce(ctx, appointment)

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) AdminView(ctx context.Context, filter dto.AppointmentFilter) (*dto.AdminAppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find appointments: %+v", err)
		return nil, err
	}
	return projection.AdminAppointments(appointments, filter), nil
}

func (u *appointmentUsecase) DoctorView(ctx context.Context, doctorID uuid.UUID, filter dto.AppointmentFilter) (*dto.DoctorAppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	return projection.DoctorAppointments(appointments, filter), nil
}

func (u *appointmentUsecase) PatientView(ctx context.Context, userID uuid.UUID) (*dto.PatientDashboardResponse, error) {
	appointments, err := u.appointmentRepo.FindByUserID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", userID, err)
		return nil, err
	}
	return projection.PatientDashboard(appointments, u.location), nil
}

func (u *appointmentUsecase) announce(ctx context.Context, a *entity.Appointment) {
	doctorID := a.DoctorID
	publish(ctx, u.log, u.publisher, live.Change{
		Collection: live.CollectionAppointments,
		ID:         a.ID.String(),
		UserID:     a.UserID,
		DoctorID:   &doctorID,
	})
}
