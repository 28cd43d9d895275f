package usecase

import (
	"context"
	"strings"

	"hospital-portal/config"
	"hospital-portal/internal/converter"
	"hospital-portal/internal/delivery/dto"
	"hospital-portal/internal/domain/apperror"
	"hospital-portal/internal/domain/entity"
	"hospital-portal/internal/domain/repository"
	"hospital-portal/internal/live"
	"hospital-portal/internal/projection"
	"hospital-portal/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type DoctorUsecase interface {
	List(ctx context.Context, search string) (*dto.DoctorListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	// Create provisions the doctor's account, public record and profile together.
	Create(ctx context.Context, adminID uuid.UUID, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	Update(ctx context.Context, adminID, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	// Delete removes the public record only. The account and profile are kept.
	Delete(ctx context.Context, adminID, id uuid.UUID) error
}

type doctorUsecase struct {
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
	publisher    live.Publisher
	admin        config.AdminConfig
}

func NewDoctorUsecase(
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
	publisher live.Publisher,
	admin config.AdminConfig,
) DoctorUsecase {
	return &doctorUsecase{
		log:          log,
		doctorRepo:   doctorRepo,
		auditService: auditService,
		publisher:    publisher,
		admin:        admin,
	}
}

func (u *doctorUsecase) List(ctx context.Context, search string) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	filtered := projection.FilterDoctors(doctors, search)
	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(filtered),
		Total:   len(filtered),
	}, nil
}

func (u *doctorUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) Create(ctx context.Context, adminID uuid.UUID, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == u.admin.Email {
		return nil, apperror.Validation("email reserved")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	id := uuid.New()
	name := strings.TrimSpace(req.Name)
	account := &entity.Account{ID: id, Email: email, PasswordHash: string(hashedPassword)}
	doctor := &entity.Doctor{
		ID:        id,
		Name:      name,
		Specialty: strings.TrimSpace(req.Specialty),
		Bio:       strings.TrimSpace(req.Bio),
		PhotoURL:  strings.TrimSpace(req.PhotoURL),
		IsExpert:  req.IsExpert,
		Email:     email,
	}
	profile := &entity.UserProfile{ID: id, Email: email, Role: entity.RoleDoctor, Name: name}

	if err := u.doctorRepo.Provision(ctx, account, doctor, profile); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, apperror.Validation("email already exists")
		}
		u.log.Warnf("Failed to provision doctor: %+v", err)
		return nil, err
	}

	response := converter.DoctorToResponse(doctor)
	u.auditService.LogCreate(ctx, &adminID, entity.AuditActionDoctorCreate, "doctor", id.String(), response)
	publish(ctx, u.log, u.publisher, live.Change{Collection: live.CollectionDoctors, ID: id.String()})

	return response, nil
}

func (u *doctorUsecase) Update(ctx context.Context, adminID, id uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	old := converter.DoctorToResponse(doctor)

	if req.Name != nil {
		doctor.Name = strings.TrimSpace(*req.Name)
	}
	if req.Specialty != nil {
		doctor.Specialty = strings.TrimSpace(*req.Specialty)
	}
	if req.Bio != nil {
		doctor.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.PhotoURL != nil {
		doctor.PhotoURL = strings.TrimSpace(*req.PhotoURL)
	}
	if req.IsExpert != nil {
		doctor.IsExpert = *req.IsExpert
	}
	if doctor.Name == "" || doctor.Specialty == "" {
		return nil, apperror.Validation("name and specialty are required")
	}

	if err := u.doctorRepo.Update(ctx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor: %+v", err)
		return nil, err
	}

	response := converter.DoctorToResponse(doctor)
	u.auditService.LogUpdate(ctx, &adminID, entity.AuditActionDoctorUpdate, "doctor", id.String(), old, response)
	publish(ctx, u.log, u.publisher, live.Change{Collection: live.CollectionDoctors, ID: id.String()})

	return response, nil
}

func (u *doctorUsecase) Delete(ctx context.Context, adminID, id uuid.UUID) error {
	doctor, err := u.doctorRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	rows, err := u.doctorRepo.Delete(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to delete doctor: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrDoctorNotFound
	}

	u.auditService.LogDelete(ctx, &adminID, entity.AuditActionDoctorDelete, "doctor", id.String(), converter.DoctorToResponse(doctor))
	publish(ctx, u.log, u.publisher, live.Change{Collection: live.CollectionDoctors, ID: id.String()})

	return nil
}
