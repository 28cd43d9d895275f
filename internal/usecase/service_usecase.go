package usecase

import (
	"context"
	"strings"

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
)

var ErrServiceNotFound = apperror.NotFound("service")

// ServiceUsecase manages the hospital services shown on the public site.
type ServiceUsecase interface {
	List(ctx context.Context, search string) (*dto.ServiceListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ServiceResponse, error)
	Create(ctx context.Context, adminID uuid.UUID, req *dto.ServiceRequest) (*dto.ServiceResponse, error)
	Update(ctx context.Context, adminID, id uuid.UUID, req *dto.ServiceRequest) (*dto.ServiceResponse, error)
	Delete(ctx context.Context, adminID, id uuid.UUID) error
}

type serviceUsecase struct {
	log          *logrus.Logger
	serviceRepo  repository.ServiceRepository
	auditService service.AuditService
	publisher    live.Publisher
}

func NewServiceUsecase(
	log *logrus.Logger,
	serviceRepo repository.ServiceRepository,
	auditService service.AuditService,
	publisher live.Publisher,
) ServiceUsecase {
	return &serviceUsecase{
		log:          log,
		serviceRepo:  serviceRepo,
		auditService: auditService,
		publisher:    publisher,
	}
}

func (u *serviceUsecase) List(ctx context.Context, search string) (*dto.ServiceListResponse, error) {
	services, err := u.serviceRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find services: %+v", err)
		return nil, err
	}

	filtered := projection.FilterServices(services, search)
	return &dto.ServiceListResponse{
		Services: converter.ServicesToResponses(filtered),
		Total:    len(filtered),
	}, nil
}

func (u *serviceUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.ServiceResponse, error) {
	svc, err := u.serviceRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find service: %+v", err)
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	return converter.ServiceToResponse(svc), nil
}

func applyServiceRequest(svc *entity.Service, req *dto.ServiceRequest) error {
	svc.Title = strings.TrimSpace(req.Title)
	svc.Description = strings.TrimSpace(req.Description)
	svc.IconURL = strings.TrimSpace(req.IconURL)
	svc.ImageURL = strings.TrimSpace(req.ImageURL)
	if svc.Title == "" || svc.Description == "" {
		return apperror.Validation("title and description are required")
	}
	return nil
}

func (u *serviceUsecase) Create(ctx context.Context, adminID uuid.UUID, req *dto.ServiceRequest) (*dto.ServiceResponse, error) {
	svc := &entity.Service{ID: uuid.New()}
	if err := applyServiceRequest(svc, req); err != nil {
		return nil, err
	}

	if err := u.serviceRepo.Create(ctx, svc); err != nil {
		u.log.Warnf("Failed to create service: %+v", err)
		return nil, err
	}

	response := converter.ServiceToResponse(svc)
	u.auditService.LogCreate(ctx, &adminID, entity.AuditActionServiceCreate, "service", svc.ID.String(), response)
	publish(ctx, u.log, u.publisher, live.Change{Collection: live.CollectionServices, ID: svc.ID.String()})

	return response, nil
}

func (u *serviceUsecase) Update(ctx context.Context, adminID, id uuid.UUID, req *dto.ServiceRequest) (*dto.ServiceResponse, error) {
	svc, err := u.serviceRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find service: %+v", err)
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	old := converter.ServiceToResponse(svc)

	if err := applyServiceRequest(svc, req); err != nil {
		return nil, err
	}
	if err := u.serviceRepo.Update(ctx, svc); err != nil {
		u.log.Warnf("Failed to update service: %+v", err)
		return nil, err
	}

	response := converter.ServiceToResponse(svc)
	u.auditService.LogUpdate(ctx, &adminID, entity.AuditActionServiceUpdate, "service", id.String(), old, response)
	publish(ctx, u.log, u.publisher, live.Change{Collection: live.CollectionServices, ID: id.String()})

	return response, nil
}

func (u *serviceUsecase) Delete(ctx context.Context, adminID, id uuid.UUID) error {
	rows, err := u.serviceRepo.Delete(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to delete service: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrServiceNotFound
	}

	u.auditService.LogDelete(ctx, &adminID, entity.AuditActionServiceDelete, "service", id.String(), nil)
	publish(ctx, u.log, u.publisher, live.Change{Collection: live.CollectionServices, ID: id.String()})

	return nil
}
