package usecase

import (
	"context"

	"hospital-portal/internal/converter"
	"hospital-portal/internal/delivery/dto"
	"hospital-portal/internal/domain/apperror"
	"hospital-portal/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

// DefaultAuditLogLimit bounds the audit log listing.
const DefaultAuditLogLimit = 200

var ErrAuditLogNotFound = apperror.NotFound("audit log")

type AuditLogUsecase interface {
	List(ctx context.Context, limit int) (*dto.AuditLogListResponse, error)
	Get(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(log *logrus.Logger, auditLogRepo repository.AuditLogRepository) AuditLogUsecase {
	return &auditLogUsecase{
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) List(ctx context.Context, limit int) (*dto.AuditLogListResponse, error) {
	if limit <= 0 || limit > DefaultAuditLogLimit {
		limit = DefaultAuditLogLimit
	}

	logs, err := u.auditLogRepo.FindAll(ctx, limit)
	if err != nil {
		u.log.Warnf("Failed to find audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

func (u *auditLogUsecase) Get(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := u.auditLogRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}
	return converter.AuditLogToResponse(auditLog), nil
}
