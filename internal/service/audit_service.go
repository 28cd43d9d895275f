package service

import (
	"context"

	"hospital-portal/internal/domain/entity"
	"hospital-portal/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditService writes audit rows after a change has been committed. A failed
// audit write is logged and never fails the operation that triggered it.
type AuditService interface {
	LogCreate(ctx context.Context, actor *uuid.UUID, action, entityName, entityID string, newValue interface{})
	LogUpdate(ctx context.Context, actor *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{})
	LogDelete(ctx context.Context, actor *uuid.UUID, action, entityName, entityID string, oldValue interface{})
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) LogCreate(ctx context.Context, actor *uuid.UUID, action, entityName, entityID string, newValue interface{}) {
	s.write(ctx, actor, action, entityName, entityID, nil, newValue)
}

func (s *auditService) LogUpdate(ctx context.Context, actor *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) {
	s.write(ctx, actor, action, entityName, entityID, oldValue, newValue)
}

func (s *auditService) LogDelete(ctx context.Context, actor *uuid.UUID, action, entityName, entityID string, oldValue interface{}) {
	s.write(ctx, actor, action, entityName, entityID, oldValue, nil)
}

func (s *auditService) write(ctx context.Context, actor *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) {
	auditLog := &entity.AuditLog{
		UserID: actor,
		Action: action,
		Metadata: entity.JSON{
			"entity":    entityName,
			"entity_id": entityID,
			"old_value": oldValue,
			"new_value": newValue,
		},
	}

	if err := s.auditRepo.Create(ctx, auditLog); err != nil {
		s.log.WithFields(logrus.Fields{
			"action":    action,
			"entity":    entityName,
			"entity_id": entityID,
		}).Warnf("Failed to create audit log: %+v", err)
	}
}
