package service

import (
	"context"

	"doctor-intro-service/internal/domain/entity"
	"doctor-intro-service/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AuditService interface {
	LogCreate(ctx context.Context, doctorID *uuid.UUID, action string, newValue interface{}) error
	LogUpdate(ctx context.Context, doctorID *uuid.UUID, action string, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, doctorID *uuid.UUID, action string, oldValue interface{}) error
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

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, doctorID *uuid.UUID, action string, newValue interface{}) error {
	return s.write(ctx, doctorID, action, entity.JSON{
		"old_value": nil,
		"new_value": newValue,
	})
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, doctorID *uuid.UUID, action string, oldValue, newValue interface{}) error {
	return s.write(ctx, doctorID, action, entity.JSON{
		"old_value": oldValue,
		"new_value": newValue,
	})
}

// LogDelete logs a delete action with old value
func (s *auditService) LogDelete(ctx context.Context, doctorID *uuid.UUID, action string, oldValue interface{}) error {
	return s.write(ctx, doctorID, action, entity.JSON{
		"old_value": oldValue,
		"new_value": nil,
	})
}

func (s *auditService) write(ctx context.Context, doctorID *uuid.UUID, action string, metadata entity.JSON) error {
	auditLog := &entity.AuditLog{
		DoctorID: doctorID,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(ctx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
