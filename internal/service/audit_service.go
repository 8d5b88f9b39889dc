package service

import (
	"go-stockwatch/internal/model"
	"go-stockwatch/internal/repository"
)

const defaultAuditLimit = 100

type AuditService interface {
	Recent(limit int) ([]model.AuditLog, error)
}

type auditService struct {
	auditRepo repository.AuditLogRepository
}

func NewAuditService(aRepo repository.AuditLogRepository) AuditService {
	return &auditService{auditRepo: aRepo}
}

func (s *auditService) Recent(limit int) ([]model.AuditLog, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	return s.auditRepo.FindRecent(limit)
}
