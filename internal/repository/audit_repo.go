package repository

import (
	"go-stockwatch/internal/model"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(tx *gorm.DB, entry *model.AuditLog) error
	FindRecent(limit int) ([]model.AuditLog, error)
}

type auditLogRepo struct {
	db *gorm.DB
}

func NewAuditLogRepo(db *gorm.DB) AuditLogRepository {
	return &auditLogRepo{db}
}

// Create appends one audit row inside the caller's transaction, so a failed
// log write rolls back the business mutation it describes.
func (r *auditLogRepo) Create(tx *gorm.DB, entry *model.AuditLog) error {
	return tx.Create(entry).Error
}

func (r *auditLogRepo) FindRecent(limit int) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	err := r.db.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
