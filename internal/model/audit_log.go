package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit action labels
const (
	AuditLoginSuccess  = "login success"
	AuditLoginFailure  = "login failure"
	AuditLogout        = "logout"
	AuditProductCreate = "product created"
	AuditProductUpdate = "product updated"
	AuditProductDelete = "product deleted"
	AuditStockMovement = "stock movement"
	AuditSeedUsers     = "default accounts seeded"
)

// AuditLog is an append-only record of a sensitive action. Username is
// denormalized so the trail stays readable if the user is ever removed.
// Rows are never updated or deleted.
type AuditLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`
	Username  string     `gorm:"type:varchar(100);not null" json:"username"`
	Action    string     `gorm:"type:varchar(100);not null" json:"action"`
	Details   string     `gorm:"type:text" json:"details"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

// Audit rows do not embed BaseModel (no UpdatedAt/DeletedAt), so generate
// the UUID here.
func (l *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
