package service

import (
	"go-stockwatch/internal/model"
	"go-stockwatch/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedDefaultUsers provisions the two fixed accounts on first startup. It is
// idempotent: once any user has ever existed it never runs again. The seed and
// its audit entry commit together.
func SeedDefaultUsers(db *gorm.DB, userRepo repository.UserRepository, auditRepo repository.AuditLogRepository) error {
	count, err := userRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := &model.User{Username: "admin", Role: model.RoleAdmin}
	if err := admin.SetPassword("admin123"); err != nil {
		return err
	}

	user := &model.User{Username: "user", Role: model.RoleUser}
	if err := user.SetPassword("user123"); err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := userRepo.Create(tx, admin); err != nil {
			return err
		}
		if err := userRepo.Create(tx, user); err != nil {
			return err
		}
		entry := &model.AuditLog{
			Username: "system",
			Action:   model.AuditSeedUsers,
			Details:  "accounts: admin (admin), user (user)",
		}
		return auditRepo.Create(tx, entry)
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{"admin": admin.Username, "user": user.Username}).
		Info("default accounts seeded")
	return nil
}
