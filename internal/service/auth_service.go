package service

import (
	"fmt"

	apperrors "go-stockwatch/internal/errors"
	"go-stockwatch/internal/model"
	"go-stockwatch/internal/repository"
	"go-stockwatch/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(username, password string) (*LoginResponse, error)
	Logout(principal model.Principal) error
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditLogRepository
	db        *gorm.DB
}

func NewAuthService(userRepo repository.UserRepository, auditRepo repository.AuditLogRepository, db *gorm.DB) AuthService {
	return &authService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		db:        db,
	}
}

// Login verifies credentials and establishes the session. Every call, success
// or failure, writes exactly one audit entry. The failure message never says
// whether the username or the password was wrong.
func (s *authService) Login(username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil || !user.CheckPassword(password) {
		details := fmt.Sprintf("attempted username: %s", username)
		if auditErr := s.auditRepo.Create(s.db, model.NewAuditLog(nil, model.AuditLoginFailure, details)); auditErr != nil {
			logrus.WithError(auditErr).Error("failed to record login failure")
			return nil, auditErr
		}
		return nil, apperrors.ErrAuthFailure
	}

	// Single active session: rotating the token version invalidates any token
	// issued before this login. Rotation and the audit entry share one
	// transaction.
	newTokenVersion := uuid.New().String()
	principal := model.Principal{ID: user.ID, Username: user.Username, Role: user.Role}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.UpdateTokenVersion(tx, user.ID, newTokenVersion); err != nil {
			return err
		}
		return s.auditRepo.Create(tx, model.NewAuditLog(&principal, model.AuditLoginSuccess, ""))
	})
	if err != nil {
		return nil, err
	}

	token, err := jwt.GenerateToken(user.ID, user.Username, user.Role, newTokenVersion)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

// Logout clears the user's token version, invalidating the active session,
// and records the departure in the audit trail.
func (s *authService) Logout(principal model.Principal) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.UpdateTokenVersion(tx, principal.ID, ""); err != nil {
			return err
		}
		return s.auditRepo.Create(tx, model.NewAuditLog(&principal, model.AuditLogout, ""))
	})
}
