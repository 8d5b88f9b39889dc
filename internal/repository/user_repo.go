package repository

import (
	"go-stockwatch/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByUsername(username string) (*model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	Create(tx *gorm.DB, user *model.User) error
	Count() (int64, error)
	UpdateTokenVersion(tx *gorm.DB, userID uuid.UUID, version string) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Create(tx *gorm.DB, user *model.User) error {
	return tx.Create(user).Error
}

// Count includes soft-deleted rows; provisioning must never reseed once any
// user has ever existed.
func (r *userRepo) Count() (int64, error) {
	var count int64
	err := r.db.Unscoped().Model(&model.User{}).Count(&count).Error
	return count, err
}

func (r *userRepo) UpdateTokenVersion(tx *gorm.DB, userID uuid.UUID, version string) error {
	return tx.Model(&model.User{}).Where("id = ?", userID).Update("token_version", version).Error
}
