package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"orghub-backend/shared/database/models"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a gorm-backed UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *userRepository) FindByResetToken(hashedToken string, now time.Time) (*models.User, error) {
	var user models.User
	if err := r.db.Where("reset_password_token = ? AND reset_password_expiry > ?",
		hashedToken, now).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ConsumeResetToken(id uuid.UUID, newPasswordHash string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash":         newPasswordHash,
		"reset_password_token":  nil,
		"reset_password_expiry": nil,
	}).Error
}

func (r *userRepository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&models.User{}).Error
}
