package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	PhoneNumber  string    `json:"phone_number" gorm:"size:20"`
	FirstName    string    `json:"first_name" gorm:"size:100"`
	LastName     string    `json:"last_name" gorm:"size:100"`
	RefreshToken *string   `json:"-"`

	// Reset token columns are present-or-absent together and cleared in the
	// same update that writes the new password hash.
	ResetPasswordToken  *string    `json:"-" gorm:"size:64;index"`
	ResetPasswordExpiry *time.Time `json:"-"`

	IsEmailVerified bool      `json:"is_email_verified" gorm:"default:false"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	Memberships []OrganizationUser `json:"-" gorm:"foreignKey:UserID"`
}
