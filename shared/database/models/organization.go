package models

import (
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"size:200;not null"`
	LegalName string    `json:"legal_name" gorm:"size:200;not null"`
	Address   string    `json:"address" gorm:"size:500;not null"`
	OrgType   string    `json:"org_type" gorm:"size:100;not null"`
	// Stored as provided, never interpreted.
	PaymentMethod *string   `json:"payment_method" gorm:"size:100"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Members []OrganizationUser `json:"-" gorm:"foreignKey:OrganizationID"`
}
