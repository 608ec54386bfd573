package repository

import (
	"time"

	"github.com/google/uuid"

	"orghub-backend/shared/database/models"
)

// UserRepository is the store surface for user rows. Handlers depend on this
// interface rather than a shared *gorm.DB so the store can be swapped in tests.
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id uuid.UUID) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	UpdateFields(id uuid.UUID, fields map[string]interface{}) error

	// FindByResetToken matches the stored one-way hash with an unexpired expiry.
	FindByResetToken(hashedToken string, now time.Time) (*models.User, error)
	// ConsumeResetToken writes the new password hash and clears both reset
	// columns in a single update, making the token single-use.
	ConsumeResetToken(id uuid.UUID, newPasswordHash string) error

	Delete(id uuid.UUID) error
}

// OrganizationRepository is the store surface for organizations and memberships.
type OrganizationRepository interface {
	Create(org *models.Organization) error
	FindByID(id uuid.UUID) (*models.Organization, error)
	Update(org *models.Organization) error
	UpdateFields(id uuid.UUID, fields map[string]interface{}) error
	Delete(id uuid.UUID) error

	AddMember(membership *models.OrganizationUser) error
	HasMembership(userID, orgID uuid.UUID) (bool, error)
	MemberUserIDs(orgID uuid.UUID) ([]uuid.UUID, error)
	DeleteMembershipsByOrganization(orgID uuid.UUID) error
	CountMembershipsByUser(userID uuid.UUID) (int64, error)
}
