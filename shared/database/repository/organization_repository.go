package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"orghub-backend/shared/database/models"
)

type organizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a gorm-backed OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) Create(org *models.Organization) error {
	return r.db.Create(org).Error
}

func (r *organizationRepository) FindByID(id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Where("id = ?", id).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) Update(org *models.Organization) error {
	return r.db.Save(org).Error
}

func (r *organizationRepository) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	return r.db.Model(&models.Organization{}).Where("id = ?", id).Updates(fields).Error
}

func (r *organizationRepository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&models.Organization{}).Error
}

func (r *organizationRepository) AddMember(membership *models.OrganizationUser) error {
	return r.db.Create(membership).Error
}

func (r *organizationRepository) HasMembership(userID, orgID uuid.UUID) (bool, error) {
	var membership models.OrganizationUser
	err := r.db.Where("user_id = ? AND organization_id = ?", userID, orgID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *organizationRepository) MemberUserIDs(orgID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&models.OrganizationUser{}).
		Where("organization_id = ?", orgID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *organizationRepository) DeleteMembershipsByOrganization(orgID uuid.UUID) error {
	return r.db.Where("organization_id = ?", orgID).Delete(&models.OrganizationUser{}).Error
}

func (r *organizationRepository) CountMembershipsByUser(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.OrganizationUser{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
