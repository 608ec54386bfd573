package database

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"orghub-backend/shared/database/models"
	utils "orghub-backend/shared/utils/auth"
)

// SeedDatabase seeds the database with a demo organization and admin account
func SeedDatabase() error {
	log.Println("🌱 Checking database seed data...")

	org, orgCreated, err := seedDemoOrganization()
	if err != nil {
		return err
	}

	user, userCreated, err := seedAdminUser("admin@orghub.dev", "admin1234", "Admin", "User")
	if err != nil {
		return err
	}

	membershipCreated, err := seedMembership(user, org)
	if err != nil {
		return err
	}

	if orgCreated || userCreated || membershipCreated {
		log.Println("✅ Database seeding completed")
	} else {
		log.Println("✅ Database seed data is up to date")
	}

	return nil
}

func seedDemoOrganization() (*models.Organization, bool, error) {
	var existing models.Organization
	err := DB.Where("name = ?", "OrgHub Demo").First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	org := models.Organization{
		Name:      "OrgHub Demo",
		LegalName: "OrgHub Demo Inc.",
		Address:   "1 Demo Street",
		OrgType:   "company",
	}
	if err := DB.Create(&org).Error; err != nil {
		return nil, false, err
	}

	log.Printf("📦 Created demo organization: %s", org.Name)
	return &org, true, nil
}

func seedAdminUser(email, password, firstName, lastName string) (*models.User, bool, error) {
	email = utils.NormalizeEmail(email)

	var existing models.User
	err := DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	user := models.User{
		Email:           email,
		PasswordHash:    passwordHash,
		PhoneNumber:     "+10000000000",
		FirstName:       firstName,
		LastName:        lastName,
		IsEmailVerified: true,
	}
	if err := DB.Create(&user).Error; err != nil {
		return nil, false, err
	}

	log.Printf("📦 Created admin user: %s", user.Email)
	return &user, true, nil
}

func seedMembership(user *models.User, org *models.Organization) (bool, error) {
	var existing models.OrganizationUser
	err := DB.Where("user_id = ? AND organization_id = ?", user.ID, org.ID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	membership := models.OrganizationUser{
		UserID:         user.ID,
		OrganizationID: org.ID,
	}
	if err := DB.Create(&membership).Error; err != nil {
		return false, err
	}

	return true, nil
}
