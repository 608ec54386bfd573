package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"orghub-backend/account-service/services"
	"orghub-backend/shared/config"
	"orghub-backend/shared/database/models"
	"orghub-backend/shared/database/repository"
	utils "orghub-backend/shared/utils/auth"
	"orghub-backend/shared/utils/response"
)

type OrganizationHandler struct {
	orgs   repository.OrganizationRepository
	users  repository.UserRepository
	mailer services.Mailer
	cfg    *config.Config
}

func NewOrganizationHandler(orgs repository.OrganizationRepository, users repository.UserRepository, mailer services.Mailer, cfg *config.Config) *OrganizationHandler {
	return &OrganizationHandler{orgs: orgs, users: users, mailer: mailer, cfg: cfg}
}

// CreateOrganizationRequest represents the request body for creating an organization
type CreateOrganizationRequest struct {
	OrgName      string `json:"orgName"`
	OrgLegalName string `json:"orgLegalName"`
	OrgAddress   string `json:"orgAddress"`
	OrgType      string `json:"orgType"`
}

// UpdateOrganizationRequest represents the request body for updating an organization
type UpdateOrganizationRequest struct {
	ID            uuid.UUID `json:"id"`
	OrgName       string    `json:"orgName"`
	OrgLegalName  string    `json:"orgLegalName"`
	OrgAddress    string    `json:"orgAddress"`
	OrgType       string    `json:"orgType"`
	PaymentMethod string    `json:"paymentMethod"`
}

// DeleteOrganizationRequest represents the request body for deleting an organization
type DeleteOrganizationRequest struct {
	ID uuid.UUID `json:"id"`
}

// AddMemberRequest represents the request body for adding a member
type AddMemberRequest struct {
	UserID         uuid.UUID `json:"userId"`
	OrganizationID uuid.UUID `json:"organizationId"`
}

// InviteUserRequest represents the request body for inviting a user
type InviteUserRequest struct {
	Email            string `json:"email"`
	FirstName        string `json:"firstName"`
	Role             string `json:"role"`
	OrganizationName string `json:"organizationName"`
}

// POST /api/v0/organizations/create-org
// @Summary Create organization
// @Description Create a new organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param request body CreateOrganizationRequest true "Organization data"
// @Success 201 {object} response.Envelope "Organization created"
// @Failure 400 {object} response.Envelope "Missing fields"
// @Router /organizations/create-org [post]
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BadRequest(err.Error()))
		return
	}

	fields := []string{req.OrgName, req.OrgLegalName, req.OrgAddress, req.OrgType}
	for _, field := range fields {
		if strings.TrimSpace(field) == "" {
			response.Error(c, response.BadRequest("All fields are mandatory!"))
			return
		}
	}

	org := models.Organization{
		Name:      req.OrgName,
		LegalName: req.OrgLegalName,
		Address:   req.OrgAddress,
		OrgType:   req.OrgType,
	}

	if err := h.orgs.Create(&org); err != nil {
		response.Error(c, response.InternalServerError("Error in creating organization"))
		return
	}

	response.Success(c, http.StatusCreated, org, "Organization created successfully!!!")
}

// POST /api/v0/organizations/update-org
// @Summary Update organization
// @Description Partially update an organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param request body UpdateOrganizationRequest true "Fields to update"
// @Success 200 {object} response.Envelope "Organization updated"
// @Failure 400 {object} response.Envelope "No fields provided"
// @Failure 404 {object} response.Envelope "Organization not found"
// @Router /organizations/update-org [post]
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	var req UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BadRequest(err.Error()))
		return
	}

	if req.OrgName == "" && req.OrgAddress == "" && req.OrgLegalName == "" &&
		req.PaymentMethod == "" && req.OrgType == "" {
		response.Error(c, response.BadRequest("Please provide at least one field to update."))
		return
	}

	if _, err := h.orgs.FindByID(req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, response.NotFound("Organization not found."))
			return
		}
		response.Error(c, response.InternalServerError(""))
		return
	}

	fields := map[string]interface{}{}
	if req.OrgName != "" {
		fields["name"] = req.OrgName
	}
	if req.OrgAddress != "" {
		fields["address"] = req.OrgAddress
	}
	if req.OrgLegalName != "" {
		fields["legal_name"] = req.OrgLegalName
	}
	if req.PaymentMethod != "" {
		fields["payment_method"] = req.PaymentMethod
	}
	if req.OrgType != "" {
		fields["org_type"] = req.OrgType
	}

	if err := h.orgs.UpdateFields(req.ID, fields); err != nil {
		response.Error(c, response.InternalServerError("Error updating the organization data."))
		return
	}

	updated, err := h.orgs.FindByID(req.ID)
	if err != nil {
		response.Error(c, response.InternalServerError("Error updating the organization data."))
		return
	}

	response.Success(c, http.StatusOK, updated, "Data updated successfully!")
}

// POST /api/v0/organizations/delete-org
// @Summary Delete organization
// @Description Delete an organization, its memberships, and any orphaned users
// @Tags organizations
// @Accept json
// @Produce json
// @Param request body DeleteOrganizationRequest true "Organization ID"
// @Success 200 {object} response.Envelope "Organization deleted"
// @Failure 404 {object} response.Envelope "Organization not found"
// @Router /organizations/delete-org [post]
func (h *OrganizationHandler) DeleteOrganization(c *gin.Context) {
	var req DeleteOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BadRequest(err.Error()))
		return
	}

	if _, err := h.orgs.FindByID(req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, response.NotFound("Organization not found."))
			return
		}
		response.Error(c, response.InternalServerError(""))
		return
	}

	userIDs, err := h.orgs.MemberUserIDs(req.ID)
	if err != nil {
		response.Error(c, response.InternalServerError("Could not delete organization"))
		return
	}

	// Memberships go first; only then can the per-user count say whether a
	// user is orphaned. A user who still belongs to another org keeps a
	// non-zero count and survives.
	if err := h.orgs.DeleteMembershipsByOrganization(req.ID); err != nil {
		response.Error(c, response.InternalServerError("Could not delete organization"))
		return
	}

	for _, userID := range userIDs {
		count, err := h.orgs.CountMembershipsByUser(userID)
		if err != nil {
			response.Error(c, response.InternalServerError("Could not delete organization"))
			return
		}
		if count == 0 {
			if err := h.users.Delete(userID); err != nil {
				response.Error(c, response.InternalServerError("Could not delete organization"))
				return
			}
		}
	}

	if err := h.orgs.Delete(req.ID); err != nil {
		response.Error(c, response.InternalServerError("Could not delete organization"))
		return
	}

	response.Success(c, http.StatusOK, nil, "Organization and orphan users deleted successfully.")
}

// POST /api/v0/organizations/add-member
// @Summary Add organization member
// @Description Link an existing user to an organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param request body AddMemberRequest true "User and organization IDs"
// @Success 201 {object} response.Envelope "Member added"
// @Failure 404 {object} response.Envelope "User or organization not found"
// @Failure 409 {object} response.Envelope "Already a member"
// @Router /organizations/add-member [post]
func (h *OrganizationHandler) AddMember(c *gin.Context) {
	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BadRequest(err.Error()))
		return
	}

	if req.UserID == uuid.Nil || req.OrganizationID == uuid.Nil {
		response.Error(c, response.BadRequest("userId and organizationId are required"))
		return
	}

	if _, err := h.users.FindByID(req.UserID); err != nil {
		response.Error(c, response.NotFound("User not found"))
		return
	}

	if _, err := h.orgs.FindByID(req.OrganizationID); err != nil {
		response.Error(c, response.NotFound("Organization not found."))
		return
	}

	exists, err := h.orgs.HasMembership(req.UserID, req.OrganizationID)
	if err != nil {
		response.Error(c, response.InternalServerError("Could not add member"))
		return
	}
	if exists {
		response.Error(c, response.Conflict("User is already a member of this organization"))
		return
	}

	membership := models.OrganizationUser{
		UserID:         req.UserID,
		OrganizationID: req.OrganizationID,
	}

	if err := h.orgs.AddMember(&membership); err != nil {
		response.Error(c, response.InternalServerError("Could not add member"))
		return
	}

	response.Success(c, http.StatusCreated, membership, "Member added successfully")
}

// POST /api/v0/organizations/invite-user
// @Summary Invite user to organization
// @Description Email an invitation link carrying an opaque token
// @Tags organizations
// @Accept json
// @Produce json
// @Param request body InviteUserRequest true "Invitation data"
// @Success 200 {object} response.Envelope "Invitation sent"
// @Failure 400 {object} response.Envelope "Missing fields"
// @Failure 500 {object} response.Envelope "Email send failure"
// @Router /organizations/invite-user [post]
func (h *OrganizationHandler) InviteUser(c *gin.Context) {
	var req InviteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BadRequest(err.Error()))
		return
	}

	fields := []string{req.Role, req.Email, req.FirstName}
	for _, field := range fields {
		if strings.TrimSpace(field) == "" {
			response.Error(c, response.BadRequest("All fields are mandatory"))
			return
		}
	}

	// The invite token is opaque and only travels in the link; there is no
	// acceptance endpoint yet, so nothing is persisted.
	inviteToken, err := utils.GenerateRandomToken(20)
	if err != nil {
		response.Error(c, response.InternalServerError("Could not create invite token"))
		return
	}

	inviteLink := fmt.Sprintf("%s/invite?token=%s", h.cfg.FrontendURL, inviteToken)

	subject, body, err := services.InviteUserMail(req.FirstName, inviteLink, req.OrganizationName)
	if err != nil {
		response.Error(c, response.InternalServerError("Error in sending the email"))
		return
	}

	if err := h.mailer.Send(services.EmailMessage{
		To:      []string{utils.NormalizeEmail(req.Email)},
		Subject: subject,
		Body:    body,
		IsHTML:  true,
	}); err != nil {
		response.Error(c, response.InternalServerError("Error in sending the email"))
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"inviteLink": inviteLink,
	}, fmt.Sprintf("Invitation sent to %s", req.Email))
}
