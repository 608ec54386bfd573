package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"orghub-backend/account-service/middleware"
	"orghub-backend/account-service/services"
	"orghub-backend/shared/config"
	"orghub-backend/shared/database/models"
	"orghub-backend/shared/database/repository"
	utils "orghub-backend/shared/utils/auth"
	"orghub-backend/shared/utils/response"
)

type UserHandler struct {
	users  repository.UserRepository
	mailer services.Mailer
	cfg    *config.Config
}

func NewUserHandler(users repository.UserRepository, mailer services.Mailer, cfg *config.Config) *UserHandler {
	return &UserHandler{users: users, mailer: mailer, cfg: cfg}
}

// SanitizedUser is the user payload returned by the API. The password hash
// and reset token fields are never serialized.
type SanitizedUser struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	PhoneNumber     string    `json:"phoneNumber"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
}

func sanitizeUser(user *models.User) SanitizedUser {
	return SanitizedUser{
		ID:              user.ID,
		Email:           user.Email,
		PhoneNumber:     user.PhoneNumber,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		IsEmailVerified: user.IsEmailVerified,
		CreatedAt:       user.CreatedAt,
	}
}

// SignUpRequest represents the request body for user registration
type SignUpRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
}

// SignInRequest represents the request body for user login
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest represents the request body for profile updates
type UpdateUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// POST /api/v0/users/sign-up
// @Summary Register new user
// @Description Register a new user account
// @Tags users
// @Accept json
// @Produce json
// @Param request body SignUpRequest true "Registration data"
// @Success 201 {object} response.Envelope "User created"
// @Failure 400 {object} response.Envelope "Validation error"
// @Failure 409 {object} response.Envelope "Email already in use"
// @Router /users/sign-up [post]
func (h *UserHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BadRequest(err.Error()))
		return
	}

	fields := []string{req.PhoneNumber, req.Email, req.Password, req.FirstName, req.LastName}
	for _, field := range fields {
		if strings.TrimSpace(field) == "" {
			response.Error(c, response.BadRequest("All fields are required"))
			return
		}
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		response.Error(c, response.BadRequest("Password must be at least 8 characters long and include both letters and numbers"))
		return
	}

	email := utils.NormalizeEmail(req.Email)
	if err := utils.ValidateEmail(email); err != nil {
		response.Error(c, response.BadRequest(err.Error()))
		return
	}

	// Check email uniqueness (case-insensitive, emails are stored lower-case)
	if _, err := h.users.FindByEmail(email); err == nil {
		response.Error(c, response.Conflict("Email or phone number already in use"))
		return
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Error(c, response.InternalServerError("Could not hash password"))
		return
	}

	user := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		PhoneNumber:  req.PhoneNumber,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}

	if err := h.users.Create(&user); err != nil {
		response.Error(c, response.InternalServerError("User can't be created!"))
		return
	}

	created, err := h.users.FindByID(user.ID)
	if err != nil {
		response.Error(c, response.InternalServerError("User can't be created!"))
		return
	}

	response.Success(c, http.StatusCreated, sanitizeUser(created), "User created successfully")
}

// POST /api/v0/users/sign-in
// @Summary User login
// @Description Authenticate a user and set access/refresh token cookies
// @Tags users
// @Accept json
// @Produce json
// @Param request body SignInRequest true "Login credentials"
// @Success 200 {object} response.Envelope "Logged in"
// @Failure 400 {object} response.Envelope "Missing fields"
// @Failure 401 {object} response.Envelope "Incorrect password"
// @Failure 404 {object} response.Envelope "User not found"
// @Router /users/sign-in [post]
func (h *UserHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BadRequest(err.Error()))
		return
	}

	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Password) == "" {
		response.Error(c, response.BadRequest("All fields are mandatory"))
		return
	}

	user, err := h.users.FindByEmail(utils.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, response.NotFound("User not found!"))
			return
		}
		response.Error(c, response.InternalServerError(""))
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		response.Error(c, response.IncorrectCredentials("Incorrect password"))
		return
	}

	accessToken, err := utils.GenerateAccessToken(user)
	if err != nil {
		response.Error(c, response.InternalServerError("Could not generate token"))
		return
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		response.Error(c, response.InternalServerError("Could not generate refresh token"))
		return
	}

	// Persist the refresh token so sign-out can clear it
	if err := h.users.UpdateFields(user.ID, map[string]interface{}{
		"refresh_token": refreshToken,
	}); err != nil {
		response.Error(c, response.InternalServerError("Could not persist refresh token"))
		return
	}

	h.setAuthCookies(c, accessToken, refreshToken)

	response.Success(c, http.StatusOK, sanitizeUser(user), "User logged in successfully")
}

// POST /api/v0/users/sign-out
// @Summary User logout
// @Description Clear auth cookies and the stored refresh token
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope "Logged out"
// @Failure 401 {object} response.Envelope "Not authenticated"
// @Router /users/sign-out [post]
func (h *UserHandler) SignOut(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, response.Unauthorized("Not authenticated"))
		return
	}

	if err := h.users.UpdateFields(user.ID, map[string]interface{}{
		"refresh_token": nil,
	}); err != nil {
		response.Error(c, response.InternalServerError("Could not sign out"))
		return
	}

	h.clearAuthCookies(c)

	response.Success(c, http.StatusOK, nil, "User logged out successfully")
}

// PATCH /api/v0/users/update-user
// @Summary Update user profile
// @Description Update email, first name or last name of the authenticated user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateUserRequest true "Fields to update"
// @Success 200 {object} response.Envelope "User updated"
// @Failure 400 {object} response.Envelope "No fields provided"
// @Failure 409 {object} response.Envelope "Email already in use"
// @Router /users/update-user [patch]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, response.BadRequest(err.Error()))
		return
	}

	if req.Email == "" && req.FirstName == "" && req.LastName == "" {
		response.Error(c, response.BadRequest("At least one field must be provided"))
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, response.Unauthorized("Not authenticated"))
		return
	}

	fields := map[string]interface{}{}
	if req.Email != "" {
		email := utils.NormalizeEmail(req.Email)
		if err := utils.ValidateEmail(email); err != nil {
			response.Error(c, response.BadRequest(err.Error()))
			return
		}
		if existing, err := h.users.FindByEmail(email); err == nil && existing.ID != user.ID {
			response.Error(c, response.Conflict("Email or phone number already in use"))
			return
		}
		fields["email"] = email
	}
	if req.FirstName != "" {
		fields["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		fields["last_name"] = req.LastName
	}

	if err := h.users.UpdateFields(user.ID, fields); err != nil {
		response.Error(c, response.InternalServerError("Could not update user"))
		return
	}

	updated, err := h.users.FindByID(user.ID)
	if err != nil {
		response.Error(c, response.InternalServerError("Could not update user"))
		return
	}

	response.Success(c, http.StatusOK, sanitizeUser(updated), "User updated successfully")
}

// Cookie lifetime matches the refresh token: 7 days
const authCookieMaxAge = 7 * 24 * 60 * 60

func (h *UserHandler) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	secure := h.cfg.IsProduction()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("accessToken", accessToken, authCookieMaxAge, "/", "", secure, true)
	c.SetCookie("refreshToken", refreshToken, authCookieMaxAge, "/", "", secure, true)
}

func (h *UserHandler) clearAuthCookies(c *gin.Context) {
	secure := h.cfg.IsProduction()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("accessToken", "", -1, "/", "", secure, true)
	c.SetCookie("refreshToken", "", -1, "/", "", secure, true)
}
