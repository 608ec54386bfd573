package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"orghub-backend/account-service/middleware"
	"orghub-backend/account-service/services"
	"orghub-backend/shared/config"
	"orghub-backend/shared/database/models"
	utils "orghub-backend/shared/utils/auth"
)

// fakeUserRepo is an in-memory UserRepository used by handler tests
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for column, value := range fields {
		switch column {
		case "email":
			user.Email = value.(string)
		case "first_name":
			user.FirstName = value.(string)
		case "last_name":
			user.LastName = value.(string)
		case "refresh_token":
			if value == nil {
				user.RefreshToken = nil
			} else {
				token := value.(string)
				user.RefreshToken = &token
			}
		case "reset_password_token":
			if value == nil {
				user.ResetPasswordToken = nil
			} else {
				token := value.(string)
				user.ResetPasswordToken = &token
			}
		case "reset_password_expiry":
			if value == nil {
				user.ResetPasswordExpiry = nil
			} else {
				expiry := value.(time.Time)
				user.ResetPasswordExpiry = &expiry
			}
		}
	}
	user.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) FindByResetToken(hashedToken string, now time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ResetPasswordToken != nil && *user.ResetPasswordToken == hashedToken &&
			user.ResetPasswordExpiry != nil && user.ResetPasswordExpiry.After(now) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) ConsumeResetToken(id uuid.UUID, newPasswordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.PasswordHash = newPasswordHash
	user.ResetPasswordToken = nil
	user.ResetPasswordExpiry = nil
	return nil
}

func (r *fakeUserRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) get(id uuid.UUID) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied
	}
	return nil
}

// fakeOrgRepo is an in-memory OrganizationRepository used by handler tests
type fakeOrgRepo struct {
	mu          sync.Mutex
	orgs        map[uuid.UUID]*models.Organization
	memberships []models.OrganizationUser
}

func newFakeOrgRepo() *fakeOrgRepo {
	return &fakeOrgRepo{orgs: make(map[uuid.UUID]*models.Organization)}
}

func (r *fakeOrgRepo) Create(org *models.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	org.CreatedAt = time.Now()
	org.UpdatedAt = org.CreatedAt
	copied := *org
	r.orgs[org.ID] = &copied
	return nil
}

func (r *fakeOrgRepo) FindByID(id uuid.UUID) (*models.Organization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if org, ok := r.orgs[id]; ok {
		copied := *org
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrgRepo) Update(org *models.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orgs[org.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *org
	r.orgs[org.ID] = &copied
	return nil
}

func (r *fakeOrgRepo) UpdateFields(id uuid.UUID, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	org, ok := r.orgs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for column, value := range fields {
		switch column {
		case "name":
			org.Name = value.(string)
		case "legal_name":
			org.LegalName = value.(string)
		case "address":
			org.Address = value.(string)
		case "org_type":
			org.OrgType = value.(string)
		case "payment_method":
			method := value.(string)
			org.PaymentMethod = &method
		}
	}
	org.UpdatedAt = time.Now()
	return nil
}

func (r *fakeOrgRepo) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orgs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.orgs, id)
	return nil
}

func (r *fakeOrgRepo) AddMember(membership *models.OrganizationUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if membership.ID == uuid.Nil {
		membership.ID = uuid.New()
	}
	r.memberships = append(r.memberships, *membership)
	return nil
}

func (r *fakeOrgRepo) HasMembership(userID, orgID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.memberships {
		if m.UserID == userID && m.OrganizationID == orgID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeOrgRepo) MemberUserIDs(orgID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uuid.UUID
	for _, m := range r.memberships {
		if m.OrganizationID == orgID {
			ids = append(ids, m.UserID)
		}
	}
	return ids, nil
}

func (r *fakeOrgRepo) DeleteMembershipsByOrganization(orgID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.memberships[:0]
	for _, m := range r.memberships {
		if m.OrganizationID != orgID {
			kept = append(kept, m)
		}
	}
	r.memberships = kept
	return nil
}

func (r *fakeOrgRepo) CountMembershipsByUser(userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.memberships {
		if m.UserID == userID {
			count++
		}
	}
	return count, nil
}

// fakeMailer records sent messages and can be told to fail
type fakeMailer struct {
	mu   sync.Mutex
	sent []services.EmailMessage
	fail bool
}

func (m *fakeMailer) Send(message services.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp: connection refused")
	}
	m.sent = append(m.sent, message)
	return nil
}

func (m *fakeMailer) lastSent() (services.EmailMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return services.EmailMessage{}, false
	}
	return m.sent[len(m.sent)-1], true
}

// testEnv wires handlers the way main.go does, against the in-memory fakes
type testEnv struct {
	router *gin.Engine
	users  *fakeUserRepo
	orgs   *fakeOrgRepo
	mailer *fakeMailer
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("ACCESS_TOKEN_SECRET", "test-access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "test-refresh-secret")
	t.Setenv("FRONTEND_URL", "http://localhost:3000")
	config.LoadConfig()
	cfg := config.GetConfig()

	users := newFakeUserRepo()
	orgs := newFakeOrgRepo()
	mailer := &fakeMailer{}

	userHandler := NewUserHandler(users, mailer, cfg)
	orgHandler := NewOrganizationHandler(orgs, users, mailer, cfg)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	authRequired := middleware.AuthMiddleware(users)

	userRoutes := router.Group("/api/v0/users")
	{
		userRoutes.POST("/sign-up", userHandler.SignUp)
		userRoutes.POST("/sign-in", userHandler.SignIn)
		userRoutes.POST("/sign-out", authRequired, userHandler.SignOut)
		userRoutes.PATCH("/update-user", authRequired, userHandler.UpdateUser)
		userRoutes.POST("/request-forgot-password", authRequired, userHandler.RequestForgotPassword)
		userRoutes.GET("/reset-forgotten-password/:id", userHandler.ValidateResetToken)
		userRoutes.PATCH("/reset-forgotten-password/:id", userHandler.ResetForgottenPassword)
	}

	orgRoutes := router.Group("/api/v0/organizations")
	{
		orgRoutes.POST("/create-org", orgHandler.CreateOrganization)
		orgRoutes.POST("/update-org", orgHandler.UpdateOrganization)
		orgRoutes.POST("/delete-org", orgHandler.DeleteOrganization)
		orgRoutes.POST("/add-member", orgHandler.AddMember)
		orgRoutes.POST("/invite-user", orgHandler.InviteUser)
	}

	return &testEnv{router: router, users: users, orgs: orgs, mailer: mailer, cfg: cfg}
}

// seedUser creates a user row directly in the fake store
func (env *testEnv) seedUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		PhoneNumber:  "+15551234567",
		FirstName:    "Jane",
		LastName:     "Doe",
	}
	require.NoError(t, env.users.Create(user))
	return user
}

func (env *testEnv) seedOrg(t *testing.T, name string) *models.Organization {
	t.Helper()
	org := &models.Organization{
		Name:      name,
		LegalName: name + " LLC",
		Address:   "1 Main St",
		OrgType:   "startup",
	}
	require.NoError(t, env.orgs.Create(org))
	return org
}

func (env *testEnv) accessTokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := utils.GenerateAccessToken(user)
	require.NoError(t, err)
	return token
}

// request performs a JSON request against the test router. An empty token
// leaves the request unauthenticated.
func (env *testEnv) request(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// envelope decodes the uniform {status, message, data} response body
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}
