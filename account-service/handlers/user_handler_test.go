package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUpCreatesUser(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v0/users/sign-up", gin.H{
		"email":       "Jane@Example.com",
		"password":    "abc12345",
		"phoneNumber": "+15551234567",
		"firstName":   "Jane",
		"lastName":    "Doe",
	}, "")

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "User created successfully", body.Message)

	var created SanitizedUser
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, "jane@example.com", created.Email, "emails are stored lower-case")
	assert.NotContains(t, w.Body.String(), "passwordHash")
	assert.NotContains(t, w.Body.String(), "abc12345")

	stored, err := env.users.FindByEmail("jane@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "abc12345", stored.PasswordHash)
}

func TestSignUpMissingField(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v0/users/sign-up", gin.H{
		"email":     "jane@example.com",
		"password":  "abc12345",
		"firstName": "Jane",
		"lastName":  "Doe",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All fields are required", decodeBody(t, w).Message)
}

func TestSignUpPasswordPolicy(t *testing.T) {
	env := newTestEnv(t)

	for _, password := range []string{"abcdefgh", "12345678", "a1b2c3"} {
		w := env.request(t, http.MethodPost, "/api/v0/users/sign-up", gin.H{
			"email":       "jane@example.com",
			"password":    password,
			"phoneNumber": "+15551234567",
			"firstName":   "Jane",
			"lastName":    "Doe",
		}, "")

		assert.Equal(t, http.StatusBadRequest, w.Code, "password %q should be rejected", password)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "jane@example.com", "abc12345")

	w := env.request(t, http.MethodPost, "/api/v0/users/sign-up", gin.H{
		"email":       "JANE@example.com",
		"password":    "abc12345",
		"phoneNumber": "+15550000000",
		"firstName":   "Other",
		"lastName":    "Jane",
	}, "")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email or phone number already in use", decodeBody(t, w).Message)
}

func TestSignInSetsCookiesAndRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "jane@example.com", "abc12345")

	w := env.request(t, http.MethodPost, "/api/v0/users/sign-in", gin.H{
		"email":    "jane@example.com",
		"password": "abc12345",
	}, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User logged in successfully", decodeBody(t, w).Message)

	cookies := w.Result().Cookies()
	names := map[string]*http.Cookie{}
	for _, cookie := range cookies {
		names[cookie.Name] = cookie
	}
	require.Contains(t, names, "accessToken")
	require.Contains(t, names, "refreshToken")
	assert.True(t, names["accessToken"].HttpOnly)
	assert.True(t, names["refreshToken"].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, names["accessToken"].SameSite)
	assert.False(t, names["accessToken"].Secure, "secure only in production")

	stored := env.users.get(user.ID)
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, names["refreshToken"].Value, *stored.RefreshToken)
}

func TestSignInWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "jane@example.com", "abc12345")

	w := env.request(t, http.MethodPost, "/api/v0/users/sign-in", gin.H{
		"email":    "jane@example.com",
		"password": "wrong1234",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Incorrect password", decodeBody(t, w).Message)
	assert.Empty(t, w.Result().Cookies())
}

func TestSignInUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v0/users/sign-in", gin.H{
		"email":    "nobody@example.com",
		"password": "abc12345",
	}, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found!", decodeBody(t, w).Message)
}

func TestSignInMissingFields(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v0/users/sign-in", gin.H{
		"email": "jane@example.com",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All fields are mandatory", decodeBody(t, w).Message)
}

func TestSignOutClearsRefreshTokenAndCookies(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "jane@example.com", "abc12345")

	// Sign in first so a refresh token is on file
	signIn := env.request(t, http.MethodPost, "/api/v0/users/sign-in", gin.H{
		"email":    "jane@example.com",
		"password": "abc12345",
	}, "")
	require.Equal(t, http.StatusOK, signIn.Code)
	require.NotNil(t, env.users.get(user.ID).RefreshToken)

	w := env.request(t, http.MethodPost, "/api/v0/users/sign-out", nil, env.accessTokenFor(t, user))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User logged out successfully", decodeBody(t, w).Message)
	assert.Nil(t, env.users.get(user.ID).RefreshToken)

	for _, cookie := range w.Result().Cookies() {
		assert.Empty(t, cookie.Value, "cookie %s should be cleared", cookie.Name)
		assert.Negative(t, cookie.MaxAge)
	}
}

func TestSignOutRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/v0/users/sign-out", nil, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateUserChangesFields(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "jane@example.com", "abc12345")

	w := env.request(t, http.MethodPatch, "/api/v0/users/update-user", gin.H{
		"firstName": "Janet",
		"email":     "Janet@Example.com",
	}, env.accessTokenFor(t, user))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "User updated successfully", body.Message)

	stored := env.users.get(user.ID)
	assert.Equal(t, "Janet", stored.FirstName)
	assert.Equal(t, "janet@example.com", stored.Email)
	assert.Equal(t, "Doe", stored.LastName, "untouched field keeps its value")
}

func TestUpdateUserNoFields(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "jane@example.com", "abc12345")

	w := env.request(t, http.MethodPatch, "/api/v0/users/update-user", gin.H{}, env.accessTokenFor(t, user))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "At least one field must be provided", decodeBody(t, w).Message)
}

func TestUpdateUserEmailConflict(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "jane@example.com", "abc12345")
	env.seedUser(t, "taken@example.com", "abc12345")

	w := env.request(t, http.MethodPatch, "/api/v0/users/update-user", gin.H{
		"email": "taken@example.com",
	}, env.accessTokenFor(t, user))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email or phone number already in use", decodeBody(t, w).Message)
}

func TestUpdateUserOwnEmailIsNotAConflict(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "jane@example.com", "abc12345")

	w := env.request(t, http.MethodPatch, "/api/v0/users/update-user", gin.H{
		"email":    "jane@example.com",
		"lastName": "Smith",
	}, env.accessTokenFor(t, user))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Smith", env.users.get(user.ID).LastName)
}
