package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"orghub-backend/shared/config"
	"orghub-backend/shared/database/models"
)

// AccessClaims carries the identity embedded in access tokens. Tokens are
// self-contained; verification only goes back to the store to confirm the
// user row still exists.
type AccessClaims struct {
	UserID      string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	jwt.RegisteredClaims
}

// RefreshClaims carries only the user ID
type RefreshClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// GenerateAccessToken creates a signed access token for a user
func GenerateAccessToken(user *models.User) (string, error) {
	cfg := config.GetConfig()
	expireDuration := cfg.GetAccessTokenExpireDuration()

	claims := AccessClaims{
		UserID:      user.ID.String(),
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		PhoneNumber: user.PhoneNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expireDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.AccessTokenSecret))
}

// GenerateRefreshToken creates a signed refresh token carrying only the user ID
func GenerateRefreshToken(userID uuid.UUID) (string, error) {
	cfg := config.GetConfig()
	refreshExpireDuration := cfg.GetRefreshTokenExpireDuration()

	claims := RefreshClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(refreshExpireDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.RefreshTokenSecret))
}

// ValidateAccessToken verifies signature and expiry of an access token
func ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	cfg := config.GetConfig()

	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(cfg.AccessTokenSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*AccessClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// ValidateRefreshToken verifies signature and expiry of a refresh token
func ValidateRefreshToken(tokenString string) (*RefreshClaims, error) {
	cfg := config.GetConfig()

	token, err := jwt.ParseWithClaims(tokenString, &RefreshClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(cfg.RefreshTokenSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*RefreshClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid refresh token")
}
