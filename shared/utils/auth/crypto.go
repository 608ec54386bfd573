package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash verifies a plaintext password against a bcrypt hash
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateRandomToken returns a hex-encoded random string of length*2 chars
// (for password reset tokens, invite tokens)
func GenerateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// HashToken computes the one-way hash of an opaque token for storage.
// Only this hash is ever persisted; the plaintext travels in the email link.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// GenerateResetToken creates a password reset token. The unhashed value is the
// one-time secret delivered out-of-band; the hashed value and expiry are what
// get stored on the user row.
func GenerateResetToken(ttl time.Duration) (unhashedToken, hashedToken string, expiryTime time.Time, err error) {
	unhashedToken, err = GenerateRandomToken(20)
	if err != nil {
		return "", "", time.Time{}, err
	}

	hashedToken = HashToken(unhashedToken)
	expiryTime = time.Now().Add(ttl)

	return unhashedToken, hashedToken, expiryTime, nil
}
