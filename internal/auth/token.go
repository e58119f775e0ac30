package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	minTokenLength   = 16
	tokenRandomBytes = 24
	tokenPrefix      = "dt_"
)

// GenerateToken returns a new random API token.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenRandomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return tokenPrefix + hex.EncodeToString(buf), nil
}

// ValidateToken checks minimal token requirements.
func ValidateToken(token string) error {
	if strings.TrimSpace(token) != token {
		return fmt.Errorf("token must not contain surrounding whitespace")
	}
	if len(token) < minTokenLength {
		return fmt.Errorf("token must be at least %d characters", minTokenLength)
	}
	// bcrypt only looks at the first 72 bytes.
	if len(token) > 72 {
		return fmt.Errorf("token must be at most 72 characters")
	}
	return nil
}

// HashToken hashes one plaintext API token for the api_token_hash setting.
func HashToken(token string) (string, error) {
	if err := ValidateToken(token); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyToken verifies a plaintext token against a bcrypt hash.
func VerifyToken(tokenHash, candidate string) bool {
	if strings.TrimSpace(tokenHash) == "" || candidate == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(candidate)) == nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
