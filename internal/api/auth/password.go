package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/recipebook/recipebook/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword computes the digest stored for a password.
func HashPassword(scheme config.PasswordHash, password string) (string, error) {
	switch scheme {
	case config.PasswordHashBcrypt:
		digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
		return string(digest), nil
	case config.PasswordHashSHA256:
		return sha256Digest(password), nil
	default:
		return "", fmt.Errorf("unknown password hash %q", scheme)
	}
}

// CheckPassword reports whether password matches the stored digest.
// Both bcrypt digests and the legacy unsalted hex sha256 digests are understood.
func CheckPassword(digest, password string) bool {
	if isBcrypt(digest) {
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
	}
	if len(digest) != sha256.Size*2 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(digest)), []byte(sha256Digest(password))) == 1
}

func isBcrypt(digest string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(digest, prefix) {
			return true
		}
	}
	return false
}

func sha256Digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
