package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/recipebook/recipebook/internal/config"
	"github.com/recipebook/recipebook/internal/database"
)

// UserStore is the subset of database.DB needed to verify credentials.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (*database.User, error)
	CreateUser(ctx context.Context, username, passwordDigest string) (*database.User, error)
}

// CredentialVerifier checks submitted credentials against the stored digests.
type CredentialVerifier struct {
	users UserStore
}

// NewCredentialVerifier creates a verifier backed by users.
func NewCredentialVerifier(users UserStore) *CredentialVerifier {
	return &CredentialVerifier{users: users}
}

// Verify reports whether username exists and password matches its digest.
// An unknown user and a wrong password are indistinguishable to the caller.
// The error is only set if the user store failed.
func (v *CredentialVerifier) Verify(ctx context.Context, username, password string) (bool, error) {
	if username == "" {
		return false, nil
	}
	user, err := v.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up user: %w", err)
	}
	return CheckPassword(user.PasswordDigest, password), nil
}

// SeedUsers creates every configured account that doesn't exist yet.
// Existing accounts are never modified.
func SeedUsers(ctx context.Context, users UserStore, accounts []config.UserConfig, scheme config.PasswordHash) (int, error) {
	var created int
	for _, account := range accounts {
		_, err := users.GetUserByUsername(ctx, account.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, database.ErrNotFound) {
			return created, fmt.Errorf("failed to look up user %q: %w", account.Username, err)
		}

		digest, err := HashPassword(scheme, account.Password)
		if err != nil {
			return created, err
		}
		if _, err := users.CreateUser(ctx, account.Username, digest); err != nil {
			return created, fmt.Errorf("failed to seed user %q: %w", account.Username, err)
		}
		created++
	}
	return created, nil
}
