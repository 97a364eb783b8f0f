// Package keyring keeps the session token in the OS keyring.
package keyring

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/MarkBevz50/focusflow/internal/constants"
	"github.com/MarkBevz50/focusflow/internal/logger"
	"github.com/MarkBevz50/focusflow/internal/storage"
)

var (
	// ErrNotFound is returned when no token is stored in the keyring
	ErrNotFound = errors.New("token not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Tokens is a storage.TokenStore backed by the OS keyring.
type Tokens struct {
	service string
	user    string
}

var _ storage.TokenStore = (*Tokens)(nil)

// New returns a keyring token store for the focusflow service entry.
func New() *Tokens {
	return &Tokens{service: constants.AppName, user: constants.DefaultKeyringUser}
}

// Token reads the stored token. A missing entry reads as "".
func (k *Tokens) Token(context.Context) (string, error) {
	tok, err := keyring.Get(k.service, k.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return tok, nil
}

// SetToken stores token; an empty token clears the entry.
func (k *Tokens) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return k.ClearToken(ctx)
	}
	if err := keyring.Set(k.service, k.user, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// ClearToken removes the entry. A missing entry is not an error.
func (k *Tokens) ClearToken(context.Context) error {
	err := keyring.Delete(k.service, k.user)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// A read that fails with anything but "not found" is treated as unavailable.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "availability-check")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// Select picks the token store for backend. Auto prefers the keyring and
// falls back to local when the keyring cannot be reached.
func Select(backend constants.TokenBackend, local storage.TokenStore) (storage.TokenStore, error) {
	switch backend {
	case constants.TokenBackendLocal:
		return local, nil
	case constants.TokenBackendKeyring:
		if !IsAvailable() {
			return nil, ErrKeyringUnavailable
		}
		return New(), nil
	case constants.TokenBackendAuto, "":
		if IsAvailable() {
			return New(), nil
		}
		logger.For(logger.Keyring).Warn("OS keyring unavailable, storing token in local database")
		return local, nil
	}
	return nil, fmt.Errorf("unknown token backend %q (want auto, keyring or local)", backend)
}
