// Package storage defines the local state kept between focusflow runs.
package storage

import (
	"context"
	"errors"

	"github.com/MarkBevz50/focusflow/internal/migration"
	"github.com/MarkBevz50/focusflow/internal/models"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("not found")

// ErrNotInitialized is returned by Load and Ping before Init has created the
// database.
var ErrNotInitialized = errors.New("local state not initialized")

// Provider is the local state database.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
	Path() string
	SchemaStatus(ctx context.Context) (migration.Status, error)

	// Settings
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, s models.Settings) error

	// Key/value
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string) error
	DeleteValue(ctx context.Context, key string) error
}

// TokenStore persists the session token. An absent token reads as "".
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}
