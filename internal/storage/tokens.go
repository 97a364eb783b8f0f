package storage

import (
	"context"
	"errors"

	"github.com/MarkBevz50/focusflow/internal/constants"
)

// LocalTokens keeps the session token in the key/value table under
// constants.TokenStorageKey.
type LocalTokens struct {
	p Provider
}

// NewLocalTokens wraps a provider as a TokenStore.
func NewLocalTokens(p Provider) *LocalTokens {
	return &LocalTokens{p: p}
}

func (l *LocalTokens) Token(ctx context.Context) (string, error) {
	v, err := l.p.GetValue(ctx, constants.TokenStorageKey)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}

func (l *LocalTokens) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return l.ClearToken(ctx)
	}
	return l.p.SetValue(ctx, constants.TokenStorageKey, token)
}

func (l *LocalTokens) ClearToken(ctx context.Context) error {
	return l.p.DeleteValue(ctx, constants.TokenStorageKey)
}

// MemoryTokens is a process-local TokenStore.
type MemoryTokens struct {
	token string
}

func (m *MemoryTokens) Token(context.Context) (string, error) { return m.token, nil }

func (m *MemoryTokens) SetToken(_ context.Context, token string) error {
	m.token = token
	return nil
}

func (m *MemoryTokens) ClearToken(context.Context) error {
	m.token = ""
	return nil
}
