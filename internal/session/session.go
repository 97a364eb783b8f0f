// Package session owns the authentication state: the bearer token, the
// profile it resolves to, and their persistence between runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/MarkBevz50/focusflow/internal/apiclient"
	"github.com/MarkBevz50/focusflow/internal/logger"
	"github.com/MarkBevz50/focusflow/internal/models"
	"github.com/MarkBevz50/focusflow/internal/storage"
	"github.com/MarkBevz50/focusflow/internal/validation"
)

const (
	loginFallback  = "Login failed. Please check your credentials or try again."
	signUpFallback = "Sign up failed. Please try again."
	noTokenMessage = "Login failed: No token received."
	profileWarning = "Logged in, but failed to fetch profile details."
)

// API is the subset of the remote API the session needs.
type API interface {
	SignUp(ctx context.Context, req models.SignUpRequest) error
	Login(ctx context.Context, creds models.Credentials) (string, error)
	Profile(ctx context.Context, token string) (models.Profile, error)
}

// AuthError carries the single message shown for a failed login or sign-up.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s (%v)", e.Message, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// UserMessage returns the message without the underlying cause.
func (e *AuthError) UserMessage() string { return e.Message }

// LoginResult reports a successful login. Warning is set when the token was
// accepted but the profile could not be loaded.
type LoginResult struct {
	Profile *models.Profile
	Warning string
}

// Store holds the current session. The zero value is not usable; call New.
type Store struct {
	api       API
	tokens    storage.TokenStore
	validator *validation.Validator
	log       *log.Logger

	mu       sync.RWMutex
	token    string
	profile  *models.Profile
	onLogout []func()
}

// New creates an unauthenticated store. Call Init to restore a saved session.
func New(api API, tokens storage.TokenStore) *Store {
	return &Store{
		api:       api,
		tokens:    tokens,
		validator: validation.New(),
		log:       logger.For(logger.Session),
	}
}

// Init restores the persisted token and checks it against the profile
// endpoint. A token the server does not accept is discarded and the store
// stays unauthenticated; that is not an error. Cancellation is.
func (s *Store) Init(ctx context.Context) error {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to read saved session: %w", err)
	}
	if token == "" {
		return nil
	}

	profile, err := s.api.Profile(ctx, token)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn("saved session rejected, clearing it", "error", err)
		if cerr := s.tokens.ClearToken(ctx); cerr != nil {
			s.log.Error("failed to clear saved session", "error", cerr)
		}
		s.set("", nil)
		return nil
	}

	s.set(token, &profile)
	s.log.Debug("session restored", "email", profile.Email)
	return nil
}

// Close releases the logout hooks.
func (s *Store) Close() error {
	s.mu.Lock()
	s.onLogout = nil
	s.mu.Unlock()
	return nil
}

// Token returns the bearer token, "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Profile returns the loaded profile, if any.
func (s *Store) Profile() (models.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return models.Profile{}, false
	}
	return *s.profile, true
}

// IsAuthenticated reports whether a token is held.
func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

// OnLogout registers fn to run after every Logout.
func (s *Store) OnLogout(fn func()) {
	s.mu.Lock()
	s.onLogout = append(s.onLogout, fn)
	s.mu.Unlock()
}

// Login exchanges credentials for a token, persists it and loads the
// profile. A profile failure does not undo the login.
func (s *Store) Login(ctx context.Context, email, password string) (LoginResult, error) {
	creds := models.Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := s.validator.Credentials(creds); err != nil {
		return LoginResult{}, err
	}

	token, err := s.api.Login(ctx, creds)
	if err != nil {
		return LoginResult{}, &AuthError{Message: apiclient.UserMessage(err, loginFallback), Err: err}
	}
	if token == "" {
		return LoginResult{}, &AuthError{Message: noTokenMessage}
	}
	if err := s.tokens.SetToken(ctx, token); err != nil {
		return LoginResult{}, fmt.Errorf("failed to save session: %w", err)
	}
	s.set(token, nil)
	s.log.Info("logged in", "email", creds.Email)

	profile, err := s.api.Profile(ctx, token)
	if err != nil {
		s.log.Warn("profile fetch after login failed", "error", err)
		return LoginResult{Warning: profileWarning}, nil
	}
	s.set(token, &profile)
	return LoginResult{Profile: &profile}, nil
}

// SignUp registers an account. It does not log in.
func (s *Store) SignUp(ctx context.Context, email, password, confirm string) error {
	req := models.SignUpRequest{
		Email:           strings.TrimSpace(email),
		Password:        password,
		ConfirmPassword: confirm,
	}
	if err := s.validator.SignUp(req); err != nil {
		return err
	}
	if err := s.api.SignUp(ctx, req); err != nil {
		return &AuthError{Message: apiclient.UserMessage(err, signUpFallback), Err: err}
	}
	s.log.Info("signed up", "email", req.Email)
	return nil
}

// Logout forgets the token and profile, clears the persisted token and runs
// the logout hooks. The hooks run even if clearing persistence fails.
func (s *Store) Logout(ctx context.Context) error {
	s.set("", nil)
	err := s.tokens.ClearToken(ctx)
	if err != nil {
		err = fmt.Errorf("failed to clear saved session: %w", err)
	}

	s.mu.RLock()
	hooks := append([]func(){}, s.onLogout...)
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
	s.log.Info("logged out")
	return err
}

func (s *Store) set(token string, profile *models.Profile) {
	s.mu.Lock()
	s.token = token
	s.profile = profile
	s.mu.Unlock()
}

// IsAuthError reports whether err came from a rejected login or sign-up.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
