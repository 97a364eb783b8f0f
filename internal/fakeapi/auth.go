package fakeapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/MarkBevz50/focusflow/internal/models"
)

const (
	issuer         = "focusflow-fakeapi"
	userContextKey = "user"
)

// Claims are the token claims issued by the fake API.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (s *Server) issueToken(u *user) (string, error) {
	now := s.now()
	claims := Claims{
		Email: u.profile.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.profile.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.opts.TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.Secret))
}

func (s *Server) parseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.opts.Secret), nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
		if !ok || raw == "" {
			return echo.ErrUnauthorized
		}
		claims, err := s.parseToken(raw)
		if err != nil {
			return echo.ErrUnauthorized
		}
		s.mu.Lock()
		u, found := s.byID[claims.Subject]
		s.mu.Unlock()
		if !found {
			return echo.ErrUnauthorized
		}
		c.Set(userContextKey, u.profile)
		return next(c)
	}
}

func currentUser(c echo.Context) models.Profile {
	p, _ := c.Get(userContextKey).(models.Profile)
	return p
}

func (s *Server) signUp(c echo.Context) error {
	var req models.SignUpRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}
	if _, err := s.addUser(req.Email, req.Password); err != nil {
		return c.JSON(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, messageBody{Message: "User registered successfully."})
}

func (s *Server) login(c echo.Context) error {
	var creds models.Credentials
	if err := c.Bind(&creds); err != nil {
		return err
	}
	s.mu.Lock()
	u, ok := s.users[strings.ToLower(strings.TrimSpace(creds.Email))]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(u.hash, []byte(creds.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, messageBody{Message: "Invalid email or password."})
	}
	token, err := s.issueToken(u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.TokenResponse{Token: token})
}

func (s *Server) profile(c echo.Context) error {
	s.mu.Lock()
	fail := s.failures.Profile
	s.mu.Unlock()
	if fail {
		return echo.NewHTTPError(http.StatusInternalServerError, "Profile lookup failed.")
	}
	return c.JSON(http.StatusOK, currentUser(c))
}

// AddUser registers an account directly, bypassing HTTP.
func (s *Server) AddUser(email, password string) (models.Profile, error) {
	u, err := s.addUser(email, password)
	if err != nil {
		return models.Profile{}, err
	}
	return u.profile, nil
}

func (s *Server) addUser(email, password string) (*user, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(email)
	if _, exists := s.users[key]; exists {
		return nil, fmt.Errorf("User with email %s already exists.", email)
	}
	s.nextUser++
	u := &user{
		profile: models.Profile{
			ID:           fmt.Sprintf("user-%d", s.nextUser),
			Email:        email,
			RegisteredAt: models.NewTimestamp(s.now()),
		},
		hash: hash,
	}
	s.users[key] = u
	s.byID[u.profile.ID] = u
	return u, nil
}

// TokenFor issues a token for an existing account, bypassing login.
func (s *Server) TokenFor(email string) (string, error) {
	s.mu.Lock()
	u, ok := s.users[strings.ToLower(email)]
	s.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("no user %s", email)
	}
	return s.issueToken(u)
}
