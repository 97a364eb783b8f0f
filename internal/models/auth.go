package models

// Profile is the identity the API resolves from a bearer token.
type Profile struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	RegisteredAt Timestamp `json:"registeredAt"`
}

// Credentials are exchanged for a token at /auth/login.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignUpRequest is the /auth/signup body.
type SignUpRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// TokenResponse is the /auth/login response.
type TokenResponse struct {
	Token string `json:"token"`
}
