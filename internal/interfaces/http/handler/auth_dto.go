package handler

import (
	"time"

	"github.com/google/uuid"
)

// LoginRequest represents the login request body
// @name LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"learner@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// TokenResponse represents a token pair in API responses
// @name TokenResponse
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type" example:"Bearer"`
}

// AuthUserResponse represents the authenticated user in API responses
// @name AuthUserResponse
type AuthUserResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	IsStaff  bool      `json:"is_staff"`
}

// LoginResponse represents the login response
// @name LoginResponse
type LoginResponse struct {
	Token TokenResponse    `json:"token"`
	User  AuthUserResponse `json:"user"`
}

// RefreshTokenRequest represents the token refresh request body
// @name RefreshTokenRequest
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResponse represents the token refresh response
// @name RefreshTokenResponse
type RefreshTokenResponse struct {
	Token TokenResponse `json:"token"`
}

// LogoutResponse represents the logout response
// @name LogoutResponse
type LogoutResponse struct {
	Message string `json:"message" example:"Logged out successfully"`
}

// ChangePasswordRequest represents the password change request body
// @name ChangePasswordRequest
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// RegisterRequest represents the account registration request body
// @name RegisterRequest
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=30"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateProfileRequest represents the profile update request body
// @name UpdateProfileRequest
type UpdateProfileRequest struct {
	Name     string `json:"name" binding:"required"`
	Company  string `json:"company"`
	JobTitle string `json:"job_title"`
	Industry string `json:"industry"`
}

// UpdateLegalAddressRequest represents the billing address update body
// @name UpdateLegalAddressRequest
type UpdateLegalAddressRequest struct {
	StreetAddress string `json:"street_address" binding:"required"`
	City          string `json:"city" binding:"required"`
	State         string `json:"state"`
	Country       string `json:"country" binding:"required,len=2"`
	PostalCode    string `json:"postal_code"`
}

// ProfileResponse represents a user's full profile in API responses
// @name ProfileResponse
type ProfileResponse struct {
	User          AuthUserResponse `json:"user"`
	StreetAddress string           `json:"street_address,omitempty"`
	City          string           `json:"city,omitempty"`
	State         string           `json:"state,omitempty"`
	Country       string           `json:"country,omitempty"`
	PostalCode    string           `json:"postal_code,omitempty"`
	Company       string           `json:"company,omitempty"`
	JobTitle      string           `json:"job_title,omitempty"`
	Industry      string           `json:"industry,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}
