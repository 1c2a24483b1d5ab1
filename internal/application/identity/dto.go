package identity

import (
	"time"

	"github.com/google/uuid"
)

// RegisterInput contains the input for account registration
type RegisterInput struct {
	Email    string
	Username string
	Name     string
	Password string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID       uuid.UUID
	Email    string
	Username string
	Name     string
	IsStaff  bool
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TokenTTL time.Duration
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// UpdateProfileInput contains the input for profile updates
type UpdateProfileInput struct {
	UserID   uuid.UUID
	Name     string
	Company  string
	JobTitle string
	Industry string
}

// UpdateLegalAddressInput contains the input for billing address updates
type UpdateLegalAddressInput struct {
	UserID        uuid.UUID
	StreetAddress string
	City          string
	State         string
	Country       string
	PostalCode    string
}

// ProfileResult contains a user's full profile
type ProfileResult struct {
	User          UserInfo
	StreetAddress string
	City          string
	State         string
	Country       string
	PostalCode    string
	Company       string
	JobTitle      string
	Industry      string
	CreatedAt     time.Time
}
