package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/shared"
)

// User represents an account on the platform. Legal address fields
// feed CRM contact sync and gateway billing fields.
type User struct {
	shared.BaseAggregateRoot
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(255);not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	IsActive     bool   `gorm:"not null;default:true"`
	IsStaff      bool   `gorm:"not null;default:false"`

	// Legal address
	StreetAddress string `gorm:"type:varchar(255)"`
	City          string `gorm:"type:varchar(100)"`
	State         string `gorm:"type:varchar(100)"`
	Country       string `gorm:"type:varchar(2)"`
	PostalCode    string `gorm:"type:varchar(20)"`

	// Profile
	Company  string `gorm:"type:varchar(255)"`
	JobTitle string `gorm:"type:varchar(255)"`
	Industry string `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active user. The password hash is set
// separately by the identity service.
func NewUser(email, username, name string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Username:          username,
		Name:              name,
		IsActive:          true,
	}, nil
}

// SetPasswordHash stores the bcrypt hash of the user's password
func (u *User) SetPasswordHash(hash string) error {
	if hash == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// UpdateProfile updates the user's profile fields
func (u *User) UpdateProfile(name, company, jobTitle, industry string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	u.Name = name
	u.Company = company
	u.JobTitle = jobTitle
	u.Industry = industry
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// UpdateLegalAddress updates the user's billing address
func (u *User) UpdateLegalAddress(street, city, state, country, postalCode string) {
	u.StreetAddress = street
	u.City = city
	u.State = state
	u.Country = strings.ToUpper(country)
	u.PostalCode = postalCode
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// Deactivate disables the account
func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// CoursewareAuth holds the OAuth token pair for a user on the
// courseware platform. One row per user, created under a row lock so
// concurrent requests do not race the token grant.
type CoursewareAuth struct {
	shared.BaseEntity
	UserID               uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	RefreshToken         string     `gorm:"type:varchar(512)"`
	AccessToken          string     `gorm:"type:varchar(512)"`
	AccessTokenExpiresOn *time.Time
}

// TableName returns the table name for GORM
func (CoursewareAuth) TableName() string {
	return "courseware_auths"
}

// AccessTokenValid reports whether the access token is still usable at
// the given instant plus a safety margin.
func (a *CoursewareAuth) AccessTokenValid(now time.Time, margin time.Duration) bool {
	if a.AccessToken == "" || a.AccessTokenExpiresOn == nil {
		return false
	}
	return a.AccessTokenExpiresOn.After(now.Add(margin))
}

// UpdateTokens stores a fresh token pair
func (a *CoursewareAuth) UpdateTokens(accessToken, refreshToken string, expiresOn time.Time) {
	a.AccessToken = accessToken
	a.RefreshToken = refreshToken
	a.AccessTokenExpiresOn = &expiresOn
	a.UpdatedAt = time.Now()
}
