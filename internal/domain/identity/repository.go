package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by their ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by their email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByUsername finds a user by their username
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindAll finds users matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// ExistsByEmail checks if a user with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// CoursewareAuthRepository defines the interface for courseware token
// persistence
type CoursewareAuthRepository interface {
	// GetOrCreateForUpdate returns the user's auth row, creating it if
	// absent, locked for the duration of the surrounding transaction
	GetOrCreateForUpdate(ctx context.Context, userID uuid.UUID) (*CoursewareAuth, error)

	// Save persists the auth row
	Save(ctx context.Context, auth *CoursewareAuth) error
}
