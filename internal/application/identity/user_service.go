package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/identity"
	"github.com/xpro/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// CoursewareProvisioner creates the matching account on the courseware
// platform for a newly registered user
type CoursewareProvisioner interface {
	ProvisionUser(ctx context.Context, userID uuid.UUID) error
}

// UserService handles account registration and profile management
type UserService struct {
	userRepo    identity.UserRepository
	provisioner CoursewareProvisioner
	logger      *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	provisioner CoursewareProvisioner,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		provisioner: provisioner,
		logger:      logger,
	}
}

// Register creates a new account and provisions the courseware user.
// Courseware provisioning is retried lazily on first enrollment, so a
// provisioning failure does not fail the registration.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*UserInfo, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	if _, err := s.userRepo.FindByUsername(ctx, input.Username); err == nil {
		return nil, shared.NewDomainError("USERNAME_TAKEN", "This username is already in use")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err := identity.NewUser(input.Email, input.Username, input.Name)
	if err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	if err := user.SetPasswordHash(hash); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	if err := s.provisioner.ProvisionUser(ctx, user.ID); err != nil {
		s.logger.Warn("courseware provisioning failed for new user",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	info := userInfo(user)
	return &info, nil
}

// GetProfile returns a user's full profile
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profileResult(user), nil
}

// UpdateProfile updates the user's display profile fields
func (s *UserService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*ProfileResult, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := user.UpdateProfile(input.Name, input.Company, input.JobTitle, input.Industry); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	return profileResult(user), nil
}

// UpdateLegalAddress updates the billing address used by checkout and
// CRM contact sync
func (s *UserService) UpdateLegalAddress(ctx context.Context, input UpdateLegalAddressInput) (*ProfileResult, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	user.UpdateLegalAddress(input.StreetAddress, input.City, input.State, input.Country, input.PostalCode)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	return profileResult(user), nil
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func profileResult(user *identity.User) *ProfileResult {
	return &ProfileResult{
		User:          userInfo(user),
		StreetAddress: user.StreetAddress,
		City:          user.City,
		State:         user.State,
		Country:       user.Country,
		PostalCode:    user.PostalCode,
		Company:       user.Company,
		JobTitle:      user.JobTitle,
		Industry:      user.Industry,
		CreatedAt:     user.CreatedAt,
	}
}
