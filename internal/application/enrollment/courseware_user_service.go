package enrollment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xpro/backend/internal/domain/identity"
	"github.com/xpro/backend/internal/domain/shared"
)

// TokenProvider supplies a valid courseware access token for a user
type TokenProvider interface {
	AccessTokenForUser(ctx context.Context, user *identity.User) (string, error)
}

// CoursewareUserService mirrors local accounts onto the courseware
// platform and manages each user's OAuth token pair. Token rows are
// fetched under a row lock so concurrent requests do not race the
// refresh grant.
type CoursewareUserService struct {
	authRepo    identity.CoursewareAuthRepository
	userRepo    identity.UserRepository
	client      CoursewareClient
	tokenMargin time.Duration
}

// NewCoursewareUserService creates a new CoursewareUserService
func NewCoursewareUserService(
	authRepo identity.CoursewareAuthRepository,
	userRepo identity.UserRepository,
	client CoursewareClient,
	tokenMargin time.Duration,
) *CoursewareUserService {
	return &CoursewareUserService{
		authRepo:    authRepo,
		userRepo:    userRepo,
		client:      client,
		tokenMargin: tokenMargin,
	}
}

// ProvisionUser registers the local user on the courseware platform
func (s *CoursewareUserService) ProvisionUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	registration := CoursewareRegistration{
		Username: user.Username,
		Email:    user.Email,
		Name:     user.Name,
	}
	if err := s.client.RegisterUser(ctx, registration); err != nil {
		return fmt.Errorf("failed to register courseware user: %w", err)
	}
	return nil
}

// CompleteAuthorization redeems the OAuth2 authorization code from the
// courseware callback and stores the token pair on the user's auth row
func (s *CoursewareUserService) CompleteAuthorization(ctx context.Context, userID uuid.UUID, code, redirectURI string) error {
	auth, err := s.authRepo.GetOrCreateForUpdate(ctx, userID)
	if err != nil {
		return err
	}

	pair, err := s.client.ExchangeAuthorizationCode(ctx, code, redirectURI)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	auth.UpdateTokens(pair.AccessToken, pair.RefreshToken, pair.ExpiresOn(time.Now(), s.tokenMargin))
	return s.authRepo.Save(ctx, auth)
}

// AccessTokenForUser returns a usable access token for the user,
// running the refresh-token grant when the stored one has lapsed.
// Stored expiries already carry the configured margin, so any token
// that passes the check is good for at least one outgoing call.
func (s *CoursewareUserService) AccessTokenForUser(ctx context.Context, user *identity.User) (string, error) {
	auth, err := s.authRepo.GetOrCreateForUpdate(ctx, user.ID)
	if err != nil {
		return "", err
	}

	if auth.AccessTokenValid(time.Now(), 0) {
		return auth.AccessToken, nil
	}

	if auth.RefreshToken == "" {
		return "", shared.NewDomainError("COURSEWARE_NOT_LINKED", "User has not authorized the courseware platform")
	}

	pair, err := s.client.RefreshAccessToken(ctx, auth.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh courseware access token: %w", err)
	}

	auth.UpdateTokens(pair.AccessToken, pair.RefreshToken, pair.ExpiresOn(time.Now(), s.tokenMargin))
	if err := s.authRepo.Save(ctx, auth); err != nil {
		return "", err
	}
	return pair.AccessToken, nil
}

// Ensure CoursewareUserService implements TokenProvider
var _ TokenProvider = (*CoursewareUserService)(nil)
