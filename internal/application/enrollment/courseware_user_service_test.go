package enrollment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xpro/backend/internal/domain/identity"
	"github.com/xpro/backend/internal/domain/shared"
)

type coursewareUserMocks struct {
	authRepo *MockCoursewareAuthRepository
	userRepo *MockUserRepository
	client   *MockCoursewareClient
}

func newTestCoursewareUserService() (*CoursewareUserService, *coursewareUserMocks) {
	m := &coursewareUserMocks{
		authRepo: new(MockCoursewareAuthRepository),
		userRepo: new(MockUserRepository),
		client:   new(MockCoursewareClient),
	}
	service := NewCoursewareUserService(m.authRepo, m.userRepo, m.client, 10*time.Second)
	return service, m
}

func TestCoursewareUserService_ProvisionUser(t *testing.T) {
	service, m := newTestCoursewareUserService()
	ctx := context.Background()

	user := testLearner()

	m.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	m.client.On("RegisterUser", ctx, CoursewareRegistration{
		Username: "learner",
		Email:    "learner@example.com",
		Name:     "Test Learner",
	}).Return(nil)

	err := service.ProvisionUser(ctx, user.ID)

	require.NoError(t, err)
	m.client.AssertExpectations(t)
}

func TestCoursewareUserService_ProvisionUser_RegistrationFails(t *testing.T) {
	service, m := newTestCoursewareUserService()
	ctx := context.Background()

	user := testLearner()

	m.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	m.client.On("RegisterUser", ctx, mock.AnythingOfType("enrollment.CoursewareRegistration")).
		Return(errors.New("conflict"))

	err := service.ProvisionUser(ctx, user.ID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to register courseware user")
}

func TestCoursewareUserService_CompleteAuthorization(t *testing.T) {
	service, m := newTestCoursewareUserService()
	ctx := context.Background()

	user := testLearner()
	auth := &identity.CoursewareAuth{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     user.ID,
	}

	m.authRepo.On("GetOrCreateForUpdate", ctx, user.ID).Return(auth, nil)
	m.client.On("ExchangeAuthorizationCode", ctx, "auth-code", "https://xpro.example.com/callback").
		Return(&CoursewareTokenPair{
			AccessToken:  "new-access",
			RefreshToken: "new-refresh",
			ExpiresIn:    3600,
		}, nil)
	m.authRepo.On("Save", ctx, mock.MatchedBy(func(a *identity.CoursewareAuth) bool {
		return a.AccessToken == "new-access" && a.RefreshToken == "new-refresh" &&
			a.AccessTokenExpiresOn != nil && a.AccessTokenExpiresOn.After(time.Now())
	})).Return(nil)

	err := service.CompleteAuthorization(ctx, user.ID, "auth-code", "https://xpro.example.com/callback")

	require.NoError(t, err)
	m.authRepo.AssertExpectations(t)
}

func TestCoursewareUserService_AccessTokenForUser_ReusesValidToken(t *testing.T) {
	service, m := newTestCoursewareUserService()
	ctx := context.Background()

	user := testLearner()
	expiresOn := time.Now().Add(30 * time.Minute)
	auth := &identity.CoursewareAuth{
		BaseEntity:           shared.NewBaseEntity(),
		UserID:               user.ID,
		AccessToken:          "still-good",
		RefreshToken:         "refresh",
		AccessTokenExpiresOn: &expiresOn,
	}

	m.authRepo.On("GetOrCreateForUpdate", ctx, user.ID).Return(auth, nil)

	token, err := service.AccessTokenForUser(ctx, user)

	require.NoError(t, err)
	assert.Equal(t, "still-good", token)
	m.client.AssertNotCalled(t, "RefreshAccessToken", mock.Anything, mock.Anything)
	m.authRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCoursewareUserService_AccessTokenForUser_RefreshesExpiredToken(t *testing.T) {
	service, m := newTestCoursewareUserService()
	ctx := context.Background()

	user := testLearner()
	expiresOn := time.Now().Add(-time.Minute)
	auth := &identity.CoursewareAuth{
		BaseEntity:           shared.NewBaseEntity(),
		UserID:               user.ID,
		AccessToken:          "stale",
		RefreshToken:         "refresh",
		AccessTokenExpiresOn: &expiresOn,
	}

	m.authRepo.On("GetOrCreateForUpdate", ctx, user.ID).Return(auth, nil)
	m.client.On("RefreshAccessToken", ctx, "refresh").Return(&CoursewareTokenPair{
		AccessToken:  "fresh",
		RefreshToken: "rotated-refresh",
		ExpiresIn:    3600,
	}, nil)
	m.authRepo.On("Save", ctx, mock.MatchedBy(func(a *identity.CoursewareAuth) bool {
		return a.AccessToken == "fresh" && a.RefreshToken == "rotated-refresh"
	})).Return(nil)

	token, err := service.AccessTokenForUser(ctx, user)

	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
	m.authRepo.AssertExpectations(t)
}

func TestCoursewareUserService_AccessTokenForUser_NotLinked(t *testing.T) {
	service, m := newTestCoursewareUserService()
	ctx := context.Background()

	user := testLearner()
	auth := &identity.CoursewareAuth{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     user.ID,
	}

	m.authRepo.On("GetOrCreateForUpdate", ctx, user.ID).Return(auth, nil)

	_, err := service.AccessTokenForUser(ctx, user)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "COURSEWARE_NOT_LINKED", domainErr.Code)
}
