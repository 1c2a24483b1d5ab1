package enrollment

import (
	"context"
	"time"
)

// CoursewareRegistration carries the account fields sent to the
// courseware platform when mirroring a local user
type CoursewareRegistration struct {
	Username string
	Email    string
	Name     string
}

// CoursewareTokenPair is an OAuth2 token response from the courseware
// platform
type CoursewareTokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// ExpiresOn converts the relative expiry to an absolute time, shaved by
// the configured margin so a token is refreshed before it lapses
func (t *CoursewareTokenPair) ExpiresOn(now time.Time, margin time.Duration) time.Time {
	return now.Add(time.Duration(t.ExpiresIn)*time.Second - margin)
}

// CoursewareEnrollment reports the outcome of one courseware enrollment
// call
type CoursewareEnrollment struct {
	CoursewareID string
	Mode         string
}

// CoursewareClient talks to the courseware platform on behalf of local
// users
type CoursewareClient interface {
	// RegisterUser creates the equivalent account on the platform
	RegisterUser(ctx context.Context, params CoursewareRegistration) error

	// ExchangeAuthorizationCode redeems an OAuth2 authorization code
	// for a token pair
	ExchangeAuthorizationCode(ctx context.Context, code, redirectURI string) (*CoursewareTokenPair, error)

	// RefreshAccessToken redeems a refresh token for a fresh token pair
	RefreshAccessToken(ctx context.Context, refreshToken string) (*CoursewareTokenPair, error)

	// Enroll enrolls the user in a course run using their access token
	Enroll(ctx context.Context, accessToken, username, coursewareID string) (*CoursewareEnrollment, error)

	// Unenroll deactivates the user's platform enrollment
	Unenroll(ctx context.Context, username, coursewareID string) error
}
