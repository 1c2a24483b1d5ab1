package courseware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	enrollmentapp "github.com/xpro/backend/internal/application/enrollment"
	"github.com/xpro/backend/internal/infrastructure/config"
)

// Open edX API paths
const (
	registerUserPath = "/user_api/v1/account/registration/"
	accessTokenPath  = "/oauth2/access_token"
	enrollmentPath   = "/api/enrollment/v1/enrollment"
)

// Enrollment modes. Paid seats use the professional mode; when a run
// does not offer it the enrollment falls back to audit.
const (
	EnrollmentModePro   = "no-id-professional"
	EnrollmentModeAudit = "audit"
)

// modeUnavailableFragment appears in the error body when a run does not
// carry the requested enrollment mode
const modeUnavailableFragment = "mode is expired or otherwise unavailable"

const maxResponseSize = 1 * 1024 * 1024

var (
	ErrUserRegistrationFailed = errors.New("courseware: user registration failed")
	ErrTokenGrantFailed       = errors.New("courseware: token grant failed")
	ErrEnrollmentFailed       = errors.New("courseware: enrollment failed")
	ErrUnenrollmentFailed     = errors.New("courseware: unenrollment failed")
)

// TokenPair is the OAuth2 token response from the courseware platform
type TokenPair = enrollmentapp.CoursewareTokenPair

// RegisterUserParams carries the account fields sent to the courseware
// registration endpoint
type RegisterUserParams = enrollmentapp.CoursewareRegistration

// EnrollmentResult reports the outcome of one enrollment call
type EnrollmentResult = enrollmentapp.CoursewareEnrollment

var _ enrollmentapp.CoursewareClient = (*Client)(nil)

// Client talks to the Open edX REST API. User registration and token
// grants use the OAuth application credentials; enrollment calls
// authenticate with the per-user access token.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	workerToken  string
	httpClient   *http.Client
}

// NewClient creates an Open edX client from configuration
func NewClient(cfg config.OpenEdxConfig) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		workerToken:  cfg.ServiceWorkerToken,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// RegisterUser creates the equivalent account on the courseware
// platform. The platform responds 200 on success, not 201.
func (c *Client) RegisterUser(ctx context.Context, params RegisterUserParams) error {
	form := url.Values{
		"username":   {params.Username},
		"email":      {params.Email},
		"name":       {params.Name},
		"country":    {"US"},
		"honor_code": {"true"},
	}

	resp, err := c.postForm(ctx, registerUserPath, form)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUserRegistrationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUserRegistrationFailed, resp.StatusCode)
	}
	return nil
}

// ExchangeAuthorizationCode redeems an OAuth2 authorization code for a
// token pair
func (c *Client) ExchangeAuthorizationCode(ctx context.Context, code, redirectURI string) (*TokenPair, error) {
	return c.tokenGrant(ctx, url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	})
}

// RefreshAccessToken redeems a refresh token for a fresh token pair
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return c.tokenGrant(ctx, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	})
}

func (c *Client) tokenGrant(ctx context.Context, form url.Values) (*TokenPair, error) {
	resp, err := c.postForm(ctx, accessTokenPath, form)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGrantFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrTokenGrantFailed, resp.StatusCode)
	}

	var pair TokenPair
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&pair); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrTokenGrantFailed, err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return nil, fmt.Errorf("%w: incomplete token response", ErrTokenGrantFailed)
	}
	return &pair, nil
}

// Enroll enrolls the user in a course run using their access token.
// Professional mode is attempted first; when the run does not offer it
// the call retries in audit mode.
func (c *Client) Enroll(ctx context.Context, accessToken, username, coursewareID string) (*EnrollmentResult, error) {
	err := c.createEnrollment(ctx, accessToken, username, coursewareID, EnrollmentModePro, true)
	if err == nil {
		return &EnrollmentResult{CoursewareID: coursewareID, Mode: EnrollmentModePro}, nil
	}

	var modeErr *modeUnavailableError
	if !errors.As(err, &modeErr) {
		return nil, err
	}

	if err := c.createEnrollment(ctx, accessToken, username, coursewareID, EnrollmentModeAudit, true); err != nil {
		return nil, err
	}
	return &EnrollmentResult{CoursewareID: coursewareID, Mode: EnrollmentModeAudit}, nil
}

// Unenroll deactivates the user's enrollment in a course run. Uses the
// service worker token because learners may no longer hold a valid
// token of their own when a refund is processed.
func (c *Client) Unenroll(ctx context.Context, username, coursewareID string) error {
	if err := c.createEnrollment(ctx, c.workerToken, username, coursewareID, EnrollmentModeAudit, false); err != nil {
		return fmt.Errorf("%w: %v", ErrUnenrollmentFailed, err)
	}
	return nil
}

type enrollmentRequest struct {
	User          string `json:"user"`
	Mode          string `json:"mode"`
	IsActive      bool   `json:"is_active"`
	CourseDetails struct {
		CourseID string `json:"course_id"`
	} `json:"course_details"`
}

type modeUnavailableError struct {
	body string
}

func (e *modeUnavailableError) Error() string {
	return "courseware: enrollment mode unavailable: " + e.body
}

func (c *Client) createEnrollment(ctx context.Context, accessToken, username, coursewareID, mode string, active bool) error {
	reqBody := enrollmentRequest{User: username, Mode: mode, IsActive: active}
	reqBody.CourseDetails.CourseID = coursewareID

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("courseware: marshaling enrollment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+enrollmentPath, strings.NewReader(string(payload)))
	if err != nil {
		return fmt.Errorf("courseware: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEnrollmentFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if strings.Contains(string(body), modeUnavailableFragment) ||
			strings.Contains(string(body), "mode '"+mode+"' unavailable") {
			return &modeUnavailableError{body: string(body)}
		}
		return fmt.Errorf("%w: status %d: %s", ErrEnrollmentFailed, resp.StatusCode, string(body))
	}
	return nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("courseware: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.httpClient.Do(req)
}
