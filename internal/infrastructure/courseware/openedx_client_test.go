package courseware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpro/backend/internal/infrastructure/config"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.OpenEdxConfig{
		BaseURL:            serverURL,
		ClientID:           "client-id",
		ClientSecret:       "client-secret",
		ServiceWorkerToken: "worker-token",
		Timeout:            5 * time.Second,
	})
}

func TestRegisterUser(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, registerUserPath, r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"username":   r.PostForm.Get("username"),
			"email":      r.PostForm.Get("email"),
			"name":       r.PostForm.Get("name"),
			"country":    r.PostForm.Get("country"),
			"honor_code": r.PostForm.Get("honor_code"),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.RegisterUser(context.Background(), RegisterUserParams{
		Username: "learner",
		Email:    "learner@example.com",
		Name:     "Learner One",
	})
	require.NoError(t, err)
	assert.Equal(t, "learner", gotForm["username"])
	assert.Equal(t, "learner@example.com", gotForm["email"])
	assert.Equal(t, "US", gotForm["country"])
	assert.Equal(t, "true", gotForm["honor_code"])
}

func TestRegisterUser_Non200IsError(t *testing.T) {
	// 201 is also a failure, the platform signals success with 200
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	err := newTestClient(server.URL).RegisterUser(context.Background(), RegisterUserParams{Username: "u"})
	assert.ErrorIs(t, err, ErrUserRegistrationFailed)
}

func TestRefreshAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, accessTokenPath, r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.PostForm.Get("refresh_token"))
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))

		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "new-access",
			"refresh_token": "new-refresh",
			"expires_in":    3600,
		})
	}))
	defer server.Close()

	pair, err := newTestClient(server.URL).RefreshAccessToken(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new-access", pair.AccessToken)
	assert.Equal(t, "new-refresh", pair.RefreshToken)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	expiresOn := pair.ExpiresOn(now, 10*time.Second)
	assert.Equal(t, now.Add(3590*time.Second), expiresOn)
}

func TestRefreshAccessToken_IncompleteResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": "only-access"})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).RefreshAccessToken(context.Background(), "r")
	assert.ErrorIs(t, err, ErrTokenGrantFailed)
}

func TestEnroll_ProMode(t *testing.T) {
	var gotReq enrollmentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, enrollmentPath, r.URL.Path)
		require.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Enroll(context.Background(), "user-token", "learner", "course-v1:xPRO+SysEng+R1")
	require.NoError(t, err)
	assert.Equal(t, EnrollmentModePro, result.Mode)
	assert.Equal(t, EnrollmentModePro, gotReq.Mode)
	assert.Equal(t, "learner", gotReq.User)
	assert.Equal(t, "course-v1:xPRO+SysEng+R1", gotReq.CourseDetails.CourseID)
	assert.True(t, gotReq.IsActive)
}

func TestEnroll_FallsBackToAudit(t *testing.T) {
	var modes []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req enrollmentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		modes = append(modes, req.Mode)
		if req.Mode == EnrollmentModePro {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message": "The 'no-id-professional' mode is expired or otherwise unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).Enroll(context.Background(), "user-token", "learner", "course-v1:xPRO+QC+R2")
	require.NoError(t, err)
	assert.Equal(t, EnrollmentModeAudit, result.Mode)
	assert.Equal(t, []string{EnrollmentModePro, EnrollmentModeAudit}, modes)
}

func TestEnroll_HardFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "not allowed"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Enroll(context.Background(), "user-token", "learner", "course-v1:xPRO+QC+R2")
	assert.ErrorIs(t, err, ErrEnrollmentFailed)
}

func TestUnenroll(t *testing.T) {
	var gotReq enrollmentRequest
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := newTestClient(server.URL).Unenroll(context.Background(), "learner", "course-v1:xPRO+QC+R2")
	require.NoError(t, err)
	assert.Equal(t, "Bearer worker-token", gotAuth)
	assert.False(t, gotReq.IsActive)
}
