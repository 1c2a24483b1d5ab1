package crm

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

func newTestCRMClient(serverURL string) *Client {
	client := NewClient(config.HubspotConfig{
		APIKey:  "test-api-key",
		BaseURL: serverURL,
		Timeout: 5 * time.Second,
	})
	client.now = func() time.Time {
		return time.UnixMilli(1700000000000)
	}
	return client
}

func TestMakeSyncMessage(t *testing.T) {
	client := newTestCRMClient("http://unused")

	msg := client.MakeSyncMessage("user-42", map[string]any{
		"email":   "learner@example.com",
		"company": nil,
		"seats":   10,
	})

	assert.Equal(t, "user-42", msg.IntegratorObjectID)
	assert.Equal(t, "UPSERT", msg.Action)
	assert.Equal(t, int64(1700000000000), msg.ChangeOccurredTimestamp)
	assert.Equal(t, "learner@example.com", msg.PropertyNameToValues["email"])
	assert.Equal(t, "", msg.PropertyNameToValues["company"], "nil values are scrubbed to empty strings")
	assert.Equal(t, "10", msg.PropertyNameToValues["seats"])
}

func TestSyncObjects(t *testing.T) {
	var gotMessages []SyncMessage
	var gotPath, gotKey, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("hapikey")
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotMessages))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestCRMClient(server.URL)
	messages := []SyncMessage{
		client.MakeSyncMessage("user-1", map[string]any{"email": "a@example.com"}),
		client.MakeSyncMessage("user-2", map[string]any{"email": "b@example.com"}),
	}
	require.NoError(t, client.SyncObjects(context.Background(), ObjectTypeContact, messages))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/extensions/ecomm/v1/sync-messages/CONTACT", gotPath)
	assert.Equal(t, "test-api-key", gotKey)
	require.Len(t, gotMessages, 2)
	assert.Equal(t, "user-2", gotMessages[1].IntegratorObjectID)
}

func TestSyncObjects_EmptyBatchIsNoop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty batch")
	}))
	defer server.Close()

	client := newTestCRMClient(server.URL)
	assert.NoError(t, client.SyncObjects(context.Background(), ObjectTypeDeal, nil))
}

func TestSyncObjects_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestCRMClient(server.URL)
	err := client.SyncObjects(context.Background(), ObjectTypeDeal, []SyncMessage{{IntegratorObjectID: "x"}})
	assert.ErrorIs(t, err, ErrSyncRequestFailed)
}

func TestGetSyncErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/extensions/ecomm/v1/sync-errors", r.URL.Path)
		assert.Equal(t, "200", r.URL.Query().Get("limit"))
		assert.Equal(t, "0", r.URL.Query().Get("offset"))
		json.NewEncoder(w).Encode(syncErrorsResponse{
			Total: 3,
			Results: []SyncError{
				{ObjectType: "DEAL", IntegratorObjectID: "order-1", Details: "bad property", ErrorTimestamp: 1700000005000},
				{ObjectType: "CONTACT", IntegratorObjectID: "user-9", Details: "stale", ErrorTimestamp: 1600000000000},
				{ObjectType: "LINE_ITEM", IntegratorObjectID: "line-3", Details: "missing deal", ErrorTimestamp: 1700000009000},
			},
		})
	}))
	defer server.Close()

	client := newTestCRMClient(server.URL)
	errs, total, err := client.GetSyncErrors(context.Background(), 1700000000000, 200, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, total)
	require.Len(t, errs, 2, "entries before the since timestamp are dropped")
	assert.Equal(t, "order-1", errs[0].IntegratorObjectID)
	assert.Equal(t, "line-3", errs[1].IntegratorObjectID)
}
