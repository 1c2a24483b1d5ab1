package vendorfeed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpro/backend/internal/infrastructure/config"
)

func newTestFeedClient(serverURL string) *Client {
	return NewClient(config.EmeritusConfig{
		BaseURL:         serverURL,
		APIKey:          "feed-key",
		ReportName:      "Batch",
		JobPollInterval: time.Millisecond,
		JobPollAttempts: 5,
		RequestTimeout:  5 * time.Second,
	})
}

func TestListQueries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/queries", r.URL.Path)
		assert.Equal(t, "feed-key", r.URL.Query().Get("api_key"))
		json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{"id": 7, "name": "Batch"},
				{"id": 8, "name": "Other"},
			},
		})
	}))
	defer server.Close()

	queries, err := newTestFeedClient(server.URL).ListQueries(context.Background())
	require.NoError(t, err)
	require.Len(t, queries, 2)
	assert.Equal(t, int64(7), queries[0].ID)
	assert.Equal(t, "Batch", queries[0].Name)
}

func TestFetchReportRows_CachedResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/queries":
			json.NewEncoder(w).Encode(map[string]any{
				"result": []map[string]any{{"id": 7, "name": "Batch"}},
			})
		case "/api/queries/7/results":
			require.Equal(t, http.MethodPost, r.Method)
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Contains(t, body, "parameters")
			json.NewEncoder(w).Encode(map[string]any{
				"query_result": map[string]any{
					"data": map[string]any{
						"rows": []map[string]any{{"program_name": "Quantum Computing"}},
					},
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	rows, err := newTestFeedClient(server.URL).FetchReportRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Quantum Computing", rows[0]["program_name"])
}

func TestFetchReportRows_PollsJob(t *testing.T) {
	var statusCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/queries":
			json.NewEncoder(w).Encode(map[string]any{
				"result": []map[string]any{{"id": 7, "name": "Batch"}},
			})
		case "/api/queries/7/results":
			json.NewEncoder(w).Encode(map[string]any{
				"job": map[string]any{"id": "job-1", "status": 1},
			})
		case "/api/jobs/job-1":
			status := 1
			if statusCalls.Add(1) >= 3 {
				status = JobStatusReady
			}
			json.NewEncoder(w).Encode(map[string]any{
				"job": map[string]any{"id": "job-1", "status": status, "query_result_id": 99},
			})
		case "/api/query_results/99":
			json.NewEncoder(w).Encode(map[string]any{
				"query_result": map[string]any{
					"data": map[string]any{
						"rows": []map[string]any{{"course_code": "MO-SYS"}},
					},
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	rows, err := newTestFeedClient(server.URL).FetchReportRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "MO-SYS", rows[0]["course_code"])
	assert.GreaterOrEqual(t, statusCalls.Load(), int32(3))
}

func TestFetchReportRows_JobFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/queries":
			json.NewEncoder(w).Encode(map[string]any{
				"result": []map[string]any{{"id": 7, "name": "Batch"}},
			})
		case "/api/queries/7/results":
			json.NewEncoder(w).Encode(map[string]any{
				"job": map[string]any{"id": "job-1", "status": 1},
			})
		case "/api/jobs/job-1":
			json.NewEncoder(w).Encode(map[string]any{
				"job": map[string]any{"id": "job-1", "status": JobStatusFailed},
			})
		}
	}))
	defer server.Close()

	_, err := newTestFeedClient(server.URL).FetchReportRows(context.Background())
	assert.ErrorIs(t, err, ErrJobFailed)
}

func TestFetchReportRows_JobTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/queries":
			json.NewEncoder(w).Encode(map[string]any{
				"result": []map[string]any{{"id": 7, "name": "Batch"}},
			})
		case "/api/queries/7/results":
			json.NewEncoder(w).Encode(map[string]any{
				"job": map[string]any{"id": "job-1", "status": 1},
			})
		case "/api/jobs/job-1":
			json.NewEncoder(w).Encode(map[string]any{
				"job": map[string]any{"id": "job-1", "status": 2},
			})
		}
	}))
	defer server.Close()

	_, err := newTestFeedClient(server.URL).FetchReportRows(context.Background())
	assert.ErrorIs(t, err, ErrJobTimedOut)
}

func TestFetchReportRows_ReportMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{{"id": 8, "name": "Other"}},
		})
	}))
	defer server.Close()

	_, err := newTestFeedClient(server.URL).FetchReportRows(context.Background())
	assert.ErrorIs(t, err, ErrReportNotFound)
}
