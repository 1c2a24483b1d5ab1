package vendorfeed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/xpro/backend/internal/application/integration"
	"github.com/xpro/backend/internal/infrastructure/config"
)

// Job statuses reported by the vendor reporting API. Values 1 and 2
// are in-progress.
const (
	JobStatusReady     = 3
	JobStatusFailed    = 4
	JobStatusCancelled = 5
)

const maxResponseSize = 50 * 1024 * 1024

var (
	ErrRequestFailed  = errors.New("vendorfeed: request failed")
	ErrJobFailed      = errors.New("vendorfeed: report job failed")
	ErrJobTimedOut    = errors.New("vendorfeed: report job not ready after poll limit")
	ErrReportNotFound = errors.New("vendorfeed: report query not found")
	ErrMissingResult  = errors.New("vendorfeed: response carried neither job nor query result")
)

// SavedQuery is one report definition on the vendor side
type SavedQuery struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Row is one report row, keyed by column name
type Row map[string]any

type queriesListResponse struct {
	Result []SavedQuery `json:"result"`
}

type job struct {
	ID            string `json:"id"`
	Status        int    `json:"status"`
	QueryResultID int64  `json:"query_result_id"`
}

type queryResult struct {
	Data struct {
		Rows []Row `json:"rows"`
	} `json:"data"`
}

type queryResponse struct {
	Job         *job         `json:"job"`
	QueryResult *queryResult `json:"query_result"`
}

// Client talks to the vendor reporting API. Report results are either
// served from the vendor's cache immediately or computed by a job that
// the client polls to completion.
type Client struct {
	baseURL      string
	apiKey       string
	reportName   string
	pollInterval time.Duration
	pollAttempts int
	httpClient   *http.Client
}

// NewClient creates a vendor feed client from configuration
func NewClient(cfg config.EmeritusConfig) *Client {
	return &Client{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		reportName:   cfg.ReportName,
		pollInterval: cfg.JobPollInterval,
		pollAttempts: cfg.JobPollAttempts,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// ListQueries returns the saved report queries available to the key
func (c *Client) ListQueries(ctx context.Context) ([]SavedQuery, error) {
	var parsed queriesListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/queries", nil, &parsed); err != nil {
		return nil, err
	}
	return parsed.Result, nil
}

// FetchReportRows locates the configured report among the saved
// queries, requests its results for the last day and returns the rows.
func (c *Client) FetchReportRows(ctx context.Context) ([]Row, error) {
	queries, err := c.ListQueries(ctx)
	if err != nil {
		return nil, err
	}

	for _, query := range queries {
		if query.Name != c.reportName {
			continue
		}

		end := time.Now().UTC()
		start := end.AddDate(0, 0, -1)
		return c.queryRows(ctx, query.ID, start, end)
	}
	return nil, fmt.Errorf("%w: %q", ErrReportNotFound, c.reportName)
}

// FetchCourses fetches the report rows and parses each into a vendor
// course record
func (c *Client) FetchCourses(ctx context.Context) ([]integration.VendorCourse, error) {
	rows, err := c.FetchReportRows(ctx)
	if err != nil {
		return nil, err
	}

	courses := make([]integration.VendorCourse, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, ParseVendorCourse(row))
	}
	return courses, nil
}

// Ensure Client implements the application's vendor feed port
var _ integration.VendorFeedClient = (*Client)(nil)

func (c *Client) queryRows(ctx context.Context, queryID int64, start, end time.Time) ([]Row, error) {
	body := map[string]any{
		"parameters": map[string]any{
			"date_range": map[string]string{
				"start": start.Format("2006-01-02 15:04:05"),
				"end":   end.Format("2006-01-02 15:04:05"),
			},
		},
	}

	var resp queryResponse
	path := fmt.Sprintf("/api/queries/%d/results", queryID)
	if err := c.doJSON(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}

	if resp.Job != nil {
		result, err := c.awaitJob(ctx, resp.Job.ID)
		if err != nil {
			return nil, err
		}
		resp.QueryResult = result
	}

	if resp.QueryResult == nil {
		return nil, ErrMissingResult
	}
	return resp.QueryResult.Data.Rows, nil
}

// awaitJob polls the job until it is ready, then collects the result
func (c *Client) awaitJob(ctx context.Context, jobID string) (*queryResult, error) {
	for attempt := 0; attempt < c.pollAttempts; attempt++ {
		var status struct {
			Job job `json:"job"`
		}
		if err := c.doJSON(ctx, http.MethodGet, "/api/jobs/"+jobID, nil, &status); err != nil {
			return nil, err
		}

		switch status.Job.Status {
		case JobStatusReady:
			var result struct {
				QueryResult queryResult `json:"query_result"`
			}
			path := fmt.Sprintf("/api/query_results/%d", status.Job.QueryResultID)
			if err := c.doJSON(ctx, http.MethodGet, path, nil, &result); err != nil {
				return nil, err
			}
			return &result.QueryResult, nil
		case JobStatusFailed, JobStatusCancelled:
			return nil, fmt.Errorf("%w: job %s status %d", ErrJobFailed, jobID, status.Job.Status)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
	return nil, fmt.Errorf("%w: job %s", ErrJobTimedOut, jobID)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("vendorfeed: marshaling request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	url := fmt.Sprintf("%s%s?api_key=%s", c.baseURL, path, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("vendorfeed: creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: %s status %d", ErrRequestFailed, path, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(out); err != nil {
		return fmt.Errorf("vendorfeed: decoding response: %w", err)
	}
	return nil
}
