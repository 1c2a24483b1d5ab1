package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/xpro/backend/internal/application/integration"
	"github.com/xpro/backend/internal/infrastructure/config"
)

// Ecomm bridge object types
const (
	ObjectTypeContact  = integration.CRMObjectTypeContact
	ObjectTypeDeal     = integration.CRMObjectTypeDeal
	ObjectTypeLineItem = integration.CRMObjectTypeLineItem
	ObjectTypeProduct  = integration.CRMObjectTypeProduct
)

const (
	syncMessagesPath = "/extensions/ecomm/v1/sync-messages"
	syncErrorsPath   = "/extensions/ecomm/v1/sync-errors"

	maxResponseSize = 10 * 1024 * 1024
)

var ErrSyncRequestFailed = errors.New("crm: sync request failed")

// SyncMessage is one UPSERT record for the ecomm bridge sync endpoint
type SyncMessage = integration.CRMSyncMessage

// SyncError is one failed sync record reported by the bridge
type SyncError = integration.CRMSyncError

type syncErrorsResponse struct {
	Results []SyncError `json:"results"`
	Total   int         `json:"total"`
}

// Client talks to the CRM ecomm bridge. Messages are batched per object
// type and PUT to the sync endpoint; the bridge applies them as
// idempotent upserts keyed on the integrator object id.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client

	now func() time.Time
}

// NewClient creates a CRM client from configuration
func NewClient(cfg config.HubspotConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		now: time.Now,
	}
}

// MakeSyncMessage builds an UPSERT sync message. Nil property values
// are scrubbed to empty strings, the bridge rejects nulls.
func (c *Client) MakeSyncMessage(objectID string, properties map[string]any) SyncMessage {
	scrubbed := make(map[string]string, len(properties))
	for key, value := range properties {
		if value == nil {
			scrubbed[key] = ""
			continue
		}
		scrubbed[key] = fmt.Sprintf("%v", value)
	}
	return SyncMessage{
		IntegratorObjectID:      objectID,
		Action:                  "UPSERT",
		ChangeOccurredTimestamp: c.now().UnixMilli(),
		PropertyNameToValues:    scrubbed,
	}
}

// SyncObjects PUTs a batch of sync messages for one object type
func (c *Client) SyncObjects(ctx context.Context, objectType string, messages []SyncMessage) error {
	if len(messages) == 0 {
		return nil
	}

	body, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("crm: marshaling sync messages: %w", err)
	}

	endpoint := c.endpoint(syncMessagesPath+"/"+objectType, nil)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("crm: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSyncRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		return fmt.Errorf("%w: %s status %d: %s", ErrSyncRequestFailed, objectType, resp.StatusCode, string(respBody))
	}
	return nil
}

// GetSyncErrors pages through sync errors reported since the given
// timestamp in milliseconds
func (c *Client) GetSyncErrors(ctx context.Context, sinceMillis int64, limit, offset int) ([]SyncError, int, error) {
	params := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(syncErrorsPath, params), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("crm: creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrSyncRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, 0, fmt.Errorf("%w: sync-errors status %d", ErrSyncRequestFailed, resp.StatusCode)
	}

	var parsed syncErrorsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("crm: decoding sync errors: %w", err)
	}

	// the endpoint has no since filter, drop stale entries client side
	recent := make([]SyncError, 0, len(parsed.Results))
	for _, syncErr := range parsed.Results {
		if syncErr.ErrorTimestamp >= sinceMillis {
			recent = append(recent, syncErr)
		}
	}
	return recent, parsed.Total, nil
}

// Ensure Client implements the application's CRM port
var _ integration.CRMClient = (*Client)(nil)

func (c *Client) endpoint(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("hapikey", c.apiKey)
	return c.baseURL + path + "?" + params.Encode()
}
