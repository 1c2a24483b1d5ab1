package mail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/xpro/backend/internal/application/notification"
	"github.com/xpro/backend/internal/infrastructure/config"
)

const maxResponseSize = 1 * 1024 * 1024

var ErrSendFailed = errors.New("mail: send request failed")

// MailgunClient sends transactional email through the Mailgun messages
// API. Requests are form-encoded POSTs authenticated with HTTP basic
// auth against the sending domain.
type MailgunClient struct {
	apiKey     string
	domain     string
	baseURL    string
	sender     string
	httpClient *http.Client
}

// NewMailgunClient creates a Mailgun client from configuration
func NewMailgunClient(cfg config.MailgunConfig) *MailgunClient {
	return &MailgunClient{
		apiKey:  cfg.APIKey,
		domain:  cfg.Domain,
		baseURL: cfg.BaseURL,
		sender:  cfg.SenderAddress,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Send delivers a single plain-text message
func (c *MailgunClient) Send(ctx context.Context, msg notification.Message) error {
	form := url.Values{}
	form.Set("from", c.sender)
	form.Set("to", msg.To)
	form.Set("subject", msg.Subject)
	form.Set("text", msg.Text)

	endpoint := fmt.Sprintf("%s/v3/%s/messages", c.baseURL, c.domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("mail: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("api", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		return fmt.Errorf("%w: status %d: %s", ErrSendFailed, resp.StatusCode, string(body))
	}
	return nil
}

// Ensure MailgunClient implements notification.MailClient
var _ notification.MailClient = (*MailgunClient)(nil)
