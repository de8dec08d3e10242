// Package gateway is the Notification Gateway Client: it pushes text and
// flex messages to chat users through the LINE Messaging API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chatmart/internal/model"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Sender is the contract consumed by the order pipeline and messaging service.
type Sender interface {
	// Send pushes a text message, a flex card, or both to one recipient.
	// At least one of text or card is required.
	Send(ctx context.Context, to, text string, card *FlexMessage) (*SendResult, error)

	// LinkRichMenu attaches a rich menu to a user.
	LinkRichMenu(ctx context.Context, userID, richMenuID string) error
}

// SendResult is what the gateway reported for an accepted push.
type SendResult struct {
	StatusCode int             `json:"statusCode"`
	RequestID  string          `json:"requestId,omitempty"`
	Body       json.RawMessage `json:"body,omitempty"`
}

// Client calls the LINE Messaging API. One HTTP call per Send.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// NewClient builds a gateway client. An empty token is accepted so the
// service can start without credentials; sends then fail with NotificationError.
func NewClient(baseURL, token string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("gateway base URL is required")
	}
	c := &Client{
		baseURL: baseURL,
		token:   strings.TrimSpace(token),
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

type pushRequest struct {
	To       string `json:"to"`
	Messages []any  `json:"messages"`
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Send pushes the message. Empty content fails with ErrEmptyMessage before any network call.
func (c *Client) Send(ctx context.Context, to, text string, card *FlexMessage) (*SendResult, error) {
	messages := make([]any, 0, 2)
	if text = strings.TrimSpace(text); text != "" {
		messages = append(messages, textMessage{Type: "text", Text: text})
	}
	if card.valid() {
		messages = append(messages, card)
	}
	if len(messages) == 0 {
		return nil, model.ErrEmptyMessage
	}
	if strings.TrimSpace(to) == "" {
		return nil, model.NewValidationError("recipient is required")
	}

	return c.post(ctx, "/v2/bot/message/push", pushRequest{To: to, Messages: messages})
}

// LinkRichMenu attaches richMenuID to userID.
func (c *Client) LinkRichMenu(ctx context.Context, userID, richMenuID string) error {
	if userID == "" || richMenuID == "" {
		return model.NewValidationError("user and rich menu are required")
	}
	_, err := c.post(ctx, fmt.Sprintf("/v2/bot/user/%s/richmenu/%s", url.PathEscape(userID), url.PathEscape(richMenuID)), nil)
	return err
}

func (c *Client) post(ctx context.Context, path string, payload any) (*SendResult, error) {
	if c == nil || c.http == nil {
		return nil, model.NewNotificationError(errors.New("gateway client not configured"))
	}
	if c.token == "" {
		return nil, model.NewNotificationError(errors.New("channel access token is not configured"))
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, model.NewNotificationError(fmt.Errorf("encode payload: %w", err))
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, model.NewNotificationError(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, model.NewNotificationError(fmt.Errorf("call LINE API: %w", err))
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		result := &SendResult{
			StatusCode: resp.StatusCode,
			RequestID:  resp.Header.Get("X-Line-Request-Id"),
		}
		if json.Valid(raw) {
			result.Body = raw
		}
		return result, nil
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, model.NewNotificationError(fmt.Errorf("LINE API error: %s", errorMessage(raw, resp.Status)))
	default:
		return nil, model.NewNotificationError(fmt.Errorf("LINE API unexpected status: %s", resp.Status))
	}
}

func errorMessage(raw []byte, fallback string) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if msg := strings.TrimSpace(body.Message); msg != "" {
			return msg
		}
	}
	return fallback
}
