package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// DefaultAPIURL is the public Bot API endpoint.
const DefaultAPIURL = "https://api.telegram.org"

// ErrNotModified is returned when an edit would leave the message unchanged.
var ErrNotModified = errors.New("message is not modified")

// APIError is a Bot API call that came back with ok=false.
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

// Client is a minimal Bot API client covering long polling, sending and
// editing text messages.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at another API server, e.g. a test server.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		token:   token,
		baseURL: DefaultAPIURL,
		http:    &http.Client{Timeout: 90 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetUpdates long-polls for updates after offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	req := getUpdatesRequest{
		Offset:         offset,
		Timeout:        int(timeout / time.Second),
		AllowedUpdates: []string{"message"},
	}
	return call[[]Update](ctx, c, "getUpdates", req)
}

// SendMessage posts a plain text message.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) (Message, error) {
	return call[Message](ctx, c, "sendMessage", sendMessageRequest{ChatID: chatID, Text: text})
}

// EditMessageText replaces the text of an earlier message. An unchanged text
// yields ErrNotModified.
func (c *Client) EditMessageText(ctx context.Context, chatID int64, messageID int, text string) (Message, error) {
	req := editMessageTextRequest{ChatID: chatID, MessageID: messageID, Text: text}
	msg, err := call[Message](ctx, c, "editMessageText", req)
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.Contains(apiErr.Description, ErrNotModified.Error()) {
		return Message{}, fmt.Errorf("%w: %s", ErrNotModified, apiErr.Description)
	}
	return msg, err
}

func call[T any](ctx context.Context, c *Client, method string, payload any) (T, error) {
	var zero T

	body, err := sonic.Marshal(payload)
	if err != nil {
		return zero, fmt.Errorf("encode %s: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return zero, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// The token is part of the URL; keep it out of logs.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return zero, fmt.Errorf("telegram %s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("telegram %s: read body: %w", method, err)
	}

	var out apiResponse[T]
	if err := sonic.Unmarshal(data, &out); err != nil {
		return zero, fmt.Errorf("telegram %s: http %d: decode: %w", method, resp.StatusCode, err)
	}
	if !out.OK {
		code := out.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return zero, &APIError{Method: method, Code: code, Description: out.Description}
	}
	return out.Result, nil
}
