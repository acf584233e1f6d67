// Package mistral is a small client for the Mistral conversations API. It
// starts one conversation with a pre-configured agent per call and returns
// the provider's reply without interpreting it.
package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/longkey1/agentc/internal/agentc"
)

const (
	DefaultBaseURL   = "https://api.mistral.ai/v1"
	DefaultTimeout   = 60 * time.Second
	DefaultUserAgent = "agentc"

	maxErrorBodyBytes    = 4096
	maxResponseBodyBytes = 8 << 20
)

// Doer sends an HTTP request. *http.Client satisfies it; tests substitute
// their own.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ConversationRequest is the body of a conversation-start call.
type ConversationRequest struct {
	AgentID string           `json:"agent_id" validate:"required"`
	Inputs  []agentc.Message `json:"inputs" validate:"required,min=1,dive"`
}

var requestValidator = agentc.NewValidator()

// Client starts conversations with remote agents. It holds no mutable state
// and is safe for concurrent use.
type Client struct {
	credential string
	baseURL    string
	httpClient Doer
	timeout    time.Duration
	userAgent  string
	logger     *log.Logger
}

type Option func(*Client)

// WithBaseURL overrides the API root (default DefaultBaseURL).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

// WithHTTPClient replaces the transport used for the request.
func WithHTTPClient(httpClient Doer) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the timeout of the default transport. It has no effect
// when WithHTTPClient is also given.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// NewClient creates a client authenticating with credential. An empty
// credential is accepted here and reported by StartConversation, before any
// request is made.
func NewClient(credential string, opts ...Option) *Client {
	c := &Client{
		credential: strings.TrimSpace(credential),
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// StartConversation is a convenience wrapper around NewClient and
// Client.StartConversation.
func StartConversation(ctx context.Context, agentID string, messages []agentc.Message, credential string, opts ...Option) (*ConversationResponse, error) {
	return NewClient(credential, opts...).StartConversation(ctx, agentID, messages)
}

func conversationsURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/conversations"
	}
	return base + "/v1/conversations"
}

// StartConversation sends messages to the agent identified by agentID and
// returns the reply. It makes at most one network call and never retries.
func (c *Client) StartConversation(ctx context.Context, agentID string, messages []agentc.Message) (*ConversationResponse, error) {
	if c.credential == "" {
		return nil, &ConfigurationError{Reason: "API key is not configured"}
	}

	reqBody := ConversationRequest{
		AgentID: strings.TrimSpace(agentID),
		Inputs:  messages,
	}
	if err := requestValidator.Struct(reqBody); err != nil {
		return nil, &ConfigurationError{Reason: "invalid conversation request", Err: errors.New(agentc.DescribeValidationError(err))}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ConfigurationError{Reason: "marshal request", Err: err}
	}

	url := conversationsURL(c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &ConfigurationError{Reason: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.credential)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("starting conversation", "url", url, "agent_id", reqBody.AgentID, "inputs", len(messages))
	start := time.Now()

	raw, err := c.do(req, url)
	if err != nil {
		c.logger.Debug("conversation failed", "url", url, "kind", Kind(err), "elapsed", time.Since(start))
		return nil, err
	}
	c.logger.Debug("conversation completed", "url", url, "bytes", len(raw), "elapsed", time.Since(start))

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, &DecodeError{Body: truncate(raw, maxErrorBodyBytes), Err: err}
	}
	if top == nil {
		return nil, &DecodeError{Body: truncate(raw, maxErrorBodyBytes), Err: errors.New("response is not a JSON object")}
	}

	return &ConversationResponse{raw: raw}, nil
}

func (c *Client) do(req *http.Request, url string) ([]byte, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: withContextErr(req.Context(), err)}
	}
	defer func() { _ = res.Body.Close() }()

	c.logger.Debug("provider responded", "status", res.StatusCode)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodyBytes))
		return nil, &ProviderError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       strings.TrimSpace(string(buf)),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodyBytes+1))
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("read response body: %w", withContextErr(req.Context(), err))}
	}
	if len(buf) > maxResponseBodyBytes {
		return nil, &DecodeError{
			Body: truncate(buf, maxErrorBodyBytes),
			Err:  fmt.Errorf("%w (limit %d bytes)", ErrResponseTooLarge, maxResponseBodyBytes),
		}
	}
	return buf, nil
}

// withContextErr makes sure a cancelled or expired context is visible to
// errors.Is even when the transport did not wrap it.
func withContextErr(ctx context.Context, err error) error {
	ctxErr := ctx.Err()
	if ctxErr == nil || errors.Is(err, ctxErr) {
		return err
	}
	return fmt.Errorf("%w: %w", ctxErr, err)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
