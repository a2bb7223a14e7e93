package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/usamadar/shopify-publish-channel/internal/domain"
	"github.com/usamadar/shopify-publish-channel/internal/ratelimiter"
)

// AccessTokenHeader carries the static Admin API token on every call.
const AccessTokenHeader = "X-Shopify-Access-Token"

const maxErrorBody = 4 << 10

// Request is the JSON body posted to the GraphQL endpoint.
type Request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage    `json:"data"`
	Errors []GraphQLErrorItem `json:"errors"`
}

// Limiter throttles outgoing calls per operation kind.
type Limiter interface {
	Wait(ctx context.Context, op ratelimiter.Operation) error
}

// ClientConfig configures a Client. Limiter and OnRequest are optional.
type ClientConfig struct {
	Endpoint    string
	AccessToken string
	Timeout     time.Duration
	Limiter     Limiter
	OnRequest   func(op ratelimiter.Operation, err error)
}

// Client posts GraphQL documents to the Shopify Admin API.
// The endpoint is injected from config so tests can point to a local server.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	limiter    Limiter
	onRequest  func(ratelimiter.Operation, error)
}

func NewClient(cfg ClientConfig) *Client {
	onRequest := cfg.OnRequest
	if onRequest == nil {
		onRequest = func(ratelimiter.Operation, error) {}
	}
	return &Client{
		endpoint: cfg.Endpoint,
		token:    cfg.AccessToken,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:   cfg.Limiter,
		onRequest: onRequest,
	}
}

// Do sends one GraphQL request and decodes its data object into out.
// A top-level errors array is returned as *GraphQLError; non-2xx responses
// as *HTTPError. Nothing is retried.
func (c *Client) Do(ctx context.Context, op ratelimiter.Operation, gql Request, out any) error {
	err := c.do(ctx, op, gql, out)
	c.onRequest(op, err)
	return err
}

func (c *Client) do(ctx context.Context, op ratelimiter.Operation, gql Request, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, op); err != nil {
			return fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	body, err := json.Marshal(gql)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(AccessTokenHeader, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: send request: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
	}

	var envelope response
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: decode response: %w", domain.ErrTransport, err)
	}
	if len(envelope.Errors) > 0 {
		return &GraphQLError{Errors: envelope.Errors}
	}

	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %w", domain.ErrTransport, err)
	}
	return nil
}
