package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dekho-exam/prep-engine/internal/config"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenSource supplies the bearer token attached to authenticated requests.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	AccessToken() string
}

// Client is the HTTP client for the remote test service. Operations are
// grouped into sub-services mirroring the server's route groups.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     zerolog.Logger

	Tests   *TestService
	Auth    *AuthService
	Catalog *CatalogService
	Billing *BillingService
}

// NewClient creates a Client for the configured base URL. tokens may be nil
// for a client that only performs unauthenticated calls.
func NewClient(cfg *config.Config, tokens TokenSource, log zerolog.Logger) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		tokens:  tokens,
		log:     log.With().Str("component", "api_client").Logger(),
	}
	c.Tests = &TestService{c: c}
	c.Auth = &AuthService{c: c}
	c.Catalog = &CatalogService{c: c}
	c.Billing = &BillingService{c: c}
	return c
}

// envelope is the server's standard response wrapper.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *errorBody      `json:"error,omitempty"`
}

type errorBody struct {
	Code    ErrCode           `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// requestOption mutates a request before it is sent. Options run after the
// default headers, so they may override the bearer token (OTP verification
// authenticates with the challenge token, not the session token).
type requestOption func(*http.Request)

func withBearer(token string) requestOption {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func withHeader(key, value string) requestOption {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

func (c *Client) get(ctx context.Context, path string, out interface{}, opts ...requestOption) error {
	return c.do(ctx, http.MethodGet, path, nil, out, opts...)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}, opts ...requestOption) error {
	return c.do(ctx, http.MethodPost, path, body, out, opts...)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}, opts ...requestOption) error {
	return c.do(ctx, http.MethodPut, path, body, out, opts...)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, opts ...requestOption) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for _, opt := range opts {
		opt(req)
	}

	c.log.Debug().Str("method", method).Str("path", path).Msg("API request")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			// Error status with a non-JSON body (gateway page etc).
			return &APIError{Status: resp.StatusCode, Code: ErrInternal, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest || env.Error != nil {
		apiErr := &APIError{Status: resp.StatusCode, Code: ErrInternal}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Fields = env.Error.Fields
		}
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("code", string(apiErr.Code)).
			Str("path", path).
			Msg("API error")
		return apiErr
	}

	c.log.Debug().Int("status", resp.StatusCode).Str("path", path).Msg("API response")

	if out != nil {
		if len(env.Data) == 0 {
			return fmt.Errorf("%s %s: empty data in response", method, path)
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}
