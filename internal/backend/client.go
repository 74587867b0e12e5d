package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/wolfeidau/bbprovision/internal/logger"
	"github.com/wolfeidau/bbprovision/internal/telemetry"
)

const (
	restPrefix     = "/rest/v1/"
	rpcPrefix      = "/rest/v1/rpc/"
	functionPrefix = "/functions/v1/"
)

// Config holds backend client configuration
type Config struct {
	BaseURL    string
	ServiceKey string
	Timeout    time.Duration
	Debug      bool
}

// DefaultConfig returns a default client configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:54321",
		Timeout: 5 * time.Minute,
	}
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for requests. The transport
// wrapping done by New is skipped.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Client issues authenticated PostgREST and edge function calls against a
// Supabase-style backend. Calls are single-shot, nothing is retried.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// New creates a backend client. It fails with ErrMissingServiceKey when no key is
// configured so that no request can ever leave without credentials.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.ServiceKey == "" {
		return nil, ErrMissingServiceKey
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend: base url is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		serviceKey: cfg.ServiceKey,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(logger.NewRoundTripper(http.DefaultTransport)),
		}
	}

	return c, nil
}

// Lookup reads rows of resource matching query. A 404 is returned as an
// OutcomeNotFound response, not an error.
func (c *Client) Lookup(ctx context.Context, resource string, query *Query) (*Response, error) {
	path := restPrefix + resource
	if enc := query.Encode(); enc != "" {
		path += "?" + enc
	}
	return c.do(ctx, http.MethodGet, path, nil)
}

// Create inserts body into resource.
func (c *Client) Create(ctx context.Context, resource string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPost, restPrefix+resource, body)
}

// CallProcedure invokes the remote procedure name with args.
func (c *Client) CallProcedure(ctx context.Context, name string, args any) (*Response, error) {
	return c.do(ctx, http.MethodPost, rpcPrefix+name, args)
}

// InvokeFunction posts body to the edge function name.
func (c *Client) InvokeFunction(ctx context.Context, name string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPost, functionPrefix+name, body)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}

	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s response: %w", method, path, err)
	}

	outcome := classify(resp.StatusCode)
	record(ctx, method, outcome, time.Since(started))

	if outcome == OutcomeFailure {
		log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("backend call failed")

		return nil, &HTTPError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: data}
	}

	return &Response{
		Outcome:    outcome,
		StatusCode: resp.StatusCode,
		Method:     method,
		Path:       path,
		Body:       data,
	}, nil
}

func record(ctx context.Context, method string, outcome Outcome, elapsed time.Duration) {
	m := telemetry.GetMetrics()
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("outcome", outcome.String()),
	)
	m.BackendRequestsTotal.Add(ctx, 1, attrs)
	m.BackendRequestDuration.Record(ctx, float64(elapsed.Milliseconds()), attrs)
}
