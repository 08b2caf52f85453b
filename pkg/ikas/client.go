// Package ikas is a minimal client for the ikas Admin GraphQL API.
package ikas

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

	"go.opentelemetry.io/otel/attribute"

	"github.com/dukex/ikas-actions/pkg/otelhelper"
)

const (
	// DefaultEndpoint is the production Admin API.
	DefaultEndpoint = "https://api.myikas.com/api/v1/admin/graphql"

	defaultTimeout       = 30 * time.Second
	maxResponseBodyBytes = 10 << 20
)

var (
	// ErrOrderNotFound means the query succeeded but returned no order.
	ErrOrderNotFound = errors.New("order not found")
	// ErrUpstream wraps every transport, HTTP status and GraphQL error.
	ErrUpstream = errors.New("ikas api request failed")
)

// API is the part of the Admin API used by the service.
type API interface {
	FetchOrderByID(ctx context.Context, orderID string) (*Order, error)
	GetMerchant(ctx context.Context) (*Merchant, error)
	GetAuthorizedApp(ctx context.Context) (*AuthorizedApp, error)
}

// Factory builds an API bound to one Authorization header value.
type Factory func(authorization string) API

// Config configures clients.
type Config struct {
	Endpoint   string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// NewFactory returns a Factory sharing config between clients.
func NewFactory(config Config) Factory {
	return func(authorization string) API {
		return NewClient(config, authorization)
	}
}

// Client sends GraphQL operations with a fixed Authorization header.
type Client struct {
	endpoint      string
	httpClient    *http.Client
	authorization string
}

// NewClient creates a client. Empty config fields use the defaults.
func NewClient(config Config, authorization string) *Client {
	endpoint := strings.TrimSpace(config.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}

		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		endpoint:      endpoint,
		httpClient:    httpClient,
		authorization: authorization,
	}
}

// Error is a GraphQL error entry.
type Error struct {
	Message string `json:"message"`
}

type graphqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []Error         `json:"errors,omitempty"`
}

// ListOrders returns the orders matching id exactly.
func (c *Client) ListOrders(ctx context.Context, orderID string) ([]Order, error) {
	var data struct {
		ListOrder *struct {
			Data []Order `json:"data"`
		} `json:"listOrder"`
	}

	err := c.do(ctx, "listOrder", listOrderQuery, map[string]any{
		"id": map[string]any{"eq": orderID},
	}, &data)
	if err != nil {
		return nil, err
	}

	if data.ListOrder == nil {
		return nil, fmt.Errorf("%w: listOrder returned no data", ErrUpstream)
	}

	return data.ListOrder.Data, nil
}

// FetchOrderByID returns the first order with orderID, or ErrOrderNotFound.
func (c *Client) FetchOrderByID(ctx context.Context, orderID string) (*Order, error) {
	orders, err := c.ListOrders(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}

	return &orders[0], nil
}

func (c *Client) GetMerchant(ctx context.Context) (*Merchant, error) {
	var data struct {
		GetMerchant *Merchant `json:"getMerchant"`
	}

	err := c.do(ctx, "getMerchant", getMerchantQuery, nil, &data)
	if err != nil {
		return nil, err
	}

	if data.GetMerchant == nil {
		return nil, fmt.Errorf("%w: getMerchant returned no data", ErrUpstream)
	}

	return data.GetMerchant, nil
}

func (c *Client) GetAuthorizedApp(ctx context.Context) (*AuthorizedApp, error) {
	var data struct {
		GetAuthorizedApp *AuthorizedApp `json:"getAuthorizedApp"`
	}

	err := c.do(ctx, "getAuthorizedApp", getAuthorizedAppQuery, nil, &data)
	if err != nil {
		return nil, err
	}

	if data.GetAuthorizedApp == nil {
		return nil, fmt.Errorf("%w: getAuthorizedApp returned no data", ErrUpstream)
	}

	return data.GetAuthorizedApp, nil
}

func (c *Client) do(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	ctx, span := otelhelper.StartSpan(ctx, otelhelper.Tracer("ikas"), "ikas.graphql",
		attribute.String(otelhelper.OperationKey, operation),
	)
	defer span.End()

	err := c.send(ctx, operation, query, variables, out)
	if err != nil {
		otelhelper.SetError(span, err)
	}

	return err
}

func (c *Client) send(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, OperationName: operation, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.authorization != "" {
		req.Header.Set("Authorization", c.authorization)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUpstream, operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %s: failed to read response: %w", ErrUpstream, operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s: unexpected status %d", ErrUpstream, operation, resp.StatusCode)
	}

	var envelope graphqlResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%w: %s: invalid response body: %w", ErrUpstream, operation, err)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}

		return fmt.Errorf("%w: %s: %s", ErrUpstream, operation, strings.Join(messages, "; "))
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("%w: %s: empty data", ErrUpstream, operation)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: %s: invalid data: %w", ErrUpstream, operation, err)
	}

	return nil
}

var _ API = (*Client)(nil)
