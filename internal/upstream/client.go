package upstream

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
	"strings"
	"time"

	"github.com/luanmoretti/kmerch-backend/internal/catalog"
	"github.com/luanmoretti/kmerch-backend/internal/checkout"
	pkgerrors "github.com/luanmoretti/kmerch-backend/pkg/errors"
)

const (
	defaultTimeout = 10 * time.Second

	requestBodyReadLimit    int64 = 1024
	responseBodyDecodeLimit int64 = 8 << 20
)

var errBaseURLRequired = errors.New("catalog base URL is required")

// Client talks to the upstream catalog and order services. Responses are
// returned as decoded JSON values; field interpretation belongs to the
// normalizer, not the transport.
type Client struct {
	httpClient     *http.Client
	catalogBaseURL string
	ordersURL      string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithOrdersURL sets the order submission endpoint.
func WithOrdersURL(ordersURL string) Option {
	return func(c *Client) {
		c.ordersURL = strings.TrimSpace(ordersURL)
	}
}

// WithTimeout overrides the default request timeout. Ignored when a custom
// HTTP client is supplied.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 && c.httpClient != nil {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds the upstream client for the given catalog base URL.
func NewClient(catalogBaseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(catalogBaseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		catalogBaseURL: trimmed,
		httpClient:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return client, nil
}

// FetchList requests one catalog page. Only parameters the caller actually
// set are forwarded.
func (c *Client) FetchList(ctx context.Context, query catalog.ListQuery) (any, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog client not configured")
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(query.Page))
	if query.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(query.PageSize))
	}
	if query.Search != "" {
		params.Set("q", query.Search)
	}
	if query.Category != "" {
		params.Set("category", query.Category)
	}
	if query.Sort != "" {
		params.Set("sort", query.Sort)
	}
	if query.MinPrice > 0 {
		params.Set("minPrice", strconv.FormatFloat(query.MinPrice, 'f', -1, 64))
	}
	if query.MaxPrice > 0 {
		params.Set("maxPrice", strconv.FormatFloat(query.MaxPrice, 'f', -1, 64))
	}
	if query.PreorderOnly {
		params.Set("preorder", "true")
	}

	return c.getJSON(ctx, fmt.Sprintf("%s/products?%s", c.catalogBaseURL, params.Encode()), "catalog list")
}

// FetchDetail requests a single product payload by upstream ID.
func (c *Client) FetchDetail(ctx context.Context, id string) (any, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog client not configured")
	}
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	return c.getJSON(ctx, fmt.Sprintf("%s/products/%s", c.catalogBaseURL, url.PathEscape(trimmed)), "catalog detail")
}

// SubmitOrder posts the order payload to the order service.
func (c *Client) SubmitOrder(ctx context.Context, payload *checkout.OrderPayload) (*checkout.Confirmation, error) {
	if c == nil || c.ordersURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order endpoint not configured")
	}
	if payload == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order payload is required")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal order payload")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ordersURL, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build order request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute order request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "order request failed")
	}

	var confirmation checkout.Confirmation
	if err := json.NewDecoder(resp.Body).Decode(&confirmation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order response")
	}
	return &confirmation, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL, label string) (any, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("build %s request", label))
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("execute %s request", label))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "upstream resource not found")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), fmt.Sprintf("%s request failed", label))
	}

	var decoded any
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyDecodeLimit)).Decode(&decoded); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s response", label))
	}
	return decoded, nil
}
