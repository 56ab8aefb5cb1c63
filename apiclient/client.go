package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/dailymood/internal/config"
	"github.com/jrsteele09/dailymood/tokenstore"
	"github.com/pkg/errors"
)

const contentTypeJSON = "application/json"

// Client is the typed wrapper around the backend API. Every call, including
// login and refresh, goes through the same Transport.
type Client struct {
	baseURL   string
	basePath  string
	tokens    tokenstore.Store
	transport *Transport
	http      *http.Client

	baseTransport http.RoundTripper
	timeout       time.Duration
}

type ClientOption func(*Client)

// WithBaseTransport replaces the round tripper under the interceptor.
func WithBaseTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.baseTransport = rt
	}
}

// WithTimeout sets a per-request timeout. Zero keeps the transport default.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func New(baseURL string, tokens tokenstore.Store, options ...ClientOption) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "[apiclient.New] parse base url")
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, errors.Errorf("[apiclient.New] base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		basePath: strings.TrimRight(parsed.Path, "/"),
		tokens:   tokens,
	}
	for _, opt := range options {
		opt(c)
	}

	authPaths := make([]string, 0, len(authRoutes))
	for _, route := range authRoutes {
		authPaths = append(authPaths, c.basePath+route)
	}
	c.transport = NewTransport(c.baseTransport, tokens, c.RefreshToken, authPaths...)
	c.http = &http.Client{Transport: c.transport, Timeout: c.timeout}
	return c, nil
}

// NewFromConfig builds a client from the api section of the configuration.
func NewFromConfig(cfg config.APIConfig, tokens tokenstore.Store) (*Client, error) {
	return New(cfg.GetBaseURL(), tokens, WithTimeout(cfg.GetTimeout()))
}

// OnAuthFailure installs the hook run after a refresh failed and the token
// was deleted.
func (c *Client) OnAuthFailure(handler AuthFailureHandler) {
	c.transport.SetAuthFailureHandler(handler)
}

// HTTPClient exposes the intercepted client.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

func (c *Client) url(route string) string {
	return c.baseURL + route
}

// do sends in as JSON (when non-nil) and decodes a 2xx body into out (when
// non-nil). Other statuses become *APIError.
func (c *Client) do(ctx context.Context, method, route string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "[Client.do] encode %s body", route)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(route), body)
	if err != nil {
		return errors.Wrapf(err, "[Client.do] build %s %s", method, route)
	}
	req.Header.Set("Accept", contentTypeJSON)
	if in != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "[Client.do] %s %s", method, route)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "[Client.do] read %s response", route)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(method, route, resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "[Client.do] decode %s response", route)
	}
	return nil
}
