// Package client is the single point of contact with the marketplace backend.
// Every response is either decoded JSON or an *apierr.APIError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/apierr"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/auth"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/logging"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/observability"
)

// DefaultTimeout bounds every backend request.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error body is read for message extraction.
const maxErrorBody = 64 << 10

// TokenSource yields the bearer token for the current session, if any.
// Implementations may clear the session and return an error when the token has expired.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Response is a successful backend response.
type Response struct {
	Status int
	Header http.Header
	Body   json.RawMessage
}

// Client issues requests against one backend origin.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithTokenSource attaches a session token provider.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithHTTPClient replaces the underlying http.Client. A cookie jar is added if missing.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for baseURL. timeout <= 0 uses DefaultTimeout.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q: scheme and host required", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		c.httpClient.Jar = jar
	}
	return c, nil
}

// SetTokenSource attaches ts after construction. The session store and the
// client depend on each other, so one of them has to be wired late.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Request performs a call and returns the decoded JSON body.
// payload may be nil, url.Values (form-urlencoded) or *Multipart.
func (c *Client) Request(ctx context.Context, endpoint, method string, payload any) (json.RawMessage, error) {
	resp, err := c.Do(ctx, endpoint, method, payload)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Get is shorthand for a GET Request.
func (c *Client) Get(ctx context.Context, endpoint string) (json.RawMessage, error) {
	return c.Request(ctx, endpoint, http.MethodGet, nil)
}

// Put sends form fields with PUT.
func (c *Client) Put(ctx context.Context, endpoint string, form url.Values) (json.RawMessage, error) {
	return c.Request(ctx, endpoint, http.MethodPut, form)
}

// Post sends payload with POST and keeps the response headers, which the
// login flow inspects for tokens.
func (c *Client) Post(ctx context.Context, endpoint string, payload any) (*Response, error) {
	return c.Do(ctx, endpoint, http.MethodPost, payload)
}

// Do performs the request and normalizes every failure into *apierr.APIError.
func (c *Client) Do(ctx context.Context, endpoint, method string, payload any) (*Response, error) {
	req, err := c.newRequest(ctx, endpoint, method, payload)
	if err != nil {
		return nil, err
	}
	c.authorize(ctx, req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.BackendRequestDuration.WithLabelValues(method, endpointLabel(endpoint), "0").Observe(time.Since(start).Seconds())
		logging.Warnf("backend %s %s failed: %v", method, endpoint, err)
		return nil, apierr.Network(err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	observability.BackendRequestDuration.WithLabelValues(method, endpointLabel(endpoint), strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())
	if readErr != nil {
		return nil, apierr.Network(fmt.Errorf("failed to read response body: %w", readErr))
	}
	logging.Debugf("backend %s %s -> %d", method, endpoint, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp.StatusCode, body)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		trimmed = []byte("null")
	}
	if !json.Valid(trimmed) {
		snippet := string(trimmed)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		logging.Errorf("non-JSON response from %s %s: %s", method, endpoint, snippet)
		return nil, &apierr.APIError{
			Kind:    apierr.KindServer,
			Message: fmt.Sprintf("Server returned non-JSON response. Status: %d", resp.StatusCode),
			Status:  resp.StatusCode,
			Code:    apierr.CodeInvalidResponse,
		}
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: json.RawMessage(trimmed)}, nil
}

func (c *Client) newRequest(ctx context.Context, endpoint, method string, payload any) (*http.Request, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, apierr.Validation("", fmt.Sprintf("invalid endpoint %q", endpoint))
	}
	target := c.baseURL.ResolveReference(ref)

	var (
		body        io.Reader
		contentType string
	)
	switch p := payload.(type) {
	case nil:
	case url.Values:
		body = strings.NewReader(p.Encode())
		contentType = "application/x-www-form-urlencoded"
	case *Multipart:
		buf, ct, err := p.encode()
		if err != nil {
			return nil, fmt.Errorf("failed to encode multipart body: %w", err)
		}
		body = buf
		contentType = ct
	default:
		return nil, fmt.Errorf("unsupported payload type %T", payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// authorize attaches the bearer token only when it is well-formed.
// A missing or rejected token leaves the request to cookie auth.
func (c *Client) authorize(ctx context.Context, req *http.Request) {
	if c.tokens == nil {
		return
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		logging.Warnf("session token unavailable: %v", err)
		return
	}
	if token == "" {
		return
	}
	if !auth.HasValidShape(token) {
		logging.Warnf("invalid token format, skipping Authorization header")
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Detail  any    `json:"detail"`
	Code    any    `json:"code"`
}

func errorFromResponse(status int, body []byte) *apierr.APIError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}
	if msg == "" {
		if s, ok := eb.Detail.(string); ok {
			msg = s
		}
	}

	var code string
	switch v := eb.Code.(type) {
	case string:
		code = v
	case float64:
		code = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return apierr.FromStatus(status, msg, code)
}

var staticSegments = map[string]bool{
	"api": true, "admin": true, "auth": true, "login": true, "signup": true, "health": true,
	"agents": true, "agent": true, "onboard": true, "isvs": true, "resellers": true,
	"enquiries": true, "similar": true, "bundled": true, "bulk-upload": true,
}

// endpointLabel replaces ids in a path with ":id" so metric cardinality stays bounded.
func endpointLabel(endpoint string) string {
	path := endpoint
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, p := range parts {
		if !staticSegments[p] {
			parts[i] = ":id"
		}
	}
	return "/" + strings.Join(parts, "/")
}
