package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// IsAuthError reports whether the error is a 401 or 403 API response.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// Client is an authenticated consumer of the API. The cookie jar carries the
// httpOnly refresh cookie, the token store carries the access token, and the
// coordinator makes sure an expired token triggers at most one refresh no
// matter how many requests notice the expiry at once.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	tokens      *TokenStore
	coordinator *RefreshCoordinator
	logger      *slog.Logger
}

// New builds a client for the given server base URL.
func New(baseURL string, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid base url")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cookie jar")
	}

	client := &Client{
		baseURL: parsed,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: defaultTimeout,
		},
		tokens: NewTokenStore(),
		logger: logger,
	}
	client.coordinator = NewRefreshCoordinator(client.refreshSession, client.tokens, logger)

	return client, nil
}

// AccessToken returns the current access token, empty when logged out.
func (c *Client) AccessToken() string {
	return c.tokens.Get()
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	payload := map[string]string{"name": name, "email": email, "password": password}

	return c.doOnce(ctx, http.MethodPost, "/api/auth/signup", payload, nil, false)
}

// Login opens a session: the access token lands in the token store, the
// refresh cookie in the jar.
func (c *Client) Login(ctx context.Context, email, password string) error {
	payload := map[string]string{"email": email, "password": password}

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.doOnce(ctx, http.MethodPost, "/api/auth/login", payload, &resp, false); err != nil {
		return err
	}

	c.tokens.Set(resp.AccessToken)

	return nil
}

// Logout closes the session on both sides. The server clears the cookie in
// its response; locally only the access token needs dropping.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doOnce(ctx, http.MethodPost, "/api/auth/logout", nil, nil, false)
	c.tokens.Clear()

	return err
}

// Get performs an authenticated GET, decoding the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post performs an authenticated POST, decoding the response into out.
func (c *Client) Post(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPost, path, payload, out)
}

// Put performs an authenticated PUT, decoding the response into out.
func (c *Client) Put(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPut, path, payload, out)
}

// Delete performs an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do sends the request with the current access token. On a 401 or 403 it
// waits for the coordinated refresh and replays the request exactly once; a
// second rejection surfaces as-is so a revoked session cannot loop. When the
// refresh itself fails the original rejection is returned, not the refresh
// error: the caller asked for this request, not for a session.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	err := c.doOnce(ctx, method, path, payload, out, true)
	if !IsAuthError(err) {
		return err
	}

	if _, refreshErr := c.coordinator.Await(ctx); refreshErr != nil {
		return err
	}

	return c.doOnce(ctx, method, path, payload, out, true)
}

func (c *Client) doOnce(ctx context.Context, method, path string, payload, out any, authenticated bool) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "failed to encode request body")
		}
		body = bytes.NewReader(data)
	}

	target := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		if token := c.tokens.Get(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}

	return nil
}

// refreshSession is the single round trip the coordinator runs. The refresh
// cookie rides along from the jar; no Authorization header is sent.
func (c *Client) refreshSession(ctx context.Context) (string, error) {
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.doOnce(ctx, http.MethodPost, "/api/auth/refresh", nil, &resp, false); err != nil {
		return "", err
	}

	return resp.AccessToken, nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var envelope struct {
		Message string `json:"message"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && json.Unmarshal(data, &envelope) == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		if apiErr.Message == "" {
			apiErr.Message = envelope.Message
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
	}

	return apiErr
}
