package facultypedia

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/session"
)

const defaultTimeout = 30 * time.Second

// Client talks to the Facultypedia backend API on behalf of the signed-in
// admin. All responses are unwrapped from the backend's {success, message,
// data} envelope, and every failure comes back as an *APIError.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sess       *session.Store
	timeout    time.Duration
	logger     zerolog.Logger

	// Superadmin credentials for automatic login when no session exists.
	// Empty credentials disable auto-login.
	adminEmail    string
	adminPassword string
	loginMu       sync.Mutex
}

// Options tunes client construction. The zero value is usable.
type Options struct {
	Timeout            time.Duration
	SuperAdminEmail    string
	SuperAdminPassword string
	HTTPClient         *http.Client
}

func NewClient(baseURL string, sess *session.Store, logger zerolog.Logger, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		httpClient:    httpClient,
		sess:          sess,
		timeout:       opts.Timeout,
		logger:        logger,
		adminEmail:    opts.SuperAdminEmail,
		adminPassword: opts.SuperAdminPassword,
	}
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// requestOptions describe one backend request.
type requestOptions struct {
	params  url.Values
	body    any
	noAuth  bool
	timeout time.Duration
}

// do performs one backend request and decodes the enveloped response into out
// (which may be nil). Failures are always *APIError: status 408 for timeouts,
// status 0 for transport errors, and the backend's own status otherwise. A 401
// from any endpoint expires the session store.
func (c *Client) do(ctx context.Context, method, path string, opt requestOptions, out any) error {
	timeout := opt.timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reqURL := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	if len(opt.params) > 0 {
		reqURL += "?" + opt.params.Encode()
	}

	bodyReader, contentType, err := encodeBody(opt.body)
	if err != nil {
		return &APIError{Status: StatusNetwork, Message: fmt.Sprintf("encode request body: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return &APIError{Status: StatusNetwork, Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if !opt.noAuth {
		if token := c.sess.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Warn().Str("method", method).Str("path", path).Dur("elapsed", time.Since(start)).Msg("backend request timed out")
			return &APIError{Status: StatusTimeout, Message: "request timed out"}
		}
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("backend request failed")
		return &APIError{Status: StatusNetwork, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: StatusNetwork, Message: err.Error()}
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.sess.Expire()
		}
		return errorFromResponse(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	data := unwrapEnvelope(raw)
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Status: StatusNetwork, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// encodeBody serializes a request body. Raw readers, strings and byte slices
// pass through untouched; url.Values become a form post; anything else is
// JSON.
func encodeBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case io.Reader:
		return v, "", nil
	case string:
		return strings.NewReader(v), "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case url.Values:
		return strings.NewReader(v.Encode()), "application/x-www-form-urlencoded;charset=UTF-8", nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(encoded), "application/json", nil
	}
}

// errorFromResponse builds an APIError from a non-2xx response, pulling the
// message out of the JSON payload when there is one.
func errorFromResponse(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status, Message: fmt.Sprintf("request failed with status %d", status)}
	if len(bytes.TrimSpace(raw)) == 0 {
		return apiErr
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		apiErr.Payload = string(raw)
		return apiErr
	}
	apiErr.Payload = payload
	if obj, ok := payload.(map[string]any); ok {
		if msg, ok := obj["message"].(string); ok && msg != "" {
			apiErr.Message = msg
		}
	}
	return apiErr
}

// unwrapEnvelope returns the "data" member of a response envelope, or the
// whole body when the response is not enveloped.
func unwrapEnvelope(raw []byte) json.RawMessage {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		return envelope.Data
	}
	return raw
}

// ---------- verb helpers ----------

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, requestOptions{params: params}, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, requestOptions{body: body}, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, requestOptions{body: body}, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, requestOptions{}, nil)
}

// ---------- session bootstrap ----------

// loginData is the payload of a successful admin login.
type loginData struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	Admin        json.RawMessage `json:"admin"`
}

// Login authenticates against the backend and stores the resulting session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var data loginData
	err := c.do(ctx, http.MethodPost, "/api/auth/admin-login", requestOptions{
		body:   map[string]string{"email": email, "password": password},
		noAuth: true,
	}, &data)
	if err != nil {
		return err
	}
	if data.AccessToken == "" {
		return &APIError{Status: StatusNetwork, Message: "login response missing access token"}
	}
	c.sess.SetSession(data.AccessToken, data.RefreshToken, data.Admin)
	return nil
}

// Logout tells the backend to invalidate the session, then clears it locally
// regardless of the backend's answer.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/admin-logout", requestOptions{}, nil)
	c.sess.Clear()
	if err != nil && !IsUnauthorized(err) {
		return err
	}
	return nil
}

// Me fetches the current admin profile and caches it in the session store.
func (c *Client) Me(ctx context.Context) (json.RawMessage, error) {
	if err := c.EnsureSession(ctx); err != nil {
		return nil, err
	}
	var profile json.RawMessage
	if err := c.get(ctx, "/api/auth/admin/me", nil, &profile); err != nil {
		return nil, err
	}
	c.sess.SetProfile(profile)
	return profile, nil
}

// EnsureSession logs in with the configured superadmin credentials when no
// session exists. Concurrent callers share a single login attempt.
func (c *Client) EnsureSession(ctx context.Context) error {
	if c.sess.Authenticated() {
		return nil
	}
	if c.adminEmail == "" || c.adminPassword == "" {
		return &APIError{Status: http.StatusUnauthorized, Message: "not authenticated"}
	}

	c.loginMu.Lock()
	defer c.loginMu.Unlock()
	if c.sess.Authenticated() {
		return nil
	}
	c.logger.Info().Str("email", c.adminEmail).Msg("no session, logging in as superadmin")
	return c.Login(ctx, c.adminEmail, c.adminPassword)
}
