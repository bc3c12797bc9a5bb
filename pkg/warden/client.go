// Package warden is the client SDK for the warden authentication backend.
// It wraps the three account operations (login, register, profile) plus the
// item listing behind a uniform response contract: every call either yields
// its typed result or exactly one *APIError describing what went wrong.
//
// The client holds no session state. Tokens come back from Login as opaque
// strings and are passed into Profile and Items by the caller; persistence
// and reuse live in pkg/tokencache.
package warden

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgerline/warden-client/internal/httpclient"
	"github.com/ledgerline/warden-client/internal/metrics"
)

// Client talks to a warden backend. Operations are independent: no retries,
// no shared state between calls. A Client is safe for concurrent use.
type Client struct {
	logger *zap.Logger
	cfg    Config
	exec   *httpclient.Executor
}

// New constructs a Client. A nil logger disables lifecycle logging.
func New(logger *zap.Logger, cfg Config) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		logger: logger,
		cfg:    cfg,
		exec:   httpclient.New(logger, httpClient, "warden"),
	}
}

// BaseURL returns the resolved backend endpoint.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

// Login exchanges credentials for an access token via POST /token. The form
// encoding matches the backend's OAuth2 password flow. The token is opaque:
// callers own its storage and lifetime, and the client never inspects it.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", newTransportError(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	object, body, apiErr := c.do(req, "/token")
	if apiErr != nil {
		return "", apiErr
	}

	token, ok := object["access_token"].(string)
	if !ok || token == "" {
		return "", &APIError{Message: "Token missing in response", RawBody: string(body)}
	}

	c.logger.Info("warden.login_success", zap.String("user", username))
	return token, nil
}

// Register creates a new account via POST /register. A nil error means the
// backend accepted the account; the caller logs in separately.
func (c *Client) Register(ctx context.Context, reg RegisterRequest) error {
	data, _ := json.Marshal(reg)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/register", bytes.NewReader(data))
	if err != nil {
		return newTransportError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	if _, _, apiErr := c.do(req, "/register"); apiErr != nil {
		return apiErr
	}

	c.logger.Info("warden.register_success", zap.String("user", reg.Username))
	return nil
}

// Profile fetches the account record behind token via GET /users/me/.
func (c *Client) Profile(ctx context.Context, token string) (*UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.BaseURL+"/users/me/", nil)
	if err != nil {
		return nil, newTransportError(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	object, body, apiErr := c.do(req, "/users/me/")
	if apiErr != nil {
		return nil, apiErr
	}

	profile, err := parseUserProfile(object)
	if err != nil {
		return nil, &APIError{
			Message: "Malformed profile data in response",
			RawBody: string(body),
			cause:   err,
		}
	}

	c.logger.Debug("warden.profile_fetched", zap.String("user", profile.Username))
	return profile, nil
}

// Items lists the authenticated user's items via GET /users/me/items/.
// The endpoint returns a JSON array, so the body is decoded directly; status
// and error handling still go through the shared normalization.
func (c *Client) Items(ctx context.Context, token string) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.BaseURL+"/users/me/items/", nil)
	if err != nil {
		return nil, newTransportError(err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	_, body, apiErr := c.do(req, "/users/me/items/")
	if apiErr != nil {
		return nil, apiErr
	}

	var items []Item
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, &APIError{
			Message: "Malformed items data in response",
			RawBody: string(body),
			cause:   err,
		}
	}

	c.logger.Debug("warden.items_fetched", zap.Int("count", len(items)))
	return items, nil
}

// do runs one round-trip and pushes the outcome through the normalizer.
// The raw body is returned alongside the normalized object for operations
// that need it (array payloads, error reporting).
func (c *Client) do(req *http.Request, endpoint string) (map[string]any, []byte, *APIError) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	status, body, err := c.exec.Do(req)
	if err != nil {
		metrics.IncRequest(endpoint, req.Method, transportLabel(err))
		return nil, nil, newTransportError(err)
	}
	metrics.IncRequest(endpoint, req.Method, strconv.Itoa(status))
	metrics.ObserveDuration(metrics.WardenRequestDuration, start, endpoint, req.Method)

	object, apiErr := normalizeResponse(status, body)
	if apiErr != nil {
		return nil, body, apiErr
	}
	return object, body, nil
}
