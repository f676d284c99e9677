// Package oauth talks to the external OAuth session exchange proxy. The
// mobile client completes the provider flow against the proxy and hands us an
// opaque session ID; this package exchanges that ID for the authenticated
// user's profile.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gregroclawski/DataShatter/pkg/httpclient"
)

// sessionIDHeader carries the client-provided session ID to the proxy.
const sessionIDHeader = "X-Session-ID"

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// SessionData is the profile payload the proxy returns for a valid session
// ID. SessionToken is the token the proxy issued for its own session; we
// record it but never hand it to clients.
type SessionData struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Picture      string `json:"picture"`
	SessionToken string `json:"session_token"`
}

// Client exchanges OAuth session IDs for user profiles.
type Client struct {
	httpClient HTTPDoer
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an OAuth proxy client. baseURL is the proxy's OAuth
// endpoint root, without the trailing /session-data path.
func NewClient(httpClient HTTPDoer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// ExchangeSession resolves a session ID into the authenticated user's
// profile. Any proxy failure, including a rejected session ID, comes back as
// an error; the caller decides how much of that to reveal.
func (c *Client) ExchangeSession(ctx context.Context, sessionID string) (*SessionData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/session-data", nil)
	if err != nil {
		return nil, fmt.Errorf("create session-data request: %w", err)
	}
	req.Header.Set(sessionIDHeader, sessionID)

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call oauth proxy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "oauth proxy")
	}

	var data SessionData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode session data: %w", err)
	}

	if data.Email == "" {
		return nil, fmt.Errorf("oauth proxy returned no email for session")
	}

	c.logger.InfoContext(ctx, "oauth session exchanged",
		slog.String("email", data.Email),
	)

	return &data, nil
}
