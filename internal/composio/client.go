// Package composio provides the API client for the Composio platform.
//
// The client covers exactly the surface this CLI needs:
//   - Creating a custom MCP server scoped to a toolkit/tool manifest
//   - Generating a user-scoped connection URL for an existing server
//   - Validating an API key
//
// Every method performs a single attempt with no retry; a failure surfaces
// immediately to the caller.
package composio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/billing-agent/billctl/internal/buildinfo"
)

const (
	// DefaultBaseURL is the default Composio API endpoint.
	DefaultBaseURL = "https://backend.composio.dev"
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// Client is the Composio API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is a structured error for non-2xx platform responses. The
// status code lets callers classify auth failures and name conflicts
// without matching message text.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("composio request failed with status %d: %s", e.StatusCode, e.Message)
}

// createServerRequest is the request body for creating an MCP server.
type createServerRequest struct {
	Name         string   `json:"name"`
	Toolkits     []string `json:"toolkits"`
	AllowedTools []string `json:"allowed_tools"`

	// ChatAuth defers the OAuth handoff for each toolkit to chat time
	// instead of requiring connected accounts up front.
	ChatAuth bool `json:"chat_auth"`
}

// Server is the platform's record of a created MCP server.
type Server struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// generateURLRequest is the request body for minting a user-scoped URL.
type generateURLRequest struct {
	UserID   string `json:"user_id"`
	ChatAuth bool   `json:"chat_auth"`
}

// GeneratedURL is the platform's response to a URL generation request.
type GeneratedURL struct {
	URL string `json:"url"`
}

// CreateServer creates a custom MCP server named name, restricted to the
// given toolkits and fully-qualified tool names. Exactly one mutating call.
func (c *Client) CreateServer(ctx context.Context, name string, toolkits, allowedTools []string) (*Server, error) {
	body := createServerRequest{
		Name:         name,
		Toolkits:     toolkits,
		AllowedTools: allowedTools,
		ChatAuth:     true,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v3/mcp/servers", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setRequestHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, unexpectedStatus(resp.StatusCode, resp.Body)
	}

	var server Server
	if err := json.NewDecoder(resp.Body).Decode(&server); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &server, nil
}

// GenerateURL mints a connection URL for the given server scoped to userID.
func (c *Client) GenerateURL(ctx context.Context, serverID, userID string) (*GeneratedURL, error) {
	body := generateURLRequest{
		UserID:   userID,
		ChatAuth: true,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v3/mcp/servers/%s/generate", c.baseURL, serverID)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setRequestHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate server URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, unexpectedStatus(resp.StatusCode, resp.Body)
	}

	var generated GeneratedURL
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &generated, nil
}

// ValidateKey checks that the API key is accepted by the platform.
// Uses the toolkits listing endpoint, which requires nothing beyond a
// valid key.
func (c *Client) ValidateKey(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v3/toolkits?limit=1", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.setRequestHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &APIError{StatusCode: resp.StatusCode, Message: "invalid or expired API key"}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return unexpectedStatus(resp.StatusCode, resp.Body)
}

func (c *Client) setRequestHeaders(req *http.Request) {
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "billctl/"+buildinfo.Version)
}

// unexpectedStatus creates a structured APIError from a non-2xx response.
func unexpectedStatus(statusCode int, body io.Reader) error {
	respBody, readErr := io.ReadAll(body)
	if readErr != nil {
		return &APIError{StatusCode: statusCode, Message: fmt.Sprintf("(failed to read body: %v)", readErr)}
	}

	return &APIError{StatusCode: statusCode, Message: string(bytes.TrimSpace(respBody))}
}
