// Package urlgen mints user-scoped connection endpoints for an existing
// MCP server on the Composio platform.
package urlgen

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/billing-agent/billctl/internal/composio"
	clierrors "github.com/billing-agent/billctl/internal/errors"
)

// APIKeyHeader is the header carrying the Composio credential, both on
// platform requests and in the emitted client configs.
const APIKeyHeader = "x-api-key"

// URLMinter is the narrow platform surface endpoint generation depends on.
// *composio.Client satisfies it; tests substitute a stub.
type URLMinter interface {
	GenerateURL(ctx context.Context, serverID, userID string) (*composio.GeneratedURL, error)
}

// Request identifies the server and user to mint an endpoint for.
type Request struct {
	APIKey   string
	ServerID string
	UserID   string
}

// Endpoint is a user-scoped connection target. It lives only for the
// duration of one generate invocation and is never persisted.
type Endpoint struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
}

// GenerateEndpoint validates the request fields in order (credential,
// server id, user id), then asks the platform for a user-scoped URL. The
// first empty field determines the error; no network call happens before
// all three pass. The returned headers always carry the API key.
func GenerateEndpoint(ctx context.Context, minter URLMinter, req Request) (*Endpoint, error) {
	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		return nil, clierrors.CredentialMissing()
	}

	serverID := strings.TrimSpace(req.ServerID)
	if serverID == "" {
		return nil, clierrors.FieldRequired("server id")
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, clierrors.FieldRequired("user id")
	}

	generated, err := minter.GenerateURL(ctx, serverID, userID)
	if err != nil {
		return nil, classifyGenerateError(err)
	}

	return &Endpoint{
		URL: generated.URL,
		Headers: map[string]string{
			APIKeyHeader: apiKey,
		},
	}, nil
}

func classifyGenerateError(err error) error {
	var apiErr *composio.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			return clierrors.CredentialRejected(err)
		}

		return clierrors.GenerationFailed(err)
	}

	if clierrors.ContainsAny(err.Error(), clierrors.AuthMarkers...) {
		return clierrors.CredentialRejected(err)
	}

	return clierrors.GenerationFailed(err)
}
