// Package provision creates the billing automation MCP server on the
// Composio platform.
package provision

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/billing-agent/billctl/internal/composio"
	clierrors "github.com/billing-agent/billctl/internal/errors"
	"github.com/billing-agent/billctl/internal/manifest"
)

// ServerCreator is the narrow platform surface provisioning depends on.
// *composio.Client satisfies it; tests substitute a stub.
type ServerCreator interface {
	CreateServer(ctx context.Context, name string, toolkits, allowedTools []string) (*composio.Server, error)
}

// Request carries everything needed to provision a server.
type Request struct {
	APIKey     string
	ServerName string
	Manifest   manifest.Manifest
}

// Result is the outcome of a successful provisioning call. Toolkits and
// AllowedTools echo the request manifest; the platform response is not
// diffed against it.
type Result struct {
	ServerID     string   `json:"serverId"`
	ServerName   string   `json:"serverName"`
	Toolkits     []string `json:"toolkits"`
	AllowedTools []string `json:"allowedTools"`
}

// Provision validates the request, then asks the platform to create an MCP
// server scoped to the manifest. Validation failures return before any
// network call. Exactly one remote call is made; there is no retry.
func Provision(ctx context.Context, creator ServerCreator, req Request) (*Result, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return nil, clierrors.CredentialMissing()
	}

	name := strings.TrimSpace(req.ServerName)
	if name == "" {
		return nil, clierrors.FieldRequired("server name")
	}

	if err := req.Manifest.Validate(); err != nil {
		return nil, clierrors.InvalidManifest(err)
	}

	server, err := creator.CreateServer(ctx, name, req.Manifest.Toolkits, req.Manifest.AllowedTools)
	if err != nil {
		return nil, classifyCreateError(name, err)
	}

	return &Result{
		ServerID:     server.ID,
		ServerName:   server.Name,
		Toolkits:     req.Manifest.Toolkits,
		AllowedTools: req.Manifest.AllowedTools,
	}, nil
}

// classifyCreateError maps a platform failure to the error taxonomy.
// Structured status codes are preferred; message text is a compatibility
// fallback for errors that arrive without one.
func classifyCreateError(name string, err error) error {
	var apiErr *composio.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return clierrors.CredentialRejected(err)
		case http.StatusConflict:
			return clierrors.ServerNameConflict(name, err)
		}
	}

	msg := err.Error()
	if clierrors.ContainsAny(msg, clierrors.ConflictMarkers...) {
		return clierrors.ServerNameConflict(name, err)
	}
	if clierrors.ContainsAny(msg, clierrors.AuthMarkers...) {
		return clierrors.CredentialRejected(err)
	}

	return clierrors.ProvisioningFailed(err)
}
