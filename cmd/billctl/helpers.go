package main

import (
	"github.com/billing-agent/billctl/internal/auth"
	"github.com/billing-agent/billctl/internal/composio"
	"github.com/billing-agent/billctl/internal/config"
	clierrors "github.com/billing-agent/billctl/internal/errors"
)

// newPlatformClient creates an authenticated Composio client using stored
// credentials and the configured base URL. Returns a CLIError if no
// credential is found.
//
// This consolidates the repeated pattern of:
//
//	source, apiKey := auth.GetCredentials()
//	cfg := config.Load()
//	c := composio.New(cfg.BaseURL(), apiKey)
func newPlatformClient() (auth.CredentialSource, string, *composio.Client, error) {
	source, apiKey := auth.GetCredentials()
	if apiKey == "" {
		return "", "", nil, clierrors.CredentialMissing()
	}

	cfg := config.Load()
	c := composio.New(cfg.BaseURL(), apiKey)

	return source, apiKey, c, nil
}
