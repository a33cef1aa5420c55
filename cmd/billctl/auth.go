package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/billing-agent/billctl/internal/auth"
	"github.com/billing-agent/billctl/internal/composio"
	"github.com/billing-agent/billctl/internal/config"
	clierrors "github.com/billing-agent/billctl/internal/errors"
	"github.com/billing-agent/billctl/internal/output"
	"github.com/billing-agent/billctl/internal/prompt"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication",
		Long:  `Authenticate with the Composio platform using your API key.`,
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var apiKeyFlag string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with your API key",
		Long: `Authenticate with the Composio platform.

Your API key will be stored securely in your system's keyring
(macOS Keychain, Windows Credential Manager, or Linux Secret Service).

You can also set the COMPOSIO_API_KEY environment variable.`,
		Example: `  billctl auth login
  billctl auth login --api-key <key>`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			prompter := prompt.New(out)

			// Check if already authenticated via env var
			if key := os.Getenv(auth.EnvVarName); key != "" {
				out.Info("%s environment variable is set", auth.EnvVarName)
				out.Muted("Environment variable takes precedence over stored credentials")
				out.Println()
			}

			var apiKey string
			if apiKeyFlag != "" {
				apiKey = apiKeyFlag
			} else {
				// Interactive flow: prompt for API key
				if !prompter.CanPrompt() {
					return clierrors.CannotPrompt(auth.EnvVarName)
				}

				var err error

				apiKey, err = prompter.Password("Enter your Composio API key")
				if err != nil {
					return fmt.Errorf("read api key prompt: %w", err)
				}
			}

			if apiKey == "" {
				return clierrors.APIKeyEmpty()
			}

			// Validate with spinner
			spin := out.Spinner("Validating API key")
			spin.Start()

			cfg := config.Load()
			client := composio.New(cfg.BaseURL(), apiKey)

			if err := client.ValidateKey(cmd.Context()); err != nil {
				spin.StopWithFailure("Invalid API key")
				return clierrors.CredentialRejected(err)
			}

			spin.Stop()

			// Store in keyring
			if err := auth.StoreAPIKey(apiKey); err != nil {
				return clierrors.ConfigFailed("store credentials", err)
			}

			out.Success("API key validated and stored")

			return nil
		},
	}

	cmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "API key for non-interactive login (prefer "+auth.EnvVarName+" env var to avoid shell history exposure)")

	return cmd
}

// AuthStatus represents authentication status for JSON output.
type AuthStatus struct {
	Source string `json:"source"`
	Valid  bool   `json:"valid"`
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Long:  `Show where the Composio API key was found and verify it against the platform.`,
		Example: `  billctl auth status
  billctl auth status --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			source, _, client, err := newPlatformClient()
			if err != nil {
				return err
			}

			// Validate with spinner
			spin := out.Spinner("Checking credentials")
			spin.Start()

			if err := client.ValidateKey(cmd.Context()); err != nil {
				spin.StopWithFailure("Credentials invalid")
				return clierrors.CredentialRejected(err)
			}

			spin.StopWithSuccess("Authenticated")

			if out.JSON {
				if err := out.PrintJSON(AuthStatus{
					Source: string(source),
					Valid:  true,
				}); err != nil {
					return fmt.Errorf("print auth status json: %w", err)
				}

				return nil
			}

			out.Print("Source: %s\n", source)

			return nil
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "logout",
		Short:   "Clear stored credentials",
		Long:    `Remove the Composio API key from the system keyring and credentials file.`,
		Example: `  billctl auth logout`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			if err := auth.DeleteAPIKey(); err != nil {
				// If key doesn't exist, that's fine
				if strings.Contains(err.Error(), "not found") {
					out.Muted("No stored credentials found")
					return nil
				}

				return clierrors.ConfigFailed("clear credentials", err)
			}

			out.Success("Logged out successfully")

			if os.Getenv(auth.EnvVarName) != "" {
				out.Println()
				out.Warning("%s environment variable is still set", auth.EnvVarName)
			}

			return nil
		},
	}
}
