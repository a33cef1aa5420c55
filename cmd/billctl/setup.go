package main

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/billing-agent/billctl/internal/config"
	"github.com/billing-agent/billctl/internal/manifest"
	"github.com/billing-agent/billctl/internal/observability"
	"github.com/billing-agent/billctl/internal/output"
	"github.com/billing-agent/billctl/internal/provision"
)

func newSetupCmd() *cobra.Command {
	var nameFlag string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Provision the billing MCP server",
		Long: `Create a Composio-hosted MCP server scoped to the billing toolkits.

The server is restricted to the fixed capability manifest: Gmail, Google
Sheets, Google Drive, Outlook, and QuickBooks, with only the tools the
billing agent needs. Run this once per workspace; re-running with the
same name fails if the platform reports a name conflict.

Requires a Composio API key (billctl auth login or COMPOSIO_API_KEY).`,
		Example: `  billctl setup
  billctl setup --name acme-billing
  billctl setup --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			logger := observability.FromContext(cmd.Context())

			_, apiKey, client, err := newPlatformClient()
			if err != nil {
				return err
			}

			cfg := config.Load()

			name := strings.TrimSpace(nameFlag)
			if name == "" {
				name = cfg.ServerName()
			}

			// Skip spinner in JSON mode to avoid corrupting stdout
			var spin *output.Spinner
			if !out.JSON {
				spin = out.Spinner("Creating MCP server " + name)
				spin.Start()
			}

			result, err := provision.Provision(cmd.Context(), client, provision.Request{
				APIKey:     apiKey,
				ServerName: name,
				Manifest:   manifest.Default(),
			})
			if err != nil {
				if spin != nil {
					spin.StopWithFailure("Provisioning failed")
				}

				return err
			}

			if spin != nil {
				spin.StopWithSuccess("Created MCP server " + result.ServerName)
			}

			logger.Info("mcp server provisioned",
				slog.String("server_id", result.ServerID),
				slog.String("server_name", result.ServerName),
				slog.Int("toolkits", len(result.Toolkits)),
				slog.Int("allowed_tools", len(result.AllowedTools)))

			if out.JSON {
				return out.PrintJSON(result)
			}

			out.Print("Server ID:   %s\n", result.ServerID)
			out.Print("Server name: %s\n", result.ServerName)
			out.Print("Toolkits:    %s\n", strings.Join(result.Toolkits, ", "))
			out.Println()
			out.Println("Allowed tools:")

			for _, tool := range result.AllowedTools {
				out.Print("  %s\n", tool)
			}

			out.Println()
			out.Info("Next: billctl generate <userId> --server-id %s", result.ServerID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Server name (default "+config.DefaultServerName+")")

	return cmd
}
