package main

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/billing-agent/billctl/internal/config"
	"github.com/billing-agent/billctl/internal/hostconfig"
	"github.com/billing-agent/billctl/internal/observability"
	"github.com/billing-agent/billctl/internal/output"
	"github.com/billing-agent/billctl/internal/urlgen"
)

// GenerateResult represents a generate invocation for JSON output.
type GenerateResult struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Configs struct {
		VSCode        hostconfig.Document         `json:"vscode"`
		Kiro          hostconfig.Document         `json:"kiro"`
		ClaudeDesktop hostconfig.ExtendedDocument `json:"claudedesktop"`
	} `json:"configs"`
}

func newGenerateCmd() *cobra.Command {
	var (
		serverID string
		label    string
	)

	cmd := &cobra.Command{
		Use:   "generate <userId>",
		Short: "Mint a user connection URL and client configs",
		Long: `Request a user-scoped connection URL for an existing MCP server and
render it into config documents for VS Code, Kiro, and Claude Desktop.

The URL is minted fresh on every invocation and never stored. Each
document is printed beneath the config path where the host expects it;
paste the block into that file. OAuth for the billing toolkits happens
in the host on first tool call.

Requires a Composio API key (billctl auth login or COMPOSIO_API_KEY).`,
		Example: `  billctl generate you@example.com --server-id srv-123
  billctl generate you@example.com -s srv-123 -l acme-billing
  billctl generate you@example.com -s srv-123 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			logger := observability.FromContext(cmd.Context())

			userID := ""
			if len(args) > 0 {
				userID = args[0]
			}

			_, apiKey, client, err := newPlatformClient()
			if err != nil {
				return err
			}

			cfg := config.Load()

			serverLabel := strings.TrimSpace(label)
			if serverLabel == "" {
				serverLabel = cfg.ServerLabel()
			}

			// Skip spinner in JSON mode to avoid corrupting stdout
			var spin *output.Spinner
			if !out.JSON {
				spin = out.Spinner("Generating connection URL")
				spin.Start()
			}

			endpoint, err := urlgen.GenerateEndpoint(cmd.Context(), client, urlgen.Request{
				APIKey:   apiKey,
				ServerID: serverID,
				UserID:   userID,
			})
			if err != nil {
				if spin != nil {
					spin.StopWithFailure("URL generation failed")
				}

				return err
			}

			if spin != nil {
				spin.Stop()
			}

			logger.Info("connection url generated",
				slog.String("server_id", serverID),
				slog.String("user_id", userID))

			docs := hostconfig.Render(endpoint, serverLabel)

			if out.JSON {
				result := GenerateResult{
					URL:     endpoint.URL,
					Headers: endpoint.Headers,
				}
				result.Configs.VSCode = docs.VSCode
				result.Configs.Kiro = docs.Kiro
				result.Configs.ClaudeDesktop = docs.ClaudeDesktop

				return out.PrintJSON(result)
			}

			out.Success("Connection URL for %s", userID)
			out.Print("%s\n", endpoint.URL)

			sections := []struct {
				title  string
				target hostconfig.Target
				doc    any
			}{
				{"VS Code", hostconfig.TargetVSCode, docs.VSCode},
				{"Kiro", hostconfig.TargetKiro, docs.Kiro},
				{"Claude Desktop", hostconfig.TargetClaudeDesktop, docs.ClaudeDesktop},
			}

			for _, section := range sections {
				formatted, err := hostconfig.FormatJSON(section.doc)
				if err != nil {
					return err
				}

				out.Println()
				out.Info("%s (%s)", section.title, hostconfig.PathFor(section.target))
				out.Print("%s\n", formatted)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&serverID, "server-id", "s", "", "MCP server ID from billctl setup")
	cmd.Flags().StringVarP(&label, "label", "l", "", "Key under mcpServers in emitted configs (default "+config.DefaultServerLabel+")")

	return cmd
}
