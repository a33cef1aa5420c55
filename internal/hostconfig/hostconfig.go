// Package hostconfig renders ready-to-paste MCP client configuration
// documents for the IDE/agent hosts that will consume a generated
// endpoint. Rendering is pure: the same endpoint and label always produce
// byte-identical documents.
package hostconfig

import (
	"encoding/json"
	"fmt"

	"github.com/billing-agent/billctl/internal/urlgen"
)

// KeyPlaceholder is substituted for a missing or empty API key header so
// the emitted JSON is always valid and self-documenting.
const KeyPlaceholder = "YOUR_COMPOSIO_API_KEY"

// Target identifies a host whose config format we emit.
type Target string

// Supported config targets.
const (
	TargetVSCode        Target = "vscode"
	TargetKiro          Target = "kiro"
	TargetClaudeDesktop Target = "claudedesktop"
)

// fallbackConfigPath is returned for unrecognized targets.
const fallbackConfigPath = "mcp-config.json"

// HTTPServer describes an HTTP MCP server connection.
type HTTPServer struct {
	Type    string            `json:"type"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
}

// Document is the config file shape shared by VS Code and Kiro: a single
// label mapped to an HTTP server descriptor.
type Document struct {
	MCPServers map[string]HTTPServer `json:"mcpServers"`
}

// ExtendedServer is the Claude Desktop descriptor. It permits the
// command/args fields used by local-process transports; both stay empty
// on the URL path emitted here.
type ExtendedServer struct {
	Type    string            `json:"type"`
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
}

// ExtendedDocument is the Claude Desktop config file shape.
type ExtendedDocument struct {
	MCPServers map[string]ExtendedServer `json:"mcpServers"`
}

// Documents holds one rendered config per target.
type Documents struct {
	VSCode        Document
	Kiro          Document
	ClaudeDesktop ExtendedDocument
}

// Render builds the three client config documents for the endpoint, keyed
// by label. The label is used verbatim; callers pick a key their host
// accepts. Pure and deterministic, no I/O.
func Render(endpoint *urlgen.Endpoint, label string) Documents {
	// Each document gets its own header map so callers can edit one
	// rendered config without touching the others.
	return Documents{
		VSCode: Document{
			MCPServers: map[string]HTTPServer{label: {
				Type:    "http",
				URL:     endpoint.URL,
				Headers: normalizeHeaders(endpoint.Headers),
			}},
		},
		Kiro: Document{
			MCPServers: map[string]HTTPServer{label: {
				Type:    "http",
				URL:     endpoint.URL,
				Headers: normalizeHeaders(endpoint.Headers),
			}},
		},
		ClaudeDesktop: ExtendedDocument{
			MCPServers: map[string]ExtendedServer{label: {
				Type:    "http",
				URL:     endpoint.URL,
				Headers: normalizeHeaders(endpoint.Headers),
			}},
		},
	}
}

// normalizeHeaders copies the endpoint headers, substituting the
// placeholder when the API key header is absent or empty.
func normalizeHeaders(headers map[string]string) map[string]string {
	normalized := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		normalized[k] = v
	}

	if normalized[urlgen.APIKeyHeader] == "" {
		normalized[urlgen.APIKeyHeader] = KeyPlaceholder
	}

	return normalized
}

// FormatJSON pretty-prints a document with 2-space indentation.
func FormatJSON(doc any) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal config document: %w", err)
	}

	return string(data), nil
}

// PathFor returns the advisory config file location for a target. The
// tool never writes these files; the path tells the user where to paste.
// Unrecognized targets get a generic fallback filename.
func PathFor(target Target) string {
	switch target {
	case TargetVSCode:
		return ".vscode/mcp.json"
	case TargetKiro:
		return ".kiro/settings/mcp.json"
	case TargetClaudeDesktop:
		return "~/Library/Application Support/Claude/claude_desktop_config.json"
	default:
		return fallbackConfigPath
	}
}
