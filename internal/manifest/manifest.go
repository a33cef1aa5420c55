// Package manifest defines the fixed capability manifest for the billing
// automation MCP server: which Composio toolkits are enabled and which
// fully-qualified tools the server may expose.
package manifest

import (
	"fmt"
	"strings"
)

// Manifest pairs an ordered set of toolkit slugs with the set of
// fully-qualified tool names the server is allowed to expose. It is an
// immutable value constructed once and passed explicitly; callers must
// not mutate the returned slices.
type Manifest struct {
	Toolkits     []string
	AllowedTools []string
}

// Default returns the capability manifest for the billing agent: mail
// (Gmail, Outlook), spreadsheets, file storage, and accounting.
func Default() Manifest {
	return Manifest{
		Toolkits: []string{
			"gmail",
			"googlesheets",
			"googledrive",
			"outlook",
			"quickbooks",
		},
		AllowedTools: []string{
			"GMAIL_SEND_EMAIL",
			"GMAIL_FETCH_EMAILS",
			"GMAIL_CREATE_EMAIL_DRAFT",
			"GOOGLESHEETS_BATCH_UPDATE",
			"GOOGLESHEETS_BATCH_GET",
			"GOOGLEDRIVE_UPLOAD_FILE",
			"GOOGLEDRIVE_FIND_FILE",
			"OUTLOOK_OUTLOOK_SEND_EMAIL",
			"OUTLOOK_OUTLOOK_LIST_MESSAGES",
			"QUICKBOOKS_CREATE_INVOICE",
			"QUICKBOOKS_GET_INVOICE",
		},
	}
}

// Validate checks that every allowed tool belongs to one of the declared
// toolkits. Tool names are fully qualified as TOOLKIT_TOOL, so membership
// is a prefix match on the upper-cased toolkit slug.
func (m Manifest) Validate() error {
	if len(m.Toolkits) == 0 {
		return fmt.Errorf("manifest declares no toolkits")
	}

	for _, tool := range m.AllowedTools {
		if !m.toolBelongsToToolkit(tool) {
			return fmt.Errorf("tool %q does not belong to any declared toolkit", tool)
		}
	}

	return nil
}

func (m Manifest) toolBelongsToToolkit(tool string) bool {
	for _, toolkit := range m.Toolkits {
		if strings.HasPrefix(tool, strings.ToUpper(toolkit)+"_") {
			return true
		}
	}

	return false
}
