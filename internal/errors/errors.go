// Package errors provides structured CLI error types for billctl.
//
// CLIError wraps failures with a kind tag, a user-facing message, an
// optional hint, and an optional underlying cause. The kind drives the
// prefix shown at the CLI boundary; every failure exits with code 1.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes. The CLI contract is binary: full success or failure.
const (
	ExitSuccess = 0
	ExitError   = 1
)

// Kind classifies a CLIError.
type Kind int

// Error kinds, one per failure class surfaced to the user.
const (
	KindGeneral Kind = iota
	KindCredential
	KindValidation
	KindConflict
	KindProvisioning
	KindGeneration
)

// Prefix returns the user-facing prefix for the kind.
func (k Kind) Prefix() string {
	switch k {
	case KindCredential:
		return "Credential error"
	case KindValidation:
		return "Validation error"
	case KindConflict:
		return "Conflict"
	case KindProvisioning:
		return "Provisioning error"
	case KindGeneration:
		return "Generation error"
	default:
		return "Error"
	}
}

// CLIError represents a user-facing CLI error with actionable guidance.
type CLIError struct {
	// Kind classifies the failure for prefixing and tests.
	Kind Kind

	// Message is the primary error message shown to the user.
	Message string

	// Hint provides actionable guidance on how to fix the error.
	Hint string

	// Cause is the underlying error, if any.
	Cause error

	// Code is the process exit code.
	Code int
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// WithHint adds a hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// As is a convenience function for errors.As with CLIError.
func As(err error, target **CLIError) bool {
	return errors.As(err, target)
}

// IsKind reports whether err is a CLIError of the given kind.
func IsKind(err error, kind Kind) bool {
	var cliErr *CLIError
	return errors.As(err, &cliErr) && cliErr.Kind == kind
}

// --- Common error constructors ---

// CredentialMissing returns an error indicating no API key was found.
func CredentialMissing() *CLIError {
	return &CLIError{
		Kind:    KindCredential,
		Message: "Composio API key is not set",
		Hint:    "Set COMPOSIO_API_KEY or run 'billctl auth login'",
		Code:    ExitError,
	}
}

// CredentialRejected returns an error for a platform authorization failure.
func CredentialRejected(cause error) *CLIError {
	return &CLIError{
		Kind:    KindCredential,
		Message: "Composio rejected the API key",
		Hint:    "Check COMPOSIO_API_KEY or run 'billctl auth login' with a valid key",
		Cause:   cause,
		Code:    ExitError,
	}
}

// FieldRequired returns a validation error naming the missing field.
func FieldRequired(field string) *CLIError {
	return &CLIError{
		Kind:    KindValidation,
		Message: fmt.Sprintf("%s is required", field),
		Code:    ExitError,
	}
}

// ServerNameConflict returns an error for a server name already in use
// with a different configuration.
func ServerNameConflict(name string, cause error) *CLIError {
	return &CLIError{
		Kind:    KindConflict,
		Message: fmt.Sprintf("An MCP server named %q already exists with a different configuration", name),
		Hint:    "Pick another name with --name, or delete the existing server in the Composio dashboard",
		Cause:   cause,
		Code:    ExitError,
	}
}

// ProvisioningFailed wraps a platform failure during server creation.
func ProvisioningFailed(cause error) *CLIError {
	return &CLIError{
		Kind:    KindProvisioning,
		Message: "Failed to create MCP server",
		Cause:   cause,
		Code:    ExitError,
	}
}

// GenerationFailed wraps a platform failure during URL generation.
func GenerationFailed(cause error) *CLIError {
	return &CLIError{
		Kind:    KindGeneration,
		Message: "Failed to generate server URL",
		Cause:   cause,
		Code:    ExitError,
	}
}

// InvalidManifest returns an error for a manifest whose allowed tools do
// not all belong to a declared toolkit.
func InvalidManifest(cause error) *CLIError {
	return &CLIError{
		Kind:    KindValidation,
		Message: "Capability manifest is invalid",
		Cause:   cause,
		Code:    ExitError,
	}
}

// CannotPrompt returns an error when interactive prompts are unavailable.
func CannotPrompt(envVar string) *CLIError {
	return &CLIError{
		Kind:    KindGeneral,
		Message: "Cannot prompt in non-interactive mode",
		Hint:    fmt.Sprintf("Set %s environment variable instead", envVar),
		Code:    ExitError,
	}
}

// APIKeyEmpty returns an error when an entered API key is empty.
func APIKeyEmpty() *CLIError {
	return &CLIError{
		Kind:    KindCredential,
		Message: "API key cannot be empty",
		Hint:    "Enter a valid API key or set COMPOSIO_API_KEY environment variable",
		Code:    ExitError,
	}
}

// ConfigFailed returns an error for configuration save failures.
func ConfigFailed(operation string, cause error) *CLIError {
	return &CLIError{
		Kind:    KindGeneral,
		Message: fmt.Sprintf("Failed to %s", operation),
		Hint:    "Check file permissions for your billctl config directory",
		Cause:   cause,
		Code:    ExitError,
	}
}

// AuthMarkers are the textual fragments that identify a platform
// authorization failure when no structured status is available.
var AuthMarkers = []string{"invalid", "unauthorized", "401"}

// ConflictMarkers identify a server name collision in platform error text.
var ConflictMarkers = []string{"already exists"}

// ContainsAny reports whether s contains any of the substrings,
// case-insensitively.
func ContainsAny(s string, substrings ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrings {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}

	return false
}
