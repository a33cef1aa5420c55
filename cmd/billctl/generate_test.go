package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	clierrors "github.com/billing-agent/billctl/internal/errors"
	"github.com/billing-agent/billctl/internal/hostconfig"
	"github.com/billing-agent/billctl/internal/observability"
	"github.com/billing-agent/billctl/internal/urlgen"
)

const stubURL = "https://host/v3/mcp/srv-1?user_id=u@example.com"

func TestGenerate_Success(t *testing.T) {
	var gotUserID string

	stubPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v3/mcp/servers/srv-1/generate" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var body struct {
			UserID string `json:"user_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotUserID = body.UserID

		_, _ = w.Write([]byte(`{"url":"` + stubURL + `"}`))
	}))

	stdout, _, err := execCommand(t, newGenerateCmd(), "u@example.com", "--server-id", "srv-1")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if gotUserID != "u@example.com" {
		t.Errorf("request user_id = %q, want u@example.com", gotUserID)
	}

	for _, want := range []string{
		stubURL,
		".vscode/mcp.json",
		".kiro/settings/mcp.json",
		"claude_desktop_config.json",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestGenerate_PrimaryDocument(t *testing.T) {
	stubPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"url":"` + stubURL + `"}`))
	}))

	stdout, _, err := execCommand(t, newGenerateCmd(), "u@example.com", "-s", "srv-1")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	docs := hostconfig.Render(&urlgen.Endpoint{
		URL:     stubURL,
		Headers: map[string]string{urlgen.APIKeyHeader: "k1"},
	}, "billing-agent")

	want, err := hostconfig.FormatJSON(docs.VSCode)
	if err != nil {
		t.Fatalf("FormatJSON() error = %v", err)
	}

	if !strings.Contains(stdout, want) {
		t.Errorf("stdout missing the rendered primary document:\n%s\n--- want ---\n%s", stdout, want)
	}
}

func TestGenerate_CustomLabel(t *testing.T) {
	stubPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"url":"` + stubURL + `"}`))
	}))

	stdout, _, err := execCommand(t, newGenerateCmd(), "u@example.com", "-s", "srv-1", "--label", "acme-billing")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if !strings.Contains(stdout, `"acme-billing"`) {
		t.Errorf("stdout missing custom label:\n%s", stdout)
	}

	if strings.Contains(stdout, `"billing-agent"`) {
		t.Errorf("stdout still carries the default label:\n%s", stdout)
	}
}

func TestGenerate_MissingServerID(t *testing.T) {
	requests := 0

	stubPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	_, _, err := execCommand(t, newGenerateCmd(), "u@example.com")
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	if !clierrors.IsKind(err, clierrors.KindValidation) {
		t.Errorf("error kind = %v, want KindValidation", err)
	}

	if !strings.Contains(err.Error(), "server id") {
		t.Errorf("error = %q, want to mention server id", err.Error())
	}

	if requests != 0 {
		t.Errorf("platform received %d requests, want 0 before validation passes", requests)
	}
}

func TestGenerate_MissingUserID(t *testing.T) {
	requests := 0

	stubPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	_, _, err := execCommand(t, newGenerateCmd(), "--server-id", "srv-1")
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	if !clierrors.IsKind(err, clierrors.KindValidation) {
		t.Errorf("error kind = %v, want KindValidation", err)
	}

	if !strings.Contains(err.Error(), "user id") {
		t.Errorf("error = %q, want to mention user id", err.Error())
	}

	if requests != 0 {
		t.Errorf("platform received %d requests, want 0 before validation passes", requests)
	}
}

func TestGenerate_GenerationFailure(t *testing.T) {
	stubPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"mint failed"}`))
	}))

	_, _, err := execCommand(t, newGenerateCmd(), "u@example.com", "-s", "srv-1")
	if err == nil {
		t.Fatal("expected generation error, got nil")
	}

	if !clierrors.IsKind(err, clierrors.KindGeneration) {
		t.Errorf("error kind = %v, want KindGeneration", err)
	}
}

func TestGenerate_CredentialRejected(t *testing.T) {
	stubPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
	}))

	_, _, err := execCommand(t, newGenerateCmd(), "u@example.com", "-s", "srv-1")
	if err == nil {
		t.Fatal("expected credential error, got nil")
	}

	if !clierrors.IsKind(err, clierrors.KindCredential) {
		t.Errorf("error kind = %v, want KindCredential", err)
	}
}

func TestGenerate_JSONOutput(t *testing.T) {
	stubPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"url":"` + stubURL + `"}`))
	}))

	out, stdout, _ := newTestWriter()
	out.JSON = true

	ctx := out.WithContext(context.Background())
	ctx = observability.WithLogger(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)))

	cmd := newGenerateCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{"u@example.com", "-s", "srv-1"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	var result GenerateResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("stdout is not valid JSON: %v\n%s", err, stdout.String())
	}

	if result.URL != stubURL {
		t.Errorf("url = %q, want %q", result.URL, stubURL)
	}

	if result.Headers[urlgen.APIKeyHeader] != "k1" {
		t.Errorf("headers = %v, want x-api-key k1", result.Headers)
	}

	if _, ok := result.Configs.VSCode.MCPServers["billing-agent"]; !ok {
		t.Errorf("configs.vscode missing billing-agent entry: %+v", result.Configs.VSCode)
	}
}
