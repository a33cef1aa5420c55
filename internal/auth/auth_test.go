package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetCredentials_FromEnv(t *testing.T) {
	tests := []struct {
		name       string
		envKey     string
		wantSource CredentialSource
		wantKey    string
	}{
		{
			name:       "from environment variable",
			envKey:     "ck_test_123",
			wantSource: SourceEnv,
			wantKey:    "ck_test_123",
		},
		{
			name:       "whitespace is trimmed",
			envKey:     "  ck_padded  ",
			wantSource: SourceEnv,
			wantKey:    "ck_padded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvVarName, tt.envKey)

			source, key := GetCredentials()

			if source != tt.wantSource {
				t.Errorf("source = %v, want %v", source, tt.wantSource)
			}
			if key != tt.wantKey {
				t.Errorf("key = %q, want %q", key, tt.wantKey)
			}
		})
	}
}

func TestCredentialsFilePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := credentialsFilePath()
	if path == "" {
		t.Skip("Could not determine config directory")
	}

	if !filepath.IsAbs(path) {
		t.Errorf("credentialsFilePath() = %q, want absolute path", path)
	}

	want := filepath.Join(dir, "billctl", "api-key")
	if path != want {
		t.Errorf("credentialsFilePath() = %q, want %q", path, want)
	}
}

func TestWriteAndReadCredentialsFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	testKey := "ck_file_fallback"

	if err := writeCredentialsFile(testKey); err != nil {
		t.Fatalf("writeCredentialsFile() error = %v", err)
	}

	if got := readCredentialsFile(); got != testKey {
		t.Errorf("readCredentialsFile() = %q, want %q", got, testKey)
	}

	info, err := os.Stat(credentialsFilePath())
	if err != nil {
		t.Fatalf("os.Stat() error = %v", err)
	}

	// 0600 = owner read/write only
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("credentials file permissions = %o, want 0600", perm)
	}
}

func TestDeleteCredentialsFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := writeCredentialsFile("ck_delete_me"); err != nil {
		t.Fatalf("writeCredentialsFile() error = %v", err)
	}

	if err := deleteCredentialsFile(); err != nil {
		t.Errorf("deleteCredentialsFile() error = %v", err)
	}

	if _, err := os.Stat(credentialsFilePath()); !os.IsNotExist(err) {
		t.Errorf("credentials file still exists after delete")
	}
}

func TestDeleteCredentialsFile_NotFound(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if err := deleteCredentialsFile(); err == nil {
		t.Errorf("deleteCredentialsFile() should return error for non-existent file")
	}
}
