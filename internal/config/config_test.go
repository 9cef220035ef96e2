package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	settings := Defaults()
	settings.Jira = JiraConfig{
		URL:        "https://jira.example.com",
		Email:      "user@example.com",
		AuthMethod: AuthMethod{Type: AuthAPIToken, Token: "secret"},
	}
	settings.Output.Dir = "/tmp/requirements"
	settings.Output.Buckets.Backlog = "todo"
	settings.Sections = []Section{{Heading: "Acceptance Criteria", Field: "AC"}}

	if err := settings.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	cfgPath, err := ConfigPath()
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	info, err := os.Stat(cfgPath)
	if err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("unexpected permissions: %v", info.Mode().Perm())
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Jira.URL != settings.Jira.URL {
		t.Fatalf("jira url mismatch: got %s want %s", loaded.Jira.URL, settings.Jira.URL)
	}
	if loaded.Jira.AuthMethod.Token != "secret" {
		t.Fatalf("token mismatch: got %s", loaded.Jira.AuthMethod.Token)
	}
	if loaded.Output.Dir != "/tmp/requirements" || loaded.Output.Buckets.Backlog != "todo" {
		t.Fatalf("output mismatch: %#v", loaded.Output)
	}
	if loaded.Output.Buckets.InProgress != "in-progress" {
		t.Fatalf("default bucket lost: %#v", loaded.Output.Buckets)
	}
	if len(loaded.Sections) != 1 || loaded.Sections[0].Field != "AC" {
		t.Fatalf("sections mismatch: %#v", loaded.Sections)
	}
}

func TestLoadMissingConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing config")
	}
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound got %v", err)
	}
}

func TestLoadKeepsDefaultsForPartialFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	dir := filepath.Join(tmpDir, ".jira2md")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("output:\n  dir: out\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Output.Dir != "out" {
		t.Fatalf("dir not read: %s", loaded.Output.Dir)
	}
	if loaded.Output.Buckets != DefaultBuckets() {
		t.Fatalf("buckets should keep defaults: %#v", loaded.Output.Buckets)
	}
	if loaded.Logging.Level != "warn" {
		t.Fatalf("logging level should keep default: %s", loaded.Logging.Level)
	}
}

func TestResolveAppliesEnv(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Chdir(tmpDir)
	t.Setenv("JIRA2MD_OUTPUT_DIR", "/srv/docs")
	t.Setenv("JIRA_URL", "https://jira.example.com/")
	t.Setenv("JIRA_API_TOKEN", "env-token")

	settings, err := Resolve()
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if settings.Output.Dir != "/srv/docs" {
		t.Fatalf("output dir override ignored: %s", settings.Output.Dir)
	}
	if settings.Jira.URL != "https://jira.example.com" {
		t.Fatalf("jira url not trimmed: %s", settings.Jira.URL)
	}
	if settings.Jira.AuthMethod.Token != "env-token" {
		t.Fatalf("token override ignored: %s", settings.Jira.AuthMethod.Token)
	}
}

func TestResolveReadsDotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Chdir(tmpDir)
	unsetEnv(t, "JIRA_EMAIL")

	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("JIRA_EMAIL=dotenv@example.com\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	settings, err := Resolve()
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if settings.Jira.Email != "dotenv@example.com" {
		t.Fatalf(".env value not applied: %q", settings.Jira.Email)
	}
}

func TestValidate(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	bad := Defaults()
	bad.Output.Buckets.Completed = "done/archive"
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for nested bucket name")
	}

	bad = Defaults()
	bad.Logging.Format = "xml"
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for unknown log format")
	}

	bad = Defaults()
	bad.Sections = []Section{{Heading: "Notes"}}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for section without field")
	}
}

func TestValidateJira(t *testing.T) {
	jira := JiraConfig{URL: "https://jira", AuthMethod: AuthMethod{Type: AuthPersonalAccessToken, Token: "pat"}}
	if err := jira.Validate(); err != nil {
		t.Fatalf("personal access token needs no email: %v", err)
	}

	jira.AuthMethod.Type = AuthAPIToken
	if err := jira.Validate(); err == nil {
		t.Fatal("api token auth should require an email")
	}

	jira = JiraConfig{URL: "https://jira", Email: "me", AuthMethod: AuthMethod{Type: "oauth", Token: "x"}}
	if err := jira.Validate(); err == nil {
		t.Fatal("expected error for unknown auth type")
	}
}

func TestMaskToken(t *testing.T) {
	token := "abcdefgh"
	masked := MaskToken(token)
	if masked != "abcd***efgh" {
		t.Fatalf("unexpected mask: %s", masked)
	}

	short := "abc"
	if MaskToken(short) != "***" {
		t.Fatalf("short mask unexpected: %s", MaskToken(short))
	}
}

// unsetEnv clears key for the test and restores it afterwards. godotenv only
// fills variables that are absent, so an empty value is not enough.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, had := os.LookupEnv(key)
	os.Unsetenv(key)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, prev)
			return
		}
		os.Unsetenv(key)
	})
}
