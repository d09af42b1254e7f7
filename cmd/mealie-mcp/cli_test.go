package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/hyperengineering/mealie-mcp/internal/mealietest"
	"github.com/spf13/cobra"
)

// testEnv points the CLI at upstream (empty for none) and resets global flags.
func testEnv(t *testing.T, upstream string) {
	t.Helper()

	t.Setenv("MEALIE_URL", upstream)
	t.Setenv("MEALIE_API_TOKEN", mealietest.DefaultToken)
	for _, key := range []string{"MEALIE_TIMEOUT", "MEALIE_MCP_DEBUG", "MEALIE_MCP_LOG_LEVEL", "MEALIE_MCP_LOG_FORMAT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	reset := func() {
		cfgURL = ""
		cfgToken = ""
		cfgTimeout = 0
		cfgDebug = false
		outputJSON = false
		serveTransport = "stdio"
		serveAddr = ":8080"
	}
	reset()
	t.Cleanup(reset)
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetHelpFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// resetHelpFlags clears a --help left set on any command by an earlier run.
func resetHelpFlags(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
	for _, sub := range cmd.Commands() {
		resetHelpFlags(sub)
	}
}

// ============================================================================
// Help
// ============================================================================

func TestCLI_Help_ListsAllCommands(t *testing.T) {
	testEnv(t, "")

	out, _, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, cmd := range []string{"serve", "ping", "tools", "version"} {
		if !strings.Contains(out, cmd) {
			t.Errorf("--help output should contain %q command", cmd)
		}
	}
}

func TestCLI_StyledHelp_ListsEnvironment(t *testing.T) {
	testEnv(t, "")
	defer setMockTTY(false)()
	initHelp(rootCmd)

	out, _, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Environment:", "MEALIE_API_TOKEN", "MEALIE_MCP_LOG_FORMAT"} {
		if !strings.Contains(out, want) {
			t.Errorf("--help should contain %q", want)
		}
	}

	out, _, _ = execute(t, "ping", "--help")
	if strings.Contains(out, "Environment:") {
		t.Error("environment section belongs to the root command only")
	}
}

func TestCLI_ServeHelp_ShowsClientConfig(t *testing.T) {
	testEnv(t, "")

	out, _, err := execute(t, "serve", "--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"mcpServers", "MEALIE_URL", "--transport"} {
		if !strings.Contains(out, want) {
			t.Errorf("serve --help should contain %q", want)
		}
	}
}

// ============================================================================
// Configuration
// ============================================================================

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	testEnv(t, "https://env.example.com")
	cfgURL = "https://flag.example.com/"
	cfgToken = "flag-token"

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.BaseURL != "https://flag.example.com" {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, "https://flag.example.com")
	}
	if cfg.APIToken != "flag-token" {
		t.Errorf("APIToken = %q, want %q", cfg.APIToken, "flag-token")
	}
}

func TestLoadConfig_MissingURL(t *testing.T) {
	testEnv(t, "")

	if _, err := loadConfig(); err == nil {
		t.Fatal("expected error without MEALIE_URL")
	}
}

func TestServe_UnknownTransport(t *testing.T) {
	testEnv(t, "https://mealie.example.com")

	_, _, err := execute(t, "serve", "--transport", "carrier-pigeon")
	if err == nil || !strings.Contains(err.Error(), "unknown transport") {
		t.Errorf("err = %v, want unknown transport", err)
	}
}

// ============================================================================
// Ping
// ============================================================================

func TestPing_Connected(t *testing.T) {
	upstream := mealietest.New(t)
	testEnv(t, upstream.URL)

	out, _, err := execute(t, "ping")
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	if !strings.Contains(out, "Connected to "+upstream.URL) {
		t.Errorf("output = %q, want connection message", out)
	}
	if !strings.Contains(out, "v2.8.0") {
		t.Errorf("output = %q, want Mealie version", out)
	}
}

func TestPing_JSON(t *testing.T) {
	upstream := mealietest.New(t)
	testEnv(t, upstream.URL)

	out, _, err := execute(t, "ping", "--json")
	if err != nil {
		t.Fatalf("ping --json: %v", err)
	}

	var result pingResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output should be valid JSON: %v", err)
	}
	if !result.OK {
		t.Error("ok = false, want true")
	}
	if result.Version != "v2.8.0" {
		t.Errorf("version = %q, want %q", result.Version, "v2.8.0")
	}
}

func TestPing_AfterHelpRunsCommand(t *testing.T) {
	upstream := mealietest.New(t)
	testEnv(t, upstream.URL)

	if _, _, err := execute(t, "ping", "--help"); err != nil {
		t.Fatalf("ping --help: %v", err)
	}
	out, _, err := execute(t, "ping", "--json")
	if err != nil {
		t.Fatalf("ping --json: %v", err)
	}
	var result pingResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("ping after --help printed %q, want JSON: %v", out, err)
	}
	if !result.OK {
		t.Error("ok = false, want true")
	}
}

func TestPing_BadToken(t *testing.T) {
	upstream := mealietest.New(t)
	testEnv(t, upstream.URL)
	cfgToken = "wrong-token"

	out, _, err := execute(t, "ping", "--json")
	if err == nil {
		t.Fatal("expected error for a rejected token")
	}

	var result pingResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output should be valid JSON: %v", err)
	}
	if result.OK {
		t.Error("ok = true, want false")
	}
	if result.Error != "Not authenticated" {
		t.Errorf("error = %q, want %q", result.Error, "Not authenticated")
	}
}

// ============================================================================
// Tools
// ============================================================================

func TestTools_JSON_ListsCatalog(t *testing.T) {
	testEnv(t, "")

	out, _, err := execute(t, "tools", "--json")
	if err != nil {
		t.Fatalf("tools --json: %v", err)
	}

	var tools []struct{ Name string }
	if err := json.Unmarshal([]byte(out), &tools); err != nil {
		t.Fatalf("output should be valid JSON: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"mealie_ping", "mealie_recipes_search", "mealie_mealplans_update", "mealie_shopping_items_add"} {
		if !names[want] {
			t.Errorf("tool %q missing from catalog", want)
		}
	}
}

func TestTools_Human_NoConnectionNeeded(t *testing.T) {
	testEnv(t, "")

	out, _, err := execute(t, "tools")
	if err != nil {
		t.Fatalf("tools: %v", err)
	}
	if !strings.Contains(out, "`mealie_recipes_get`") {
		t.Errorf("output should list mealie_recipes_get, got: %s", out)
	}
}

// ============================================================================
// Output helpers
// ============================================================================

func TestScrubSensitiveData(t *testing.T) {
	testEnv(t, "")
	cfgToken = "s3cret-token"

	got := scrubSensitiveData("request with s3cret-token failed")
	if strings.Contains(got, "s3cret-token") {
		t.Errorf("token leaked: %q", got)
	}
	if !strings.Contains(got, "[REDACTED]") {
		t.Errorf("got %q, want [REDACTED]", got)
	}
}

func TestRedact(t *testing.T) {
	if got := redact("short"); got != "[REDACTED]" {
		t.Errorf("redact(short) = %q, want [REDACTED]", got)
	}
	if got := redact("abcdefghijkl"); !strings.HasPrefix(got, "abcd") || strings.Contains(got, "ijkl") {
		t.Errorf("redact(long) = %q", got)
	}
}

func TestOutputError_NonTTY(t *testing.T) {
	cleanup := setMockTTY(false)
	defer cleanup()

	var buf bytes.Buffer
	outputError(&buf, errString("boom"))
	if buf.String() != "Error: boom\n" {
		t.Errorf("output = %q, want %q", buf.String(), "Error: boom\n")
	}
}

type errString string

func (e errString) Error() string { return string(e) }
