package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestVersion_Human_ShowsVersionInfo(t *testing.T) {
	testEnv(t, "")
	cleanup := setMockTTY(false)
	defer cleanup()

	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version command should not error: %v", err)
	}

	for _, want := range []string{"mealie-mcp dev", "commit:", "built:", "go:", "os:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got: %s", want, out)
		}
	}
	if strings.Contains(out, "MEALIE MCP") {
		t.Error("banner should only show on a terminal")
	}
}

func TestVersion_JSON_ReturnsValidJSON(t *testing.T) {
	testEnv(t, "")

	out, _, err := execute(t, "version", "--json")
	if err != nil {
		t.Fatalf("version --json should not error: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output should be valid JSON: %v", err)
	}

	for _, field := range []string{"version", "commit", "date", "go", "os", "arch"} {
		if _, ok := result[field]; !ok {
			t.Errorf("JSON should have '%s' field", field)
		}
	}
	if result["version"] != "dev" {
		t.Errorf("dev build JSON should have version='dev', got: %v", result["version"])
	}
}
