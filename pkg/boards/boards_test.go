package boards

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write boards file: %v", err)
	}
	return path
}

func TestLoadRegistryYAML(t *testing.T) {
	path := writeFile(t, "boards.yaml", `
boards:
  - id: production
    name: Course Board
    host: https://ios-course-message-board.herokuapp.com/
    request_delay_ms: 250
    config:
      user_agent: board-watcher/1.0
  - id: staging
    host: http://localhost:8080
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	all := reg.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(all))
	}

	prod, ok := reg.ByID("production")
	if !ok {
		t.Fatalf("expected production board")
	}
	if prod.Host != "https://ios-course-message-board.herokuapp.com" {
		t.Fatalf("trailing slash not trimmed: %q", prod.Host)
	}
	if prod.RequestDelay() != 250*time.Millisecond {
		t.Fatalf("unexpected delay %v", prod.RequestDelay())
	}
	if got := Headers(prod)["User-Agent"]; got != "board-watcher/1.0" {
		t.Fatalf("unexpected user agent %q", got)
	}

	staging, _ := reg.ByID("staging")
	if staging.Name != "staging" {
		t.Fatalf("expected name to default to id, got %q", staging.Name)
	}
	if len(Headers(staging)) != 0 {
		t.Fatalf("expected no headers for staging")
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "boards.json", `{"boards":[{"id":"b1","host":"https://b1.example.com"}]}`)
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if _, ok := reg.ByID("b1"); !ok {
		t.Fatalf("expected b1 board")
	}
}

func TestLoadRegistryDuplicateID(t *testing.T) {
	path := writeFile(t, "boards.yaml", `
boards:
  - id: dup
    host: https://a.example.com
  - id: dup
    host: https://b.example.com
`)
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestNewRegistryValidatesHost(t *testing.T) {
	cases := []Board{
		{ID: "", Host: "https://a.example.com"},
		{ID: "nohost"},
		{ID: "relative", Host: "board.example.com"},
		{ID: "a/b", Host: "https://a.example.com"},
	}
	for _, b := range cases {
		if _, err := NewRegistry(b); err == nil {
			t.Fatalf("expected validation error for %#v", b)
		}
	}
}

func TestLoadRegistryRejectsEmpty(t *testing.T) {
	path := writeFile(t, "boards.yaml", "boards: []\n")
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected error for empty boards file")
	}
	if _, err := LoadRegistry(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
