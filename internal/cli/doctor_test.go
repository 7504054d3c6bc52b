package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/cocsheet/internal/config"
	"github.com/example/cocsheet/internal/db"
)

func statusOf(results []CheckResult, name string) string {
	for _, r := range results {
		if r.Name == name {
			return r.Status
		}
	}
	return ""
}

func writeConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.User = "keeper"
	cfg.DB.Driver = db.DriverModernc
	cfg.DB.Path = filepath.Join(dir, "sheets.db")
	if err := config.Save(dir, cfg); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}
	return cfg
}

func TestRunChecks_MissingDatabase(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir)

	results := runChecks(dir)
	if got := statusOf(results, "Config"); got != "✓" {
		t.Errorf("Config = %q, want ✓", got)
	}
	if got := statusOf(results, "Database"); got != "✗" {
		t.Errorf("Database = %q, want ✗", got)
	}
	if statusOf(results, "Schema") != "" {
		t.Error("schema should not be checked without a database")
	}
}

func TestRunChecks_Healthy(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	database, err := db.Open(cfg.DB.Driver, cfg.DB.Path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	database.Close()

	results := runChecks(dir)
	for _, name := range []string{"Config", "Database", "Schema", "Integrity", "Skill catalog"} {
		if got := statusOf(results, name); got != "✓" {
			t.Errorf("%s = %q, want ✓", name, got)
		}
	}

	var buf bytes.Buffer
	printChecks(&buf, results, false)
	if !strings.Contains(buf.String(), "All checks passed.") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestRunChecks_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := config.Path(dir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[db]\ndriver = \"postgres\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	results := runChecks(dir)
	if got := statusOf(results, "Config"); got != "✗" {
		t.Fatalf("Config = %q, want ✗", got)
	}

	var buf bytes.Buffer
	printChecks(&buf, results, true)
	out := buf.String()
	if !strings.Contains(out, "db.driver") || !strings.Contains(out, "Issues found") {
		t.Errorf("expected driver details in output, got %q", out)
	}
}
