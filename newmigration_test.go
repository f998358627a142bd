package supagrator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestCreateMigration verifies a scaffolded file lands in the directory
// with a timestamped kebab-case name and template content.
func TestCreateMigration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")
	path, err := CreateMigration(dir, "Add User Profiles!")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	base := filepath.Base(path)
	if !strings.HasSuffix(base, "_add-user-profiles.sql") {
		t.Errorf("Expected kebab-cased name, got %q", base)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read scaffolded file: %v", err)
	}
	if !strings.HasPrefix(string(data), "--") {
		t.Errorf("Expected a comment template, got %q", string(data))
	}
}

// TestCreateMigration_EmptyDescription verifies that a description with no
// usable characters is rejected.
func TestCreateMigration_EmptyDescription(t *testing.T) {
	if _, err := CreateMigration(t.TempDir(), "!!!"); err == nil {
		t.Fatal("Expected an error for an empty description, got nil")
	}
}

// TestKebabCase covers the filename normalization rules.
func TestKebabCase(t *testing.T) {
	cases := map[string]string{
		"Add User Profiles": "add-user-profiles",
		"  spaced  out  ":   "spaced-out",
		"already-kebab":     "already-kebab",
		"Mixed_CASE 123":    "mixed-case-123",
	}
	for in, want := range cases {
		if got := kebabCase(in); got != want {
			t.Errorf("kebabCase(%q): expected %q, got %q", in, want, got)
		}
	}
}
