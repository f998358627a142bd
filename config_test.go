package supagrator

import (
	"errors"
	"strings"
	"testing"
)

// TestFromEnv_MissingBoth verifies that a run without credentials aborts
// with a diagnostic naming every missing variable.
func TestFromEnv_MissingBoth(t *testing.T) {
	t.Setenv(EnvProjectURL, "")
	t.Setenv(EnvServiceKey, "")

	_, err := FromEnv()
	if !errors.Is(err, ErrMissingConfig) {
		t.Fatalf("Expected ErrMissingConfig, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, EnvProjectURL) || !strings.Contains(msg, EnvServiceKey) {
		t.Errorf("Expected error to name both variables, got %q", msg)
	}
}

// TestFromEnv_MissingOne verifies that only the absent variable is named.
func TestFromEnv_MissingOne(t *testing.T) {
	t.Setenv(EnvProjectURL, "https://abcdefgh.supabase.co")
	t.Setenv(EnvServiceKey, "")

	_, err := FromEnv()
	if !errors.Is(err, ErrMissingConfig) {
		t.Fatalf("Expected ErrMissingConfig, got %v", err)
	}
	if strings.Contains(err.Error(), EnvProjectURL) {
		t.Errorf("Did not expect %s in %q", EnvProjectURL, err.Error())
	}
}

// TestFromEnv_Complete verifies defaults merge in and trailing slashes on
// the project URL are trimmed.
func TestFromEnv_Complete(t *testing.T) {
	t.Setenv(EnvProjectURL, "https://abcdefgh.supabase.co/")
	t.Setenv(EnvServiceKey, "service-role-key")
	t.Setenv(EnvDatabaseURL, "")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.ProjectURL != "https://abcdefgh.supabase.co" {
		t.Errorf("Expected trimmed project URL, got %q", cfg.ProjectURL)
	}
	if cfg.MigrationFile != DefaultConfig.MigrationFile {
		t.Errorf("Expected default migration file, got %q", cfg.MigrationFile)
	}
	if cfg.ProbeTable != DefaultConfig.ProbeTable {
		t.Errorf("Expected default probe table, got %q", cfg.ProbeTable)
	}
}

// TestDashboardURL covers hosted and self-hosted project URLs.
func TestDashboardURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"hosted", "https://abcdefgh.supabase.co", "https://supabase.com/dashboard/project/abcdefgh/sql/new"},
		{"self-hosted", "https://db.example.com", "https://db.example.com"},
		{"not a url", "localhost", "localhost"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{ProjectURL: tc.url}
			if got := cfg.DashboardURL(); got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}
