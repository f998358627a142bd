package supagrator

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// ErrMissingConfig is returned when required configuration values are absent.
// The wrapping error names every missing value.
var ErrMissingConfig = errors.New("missing required configuration")

// Environment variables read by FromEnv.
const (
	EnvProjectURL  = "SUPABASE_URL"
	EnvServiceKey  = "SUPABASE_SERVICE_ROLE_KEY"
	EnvDatabaseURL = "SUPABASE_DB_URL"
)

// Config holds settings for a migration run.
type Config struct {
	// ProjectURL is the project's base URL, e.g. "https://abcdefgh.supabase.co".
	ProjectURL string

	// ServiceKey is the service-role key used to authenticate REST calls.
	ServiceKey string

	// DatabaseURL is an optional direct Postgres connection URL. When set,
	// the CLI prefers the SQLExecutor over the REST path.
	DatabaseURL string

	// MigrationFile is the path of the SQL file to apply.
	MigrationFile string

	// ProbeTable is the table queried (with a zero-row limit) by the final
	// capability probe. The query never returns data; it only has to be
	// answerable.
	ProbeTable string

	// ExpectedObjects is descriptive text for the objects the migration is
	// expected to create. It is printed on a Completed outcome and is never
	// introspected from the database.
	ExpectedObjects []string
}

// DefaultConfig provides default values for configuration.
var DefaultConfig = Config{
	MigrationFile: "migrations/schema.sql",
	ProbeTable:    "profiles",
}

// FromEnv builds a Config from the environment. Both EnvProjectURL and
// EnvServiceKey are required; the returned error wraps ErrMissingConfig and
// names every value that is absent, so a caller missing both is told about
// both at once.
func FromEnv() (Config, error) {
	cfg := DefaultConfig
	cfg.ProjectURL = strings.TrimRight(os.Getenv(EnvProjectURL), "/")
	cfg.ServiceKey = os.Getenv(EnvServiceKey)
	cfg.DatabaseURL = os.Getenv(EnvDatabaseURL)

	var missing []string
	if cfg.ProjectURL == "" {
		missing = append(missing, EnvProjectURL)
	}
	if cfg.ServiceKey == "" {
		missing = append(missing, EnvServiceKey)
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return cfg, nil
}

// DashboardURL returns the SQL editor URL for the configured project.
// For a "<ref>.supabase.co" host it points at the hosted dashboard;
// otherwise it falls back to the project URL itself.
func (c Config) DashboardURL() string {
	u, err := url.Parse(c.ProjectURL)
	if err != nil || u.Host == "" {
		return c.ProjectURL
	}
	host := u.Hostname()
	if ref, ok := strings.CutSuffix(host, ".supabase.co"); ok && ref != "" && !strings.Contains(ref, ".") {
		return fmt.Sprintf("https://supabase.com/dashboard/project/%s/sql/new", ref)
	}
	return c.ProjectURL
}
