package supagrator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// CreateMigration scaffolds an empty migration file in dir, named
// "<unix-timestamp>_<kebab-cased-description>.sql", and returns its path.
// There is no undo pair and no version tracking: this tool applies a single
// file, so a migration is just a timestamped SQL file.
func CreateMigration(dir, description string) (string, error) {
	desc := kebabCase(description)
	if desc == "" {
		return "", fmt.Errorf("migration description is empty after normalization")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create migration directory %s: %w", dir, err)
	}
	name := fmt.Sprintf("%d_%s.sql", time.Now().Unix(), desc)
	path := filepath.Join(dir, name)
	content := []byte("-- Write your migration SQL here.\n-- Use IF NOT EXISTS guards: partial runs are re-applied from the top.\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("create migration file %s: %w", path, err)
	}
	return path, nil
}

// kebabCase converts a string to kebab-case.
func kebabCase(s string) string {
	// Lowercase and trim spaces.
	s = strings.ToLower(strings.TrimSpace(s))
	// Replace any non-alphanumeric sequence with a single hyphen.
	re := regexp.MustCompile("[^a-z0-9]+")
	s = re.ReplaceAllString(s, "-")
	// Trim any hyphens from the beginning or end.
	return strings.Trim(s, "-")
}
