package supagrator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrResourceNotFound is returned when the migration file does not exist or
// cannot be read.
var ErrResourceNotFound = errors.New("migration file not found or unreadable")

// escapedNewline is the literal two-character marker some export pipelines
// leave behind in place of a real newline. Fragments consisting of only this
// marker are discarded.
const escapedNewline = `\n`

// SplitStatements splits SQL text into individual statements.
//
// Splitting is on semicolons only. Each fragment is trimmed of whitespace;
// fragments that are empty, start with a "--" comment marker, or equal the
// literal escaped-newline marker are dropped. Original order is preserved,
// since later statements may depend on earlier ones.
//
// The splitter does not parse SQL: a semicolon inside a quoted string,
// dollar-quoted block, or function body incorrectly splits the statement.
// That is a documented boundary of this tool, not something callers should
// expect to be fixed here.
func SplitStatements(sql string) []string {
	fragments := strings.Split(sql, ";")
	stmts := make([]string, 0, len(fragments))
	for _, frag := range fragments {
		s := strings.TrimSpace(frag)
		if s == "" || s == escapedNewline || strings.HasPrefix(s, "--") {
			continue
		}
		stmts = append(stmts, s)
	}
	return stmts
}

// LoadStatements reads the SQL file at path and returns its statements in
// order. A file with no usable statements yields an empty slice and no
// error; an unreadable file yields an error wrapping ErrResourceNotFound.
func LoadStatements(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrResourceNotFound, path, err)
	}
	return SplitStatements(string(data)), nil
}

// ResolvePath resolves a migration file path. Absolute paths are returned
// as-is. A relative path is first tried against the directory holding the
// running executable, so the tool finds the file it ships next to; if
// nothing exists there it is left relative to the working directory.
func ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	exe, err := os.Executable()
	if err != nil {
		return path
	}
	candidate := filepath.Join(filepath.Dir(exe), path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return path
}
