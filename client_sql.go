package supagrator

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// SQLExecutor executes statements over a direct database/sql connection.
// It is the preferred path when a direct Postgres URL is configured, since
// a real connection can run any statement the role is allowed to, with no
// RPC function required on the project.
type SQLExecutor struct {
	cfg Config
	db  *sql.DB
}

// NewSQLExecutor creates a SQLExecutor on an open connection. The caller
// owns the connection and closes it after the run.
func NewSQLExecutor(cfg Config, db *sql.DB) *SQLExecutor {
	return &SQLExecutor{cfg: cfg, db: db}
}

// ExecSQL runs one statement.
func (e *SQLExecutor) ExecSQL(ctx context.Context, stmt string) error {
	if _, err := e.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("exec statement: %w", err)
	}
	return nil
}

// Probe selects zero rows from the probe table.
func (e *SQLExecutor) Probe(ctx context.Context) error {
	query := fmt.Sprintf("SELECT * FROM %s LIMIT 0", e.quotedProbeTable())
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("probe query: %w", err)
	}
	return rows.Close()
}

// quotedProbeTable quotes the probe table name, keeping any schema
// qualifier as a separately quoted part.
func (e *SQLExecutor) quotedProbeTable() string {
	parts := strings.Split(e.cfg.ProbeTable, ".")
	for i, p := range parts {
		parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}
