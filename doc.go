// SPDX-License-Identifier: MIT

// Package supagrator applies a single SQL migration file to a hosted
// Postgres project (Supabase and compatible) through whatever execution
// path is available, and falls back to printing manual instructions when
// automated execution is not.
//
// The migration file is split into statements on semicolons, each statement
// is submitted in order through an Executor, and a final read-only probe
// decides how the run is reported.  Splitting is deliberately naive: it does
// not understand quoted strings, dollar-quoted blocks, or semicolons inside
// function bodies.  Keep such constructs out of migration files applied with
// this tool, or apply them by hand.
//
// # Quick start
//
//	cfg, err := supagrator.FromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r := supagrator.NewRunner(cfg, supagrator.NewRESTExecutor(cfg))
//	res, err := r.Apply(context.Background())
//
// Two executors are provided:
//
//   - RESTExecutor submits statements to the project's exec_sql RPC
//     endpoint over HTTPS.  Projects without that function report
//     ErrUnsupported, which the Runner turns into manual guidance rather
//     than a hard failure.
//   - SQLExecutor runs statements over a direct database/sql connection
//     (pgx).  Preferred when SUPABASE_DB_URL is set.
//
// # Outcomes
//
// A run ends in exactly one of four outcomes: Completed (every statement
// applied and the probe passed), PartialFallback (the statement loop stopped
// early but the project is still reachable), ManualFallback (automated
// execution unavailable; copy-paste instructions printed), or Failed
// (unexpected error).  Only Failed and configuration errors map to a
// non-zero exit from the CLI.
//
// There is no migration history table, no checksum validation, and no
// rollback.  Re-running after a partial failure re-attempts every statement,
// so migration SQL should use IF NOT EXISTS style guards.
//
// The companion CLI lives under cmd/supagrator.
package supagrator

// Version is the semantic version of supagrator.
var Version = "v1.0.0"
