package supagrator

import (
	"context"
	"errors"
	"fmt"
)

// Outcome classifies how a migration run ended.
type Outcome int

const (
	// Completed: every statement was applied and the final probe passed.
	Completed Outcome = iota

	// PartialFallback: the statement loop stopped early, but the final
	// probe passed, so the project is reachable and the remaining
	// statements can be applied by hand.
	PartialFallback

	// ManualFallback: the final probe failed; automated execution is
	// unavailable and the whole migration should be applied by hand.
	ManualFallback

	// Failed: configuration error, unreadable migration file, or an
	// unexpected failure. The only outcome with a non-zero exit.
	Failed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case PartialFallback:
		return "partial-fallback"
	case ManualFallback:
		return "manual-fallback"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result is the report of one migration run. Nothing about it is persisted;
// the Messages are printed and the process exits.
type Result struct {
	// Outcome of the run.
	Outcome Outcome

	// Applied is how many statements executed before the run stopped.
	Applied int

	// Total is how many statements the migration file contained.
	Total int

	// Messages are human-readable report lines, in print order.
	Messages []string
}

// Runner applies one migration file through an Executor.
//
// A run is fully sequential: one ExecSQL call per statement, awaited before
// the next, then exactly one Probe call. Nothing is retried and nothing is
// rolled back; re-running after a partial failure re-attempts statements
// that already applied, so the SQL should carry IF NOT EXISTS guards.
type Runner struct {
	cfg  Config
	exec Executor
}

// NewRunner creates a Runner with the provided configuration and executor.
func NewRunner(cfg Config, exec Executor) *Runner {
	// Merge defaults.
	if cfg.MigrationFile == "" {
		cfg.MigrationFile = DefaultConfig.MigrationFile
	}
	if cfg.ProbeTable == "" {
		cfg.ProbeTable = DefaultConfig.ProbeTable
	}
	return &Runner{cfg: cfg, exec: exec}
}

// Apply loads the configured migration file and applies it. A missing or
// unreadable file is a hard error (wrapping ErrResourceNotFound); everything
// the capability reports is folded into the Result instead.
func (r *Runner) Apply(ctx context.Context) (Result, error) {
	stmts, err := LoadStatements(r.cfg.MigrationFile)
	if err != nil {
		return Result{Outcome: Failed}, err
	}
	return r.ApplyStatements(ctx, stmts), nil
}

// ApplyStatements applies the given statements in order and reports the
// outcome. The loop stops at the first statement the executor rejects; no
// later statement is submitted and nothing already applied is undone. After
// the loop, whether it finished or broke early, a single read-only probe
// decides whether the run is reported as automated or as manual guidance.
func (r *Runner) ApplyStatements(ctx context.Context, stmts []string) Result {
	res := Result{Total: len(stmts)}

	var stopErr error
	for _, stmt := range stmts {
		if err := r.exec.ExecSQL(ctx, stmt); err != nil {
			stopErr = err
			break
		}
		res.Applied++
	}

	probeErr := r.exec.Probe(ctx)

	switch {
	case probeErr != nil:
		res.Outcome = ManualFallback
		res.Messages = append(res.Messages,
			"Automated migration execution is unavailable for this project.")
		if stopErr != nil && errors.Is(stopErr, ErrUnsupported) {
			res.Messages = append(res.Messages,
				"The project does not permit arbitrary SQL over its API.")
		}
		res.Messages = append(res.Messages, r.manualSteps()...)
	case stopErr == nil:
		res.Outcome = Completed
		res.Messages = append(res.Messages,
			fmt.Sprintf("Migration applied: %d of %d statements executed.", res.Applied, res.Total))
		res.Messages = append(res.Messages, r.expectedObjects()...)
	default:
		res.Outcome = PartialFallback
		res.Messages = append(res.Messages,
			fmt.Sprintf("Applied %d of %d statements before stopping: %v", res.Applied, res.Total, stopErr))
		if errors.Is(stopErr, ErrUnsupported) {
			res.Messages = append(res.Messages,
				"The project does not permit arbitrary SQL over its API.")
		}
		res.Messages = append(res.Messages,
			"The project is reachable; apply the remaining statements by hand.")
		res.Messages = append(res.Messages, r.manualSteps()...)
	}
	return res
}

// manualSteps returns the copy-paste instructions. They always name the
// migration file and the dashboard SQL editor.
func (r *Runner) manualSteps() []string {
	return []string{
		"To apply the migration manually:",
		fmt.Sprintf("  1. Open the SQL editor: %s", r.cfg.DashboardURL()),
		fmt.Sprintf("  2. Paste the contents of %s", r.cfg.MigrationFile),
		"  3. Run the statements in order.",
	}
}

// expectedObjects returns the fixed descriptive listing printed on a
// Completed outcome. The database is never introspected for this.
func (r *Runner) expectedObjects() []string {
	if len(r.cfg.ExpectedObjects) == 0 {
		return []string{fmt.Sprintf("The objects described in %s should now exist.", r.cfg.MigrationFile)}
	}
	lines := make([]string, 0, len(r.cfg.ExpectedObjects)+1)
	lines = append(lines, "Expected objects:")
	for _, obj := range r.cfg.ExpectedObjects {
		lines = append(lines, "  - "+obj)
	}
	return lines
}
