// Package main implements the supagrator CLI.
// It loads environment configuration (optionally from a .env file), parses
// command-line flags, builds the appropriate executor for the project, and
// applies a single SQL migration file, printing manual instructions when
// automated execution is unavailable.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/joho/godotenv"

	"github.com/supagrator/supagrator"
)

var versionString = supagrator.Version

// usage prints the help text.
func usage() {
	header := `Usage:
  supagrator [command] [arguments] [options]

Commands:
  apply               Apply the migration file to the project (default).
  print               Print the parsed statements without contacting anything.
  new <description>   Scaffold a new empty migration file.

Environment:
  SUPABASE_URL               Project base URL (required for apply).
  SUPABASE_SERVICE_ROLE_KEY  Service-role key (required for apply).
  SUPABASE_DB_URL            Optional direct Postgres URL; when set, statements
                             run over a direct connection instead of the REST API.

Options:`
	fmt.Fprintln(os.Stderr, header)
	flag.PrintDefaults()
}

func main() {
	file := flag.String("file", supagrator.DefaultConfig.MigrationFile, "Path to the SQL migration file")
	probeTable := flag.String("probe-table", supagrator.DefaultConfig.ProbeTable, "Table queried (limit 0) by the final capability probe")
	expect := flag.String("expect", "", "Comma-separated descriptions of objects the migration should create")
	envFile := flag.String("env", "", "Path to a .env file to load (default: ./.env if present)")
	dir := flag.String("dir", "migrations", "Directory for new migration files (new command)")
	timeout := flag.Duration("timeout", 10*time.Minute, "Overall timeout for the run")
	helpFlag := flag.Bool("help", false, "Show help message")
	versionFlag := flag.Bool("version", false, "Show version")

	flag.Usage = usage
	flag.Parse()

	if *helpFlag {
		usage()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Println("supagrator version:", versionString)
		os.Exit(0)
	}

	args := flag.Args()
	command := "apply"
	if len(args) > 0 {
		command = strings.TrimSpace(args[0])
	}

	switch command {
	case "apply":
		os.Exit(runApply(*envFile, *file, *probeTable, *expect, *timeout))
	case "print":
		os.Exit(runPrint(*file))
	case "new":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Error: a description is required for the new command.")
			usage()
			os.Exit(1)
		}
		path, err := supagrator.CreateMigration(*dir, strings.Join(args[1:], " "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating migration: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("[%s] Created %s\n", time.Now().Format(time.Kitchen), path)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		usage()
		os.Exit(1)
	}
}

// runApply performs the full migration run and returns the process exit
// code. Configuration is validated before the migration file is read or any
// network connection is made.
func runApply(envFile, file, probeTable, expect string, timeout time.Duration) int {
	loadDotenv(envFile)

	cfg, err := supagrator.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Set the variables above (or put them in a .env file) and re-run.")
		return 1
	}
	cfg.MigrationFile = supagrator.ResolvePath(file)
	cfg.ProbeTable = probeTable
	if expect != "" {
		for _, obj := range strings.Split(expect, ",") {
			if obj = strings.TrimSpace(obj); obj != "" {
				cfg.ExpectedObjects = append(cfg.ExpectedObjects, obj)
			}
		}
	}

	exec, cleanup, err := buildExecutor(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return 1
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	fmt.Printf("[%s] Applying %s...\n", time.Now().Format(time.Kitchen), cfg.MigrationFile)
	runner := supagrator.NewRunner(cfg, exec)
	res, err := runner.Apply(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
		fmt.Fprintln(os.Stderr, "To apply the migration manually:")
		fmt.Fprintf(os.Stderr, "  1. Open the SQL editor: %s\n", cfg.DashboardURL())
		fmt.Fprintf(os.Stderr, "  2. Paste the contents of %s\n", cfg.MigrationFile)
		fmt.Fprintln(os.Stderr, "  3. Run the statements in order.")
		return 1
	}
	for _, line := range res.Messages {
		fmt.Println(line)
	}
	fmt.Printf("[%s] Outcome: %s\n", time.Now().Format(time.Kitchen), res.Outcome)
	return 0
}

// runPrint lists the parsed statements. It never contacts the project and
// needs no configuration.
func runPrint(file string) int {
	path := supagrator.ResolvePath(file)
	stmts, err := supagrator.LoadStatements(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("%s: %d statement(s)\n", path, len(stmts))
	for i, s := range stmts {
		fmt.Printf("-- [%d]\n%s;\n", i+1, s)
	}
	return 0
}

// buildExecutor picks the execution path: a direct Postgres connection when
// one is configured, the REST RPC endpoint otherwise.
func buildExecutor(cfg supagrator.Config) (supagrator.Executor, func(), error) {
	if cfg.DatabaseURL == "" {
		return supagrator.NewRESTExecutor(cfg), func() {}, nil
	}
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return supagrator.NewSQLExecutor(cfg, db), func() { _ = db.Close() }, nil
}

// loadDotenv loads environment variables from a .env file. A missing
// default file is fine; an explicitly named one that fails to load is not.
func loadDotenv(path string) {
	if path == "" {
		_ = godotenv.Load()
		return
	}
	if err := godotenv.Load(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading env file %s: %v\n", path, err)
		os.Exit(1)
	}
}
