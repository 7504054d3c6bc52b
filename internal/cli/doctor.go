package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/cocsheet/internal/config"
	"github.com/example/cocsheet/internal/core/skill"
	"github.com/example/cocsheet/internal/db"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate cocsheet configuration and database",
		Long: `Health check for the cocsheet setup in the current directory.

Validates:
- Configuration (.cocsheet/config.toml, .env, COCSHEET_* variables)
- Database file presence and schema version
- SQLite integrity check
- Built-in skill catalog

Examples:
  cocsheet doctor            # Run full health check
  cocsheet doctor --quiet    # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}

			results := runChecks(dir)
			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				printChecks(cmd.OutOrStdout(), results, hasErrors)
			}

			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

func runChecks(dir string) []CheckResult {
	cfg, err := config.Load(dir)
	if err != nil {
		return []CheckResult{
			{Name: "Config", Status: "✗", Details: "  " + FormatError(err)},
			checkCatalog(),
		}
	}

	results := []CheckResult{{Name: "Config", Status: "✓"}}
	results = append(results, checkDatabase(cfg)...)
	results = append(results, checkCatalog())
	return results
}

// checkDatabase inspects the configured database without migrating it.
func checkDatabase(cfg *config.Config) []CheckResult {
	if cfg.DB.Path != db.MemoryPath {
		if _, err := os.Stat(cfg.DB.Path); errors.Is(err, os.ErrNotExist) {
			return []CheckResult{{
				Name:    "Database",
				Status:  "✗",
				Details: fmt.Sprintf("  %s not found\n  Run: cocsheet init", cfg.DB.Path),
			}}
		}
	}

	database, err := sql.Open(cfg.DB.Driver, cfg.DB.Path)
	if err != nil {
		return []CheckResult{{Name: "Database", Status: "✗", Details: "  " + err.Error()}}
	}
	defer database.Close()

	results := []CheckResult{{Name: "Database", Status: "✓"}}

	version, err := db.SchemaVersion(database)
	switch {
	case err != nil:
		results = append(results, CheckResult{Name: "Schema", Status: "✗", Details: "  " + err.Error()})
	case version < db.LatestVersion():
		results = append(results, CheckResult{
			Name:    "Schema",
			Status:  "⚠",
			Details: fmt.Sprintf("  schema v%d, latest is v%d\n  The next command migrates it", version, db.LatestVersion()),
		})
	case version > db.LatestVersion():
		results = append(results, CheckResult{
			Name:    "Schema",
			Status:  "✗",
			Details: fmt.Sprintf("  schema v%d is newer than this binary (v%d)", version, db.LatestVersion()),
		})
	default:
		results = append(results, CheckResult{Name: "Schema", Status: "✓"})
	}

	var integrity string
	if err := database.QueryRow("PRAGMA integrity_check").Scan(&integrity); err != nil {
		results = append(results, CheckResult{Name: "Integrity", Status: "✗", Details: "  " + err.Error()})
	} else if integrity != "ok" {
		results = append(results, CheckResult{Name: "Integrity", Status: "✗", Details: "  " + integrity})
	} else {
		results = append(results, CheckResult{Name: "Integrity", Status: "✓"})
	}

	return results
}

func checkCatalog() CheckResult {
	if len(skill.Default().OccupationKeys()) == 0 {
		return CheckResult{Name: "Skill catalog", Status: "⚠", Details: "  no occupation templates loaded"}
	}
	return CheckResult{Name: "Skill catalog", Status: "✓"}
}

func printChecks(out io.Writer, results []CheckResult, hasErrors bool) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Check              Status")
	fmt.Fprintln(out, "─────────────────────────")
	for _, r := range results {
		fmt.Fprintf(out, "%-18s %s\n", r.Name, r.Status)
	}
	fmt.Fprintln(out)

	hasDetails := false
	for _, r := range results {
		if r.Status != "✓" && r.Details != "" {
			if !hasDetails {
				fmt.Fprintln(out, "Details:")
				hasDetails = true
			}
			fmt.Fprintf(out, "\n%s:\n%s\n", r.Name, r.Details)
		}
	}

	if hasErrors {
		fmt.Fprintln(out, "\n⚠ Issues found.")
	} else {
		fmt.Fprintln(out, "All checks passed.")
	}
}
