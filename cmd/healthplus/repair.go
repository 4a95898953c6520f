// ABOUTME: CLI command for running the session repair pass by hand.
// ABOUTME: --dry-run repairs an in-memory copy and reports what would change.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tmccoy01/healthplus/internal/repair"
	"github.com/tmccoy01/healthplus/internal/storage"
)

var repairDryRun bool

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Fix ordering and naming problems in stored sessions",
	Long: `Renumber exercises and sets so their order is 0..n-1 and 1..n, and give
blank exercise names a placeholder. The same pass runs at every startup;
this command reports what it changed.

Examples:
  healthplus repair --dry-run
  healthplus repair`,
	Annotations: map[string]string{skipBootstrap: "true"},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		target := repo

		if repairDryRun {
			mem, err := storage.OpenMemory()
			if err != nil {
				return fmt.Errorf("failed to open scratch store: %w", err)
			}
			defer mem.Close()

			if _, err := storage.CopyData(ctx, repo, mem); err != nil {
				return fmt.Errorf("failed to copy data: %w", err)
			}
			target = mem
		}

		report, err := repair.Run(ctx, target)
		if err != nil {
			return fmt.Errorf("repair failed: %w", err)
		}

		if !report.HasFixes {
			color.Green("✓ No problems found")
			return nil
		}

		verb := "Fixed"
		if repairDryRun {
			verb = "Would fix"
		}
		color.Green("✓ %s %d problem(s) in %d session(s)", verb, report.TotalFixes, report.SessionsTouched)
		return nil
	},
}

func init() {
	repairCmd.Flags().BoolVar(&repairDryRun, "dry-run", false, "report fixes without saving them")
	rootCmd.AddCommand(repairCmd)
}
