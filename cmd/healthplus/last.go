// ABOUTME: CLI command for the most recent set of an exercise.
// ABOUTME: Skips the open session so it shows what was lifted last time.
package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tmccoy01/healthplus/internal/lookup"
	"github.com/tmccoy01/healthplus/internal/storage"
)

var lastCmd = &cobra.Command{
	Use:   "last <exercise>",
	Short: "Show the last set logged for an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		active, err := repo.ActiveSession(ctx)
		if err != nil {
			return fmt.Errorf("failed to load active session: %w", err)
		}
		var exclude *uuid.UUID
		if active != nil {
			exclude = &active.ID
		}

		sessions, err := repo.ListSessions(ctx, storage.SessionFilter{})
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		ref := lookup.LatestReference(sessions, args[0], exclude)
		if ref == nil {
			fmt.Printf("No history for %q.\n", args[0])
			return nil
		}

		fmt.Printf("%s: %d x %s\n", ref.ExerciseName, ref.Reps, formatWeight(ref.Weight))
		fmt.Printf("  %s %s\n",
			faint.Sprint(ref.LoggedAt.Local().Format("2006-01-02 15:04")),
			faint.Sprintf("session %s", shortID(ref.SessionID)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lastCmd)
}
