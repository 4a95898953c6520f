// ABOUTME: CLI commands for exercises within a session.
// ABOUTME: Supports add (with last-time reference), remove, and rename.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tmccoy01/healthplus/internal/lookup"
	"github.com/tmccoy01/healthplus/internal/storage"
)

var (
	exerciseSession string
	exerciseNotes   string
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex", "e"},
	Short:   "Manage exercises in a session",
	Long: `Add, remove, and rename exercises.

Exercises keep the order they were added in. Removing one closes the gap.
Exercise names are matched across sessions ignoring case, accents, and
extra spaces, so "Back  Squat" and "back squat" share history.`,
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an exercise to a session",
	Long: `Add an exercise to the open session (or --session).

Prints the most recent set logged for the same exercise in any other session.

Examples:
  healthplus exercise add "Back Squat"
  healthplus exercise add "Romanian Deadlift" --notes "slow eccentric"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var sessionArgs []string
		if exerciseSession != "" {
			sessionArgs = []string{exerciseSession}
		}
		sessionID, err := sessionIDArg(ctx, sessionArgs)
		if err != nil {
			return err
		}

		e, err := manager.AddExercise(ctx, sessionID, args[0], exerciseNotes)
		if err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}

		color.Green("✓ Added %s", e.ExerciseName)
		fmt.Printf("  ID: %s\n", shortID(e.ID))

		sessions, err := repo.ListSessions(ctx, storage.SessionFilter{})
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		if ref := lookup.LatestReference(sessions, e.ExerciseName, &sessionID); ref != nil {
			fmt.Printf("  Last time: %d x %s %s\n", ref.Reps, formatWeight(ref.Weight),
				faint.Sprint(ref.LoggedAt.Local().Format("2006-01-02")))
		}
		return nil
	},
}

var exerciseRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove an exercise and its sets",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := repo.ResolveExerciseID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve exercise: %w", err)
		}
		if err := manager.RemoveExercise(ctx, id); err != nil {
			return fmt.Errorf("failed to remove exercise: %w", err)
		}

		color.Green("✓ Removed exercise %s", shortID(id))
		return nil
	},
}

var exerciseRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename an exercise",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := repo.ResolveExerciseID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve exercise: %w", err)
		}
		e, err := manager.RenameExercise(ctx, id, args[1])
		if err != nil {
			return fmt.Errorf("failed to rename exercise: %w", err)
		}
		if cmd.Flags().Changed("notes") {
			if e, err = manager.UpdateExerciseNotes(ctx, id, exerciseNotes); err != nil {
				return fmt.Errorf("failed to update notes: %w", err)
			}
		}

		color.Green("✓ Renamed to %s", e.ExerciseName)
		return nil
	},
}

func init() {
	exerciseAddCmd.Flags().StringVarP(&exerciseSession, "session", "s", "", "session id (defaults to the open session)")
	exerciseAddCmd.Flags().StringVarP(&exerciseNotes, "notes", "n", "", "exercise notes")
	exerciseRenameCmd.Flags().StringVarP(&exerciseNotes, "notes", "n", "", "replace the exercise notes")

	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseRemoveCmd)
	exerciseCmd.AddCommand(exerciseRenameCmd)
	rootCmd.AddCommand(exerciseCmd)
}
