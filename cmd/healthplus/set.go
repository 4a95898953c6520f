// ABOUTME: CLI commands for logging sets.
// ABOUTME: Supports add, repeat, remove, and edit.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tmccoy01/healthplus/internal/workout"
)

var (
	setWarmup bool
	setNotes  string
	setAt     string
	setReps   int
	setWeight float64
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Log sets for an exercise",
	Long: `Log, repeat, edit, and remove sets.

Sets are numbered from 1 within an exercise. Removing a set renumbers the
rest. Negative reps or weights are stored as 0.`,
}

var setAddCmd = &cobra.Command{
	Use:   "add <exercise-id> <reps> <weight>",
	Short: "Log a set",
	Long: `Log a set of reps at a weight.

Examples:
  healthplus set add a1b2c3d4 5 100
  healthplus set add a1b2c3d4 10 60 --warmup
  healthplus set add a1b2c3d4 3 140 --notes "belt"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		reps, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid reps: %s", args[1])
		}
		weight, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid weight: %s", args[2])
		}
		loggedAt, err := optionalTime(setAt)
		if err != nil {
			return err
		}

		entryID, err := repo.ResolveExerciseID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve exercise: %w", err)
		}

		set, err := manager.AddSet(ctx, entryID, workout.SetInput{
			Reps:     reps,
			Weight:   weight,
			IsWarmup: setWarmup,
			Notes:    setNotes,
			LoggedAt: loggedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to add set: %w", err)
		}

		color.Green("✓ Set %d: %d x %s", set.SetIndex, set.Reps, formatWeight(set.Weight))
		fmt.Printf("  ID: %s\n", shortID(set.ID))
		return nil
	},
}

var setRepeatCmd = &cobra.Command{
	Use:   "repeat <exercise-id>",
	Short: "Log the most recent set again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		entryID, err := repo.ResolveExerciseID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve exercise: %w", err)
		}

		set, err := manager.RepeatLastSet(ctx, entryID)
		if err != nil {
			return fmt.Errorf("failed to repeat set: %w", err)
		}
		if set == nil {
			color.Yellow("⚠ No sets logged yet; nothing to repeat")
			return nil
		}

		color.Green("✓ Set %d: %d x %s", set.SetIndex, set.Reps, formatWeight(set.Weight))
		fmt.Printf("  ID: %s\n", shortID(set.ID))
		return nil
	},
}

var setRemoveCmd = &cobra.Command{
	Use:     "remove <set-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a set",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := repo.ResolveSetID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve set: %w", err)
		}

		removed, err := manager.RemoveSet(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to remove set: %w", err)
		}

		color.Green("✓ Removed set %d: %d x %s", removed.Set.SetIndex, removed.Set.Reps, formatWeight(removed.Set.Weight))
		return nil
	},
}

var setEditCmd = &cobra.Command{
	Use:   "edit <set-id>",
	Short: "Change a logged set",
	Long: `Change reps, weight, warmup flag, or notes on a set. Only flags you pass change.

Examples:
  healthplus set edit e5f6a7b8 --reps 6
  healthplus set edit e5f6a7b8 --weight 102.5 --warmup=false`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := repo.ResolveSetID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve set: %w", err)
		}

		var upd workout.SetUpdate
		flags := cmd.Flags()
		if flags.Changed("reps") {
			upd.Reps = &setReps
		}
		if flags.Changed("weight") {
			upd.Weight = &setWeight
		}
		if flags.Changed("warmup") {
			upd.IsWarmup = &setWarmup
		}
		if flags.Changed("notes") {
			upd.Notes = &setNotes
		}
		if upd == (workout.SetUpdate{}) {
			return fmt.Errorf("nothing to change; pass --reps, --weight, --warmup, or --notes")
		}

		set, err := manager.UpdateSet(ctx, id, upd)
		if err != nil {
			return fmt.Errorf("failed to update set: %w", err)
		}

		color.Green("✓ Set %d: %d x %s", set.SetIndex, set.Reps, formatWeight(set.Weight))
		return nil
	},
}

func init() {
	setAddCmd.Flags().BoolVarP(&setWarmup, "warmup", "w", false, "mark as a warmup set")
	setAddCmd.Flags().StringVarP(&setNotes, "notes", "n", "", "set notes")
	setAddCmd.Flags().StringVar(&setAt, "at", "", "time logged (YYYY-MM-DD HH:MM)")

	setEditCmd.Flags().IntVarP(&setReps, "reps", "r", 0, "repetitions")
	setEditCmd.Flags().Float64VarP(&setWeight, "weight", "W", 0, "weight")
	setEditCmd.Flags().BoolVarP(&setWarmup, "warmup", "w", false, "warmup set")
	setEditCmd.Flags().StringVarP(&setNotes, "notes", "n", "", "set notes")

	setCmd.AddCommand(setAddCmd)
	setCmd.AddCommand(setRepeatCmd)
	setCmd.AddCommand(setRemoveCmd)
	setCmd.AddCommand(setEditCmd)
	rootCmd.AddCommand(setCmd)
}
