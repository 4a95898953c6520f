// ABOUTME: CLI commands for bodyweight and body-fat check-ins.
// ABOUTME: Supports add, list, and delete.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tmccoy01/healthplus/internal/workout"
)

var (
	bodyWeight float64
	bodyFat    float64
	bodyNotes  string
	bodyAt     string
	bodyLimit  int
)

var bodyCmd = &cobra.Command{
	Use:     "body",
	Aliases: []string{"b"},
	Short:   "Track bodyweight and body fat",
}

var bodyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a check-in",
	Long: `Record bodyweight, body-fat percentage, or both.

Examples:
  healthplus body add --weight 82.4
  healthplus body add --weight 82.1 --fat 17.5 --at "2025-01-31 07:00"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		recordedAt, err := optionalTime(bodyAt)
		if err != nil {
			return err
		}

		in := workout.BodyMetricInput{Notes: bodyNotes, RecordedAt: recordedAt}
		if cmd.Flags().Changed("weight") {
			in.BodyWeight = &bodyWeight
		}
		if cmd.Flags().Changed("fat") {
			in.BodyFatPercent = &bodyFat
		}

		m, err := manager.AddBodyMetric(cmd.Context(), in)
		if err != nil {
			return fmt.Errorf("failed to add check-in: %w", err)
		}

		color.Green("✓ Recorded %s", describeBodyMetric(m.BodyWeight, m.BodyFatPercent))
		fmt.Printf("  ID: %s\n", shortID(m.ID))
		return nil
	},
}

var bodyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent check-ins",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		metrics, err := repo.ListBodyMetrics(cmd.Context(), bodyLimit)
		if err != nil {
			return fmt.Errorf("failed to list check-ins: %w", err)
		}
		if len(metrics) == 0 {
			fmt.Println("No check-ins found.")
			return nil
		}

		for _, m := range metrics {
			line := fmt.Sprintf("%s %s  %s",
				faint.Sprint(shortID(m.ID)),
				m.RecordedAt.Local().Format("2006-01-02 15:04"),
				describeBodyMetric(m.BodyWeight, m.BodyFatPercent))
			if m.Notes != "" {
				line += faint.Sprintf("  %s", truncate(m.Notes, 40))
			}
			fmt.Println(line)
		}
		return nil
	},
}

var bodyDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a check-in",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := repo.ResolveBodyMetricID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve check-in: %w", err)
		}
		if err := manager.DeleteBodyMetric(ctx, id); err != nil {
			return fmt.Errorf("failed to delete check-in: %w", err)
		}

		color.Green("✓ Deleted check-in %s", shortID(id))
		return nil
	},
}

func describeBodyMetric(weight, fat *float64) string {
	switch {
	case weight != nil && fat != nil:
		return fmt.Sprintf("%s @ %.1f%%", formatWeight(*weight), *fat)
	case weight != nil:
		return formatWeight(*weight)
	case fat != nil:
		return fmt.Sprintf("%.1f%% body fat", *fat)
	default:
		return "-"
	}
}

func init() {
	bodyAddCmd.Flags().Float64Var(&bodyWeight, "weight", 0, "bodyweight")
	bodyAddCmd.Flags().Float64Var(&bodyFat, "fat", 0, "body-fat percentage")
	bodyAddCmd.Flags().StringVarP(&bodyNotes, "notes", "n", "", "check-in notes")
	bodyAddCmd.Flags().StringVar(&bodyAt, "at", "", "time recorded (YYYY-MM-DD HH:MM)")

	bodyListCmd.Flags().IntVarP(&bodyLimit, "limit", "n", 20, "max results")

	bodyCmd.AddCommand(bodyAddCmd)
	bodyCmd.AddCommand(bodyListCmd)
	bodyCmd.AddCommand(bodyDeleteCmd)
	rootCmd.AddCommand(bodyCmd)
}
