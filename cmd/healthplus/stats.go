// ABOUTME: CLI command for per-exercise progress statistics.
// ABOUTME: One-shot or --watch mode, which recomputes whenever the stored history changes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tmccoy01/healthplus/internal/models"
	"github.com/tmccoy01/healthplus/internal/stats"
	"github.com/tmccoy01/healthplus/internal/storage"
	"github.com/tmccoy01/healthplus/internal/timeline"
)

var (
	statsRange    string
	statsWatch    bool
	statsInterval time.Duration
)

var statsCmd = &cobra.Command{
	Use:   "stats [exercise]",
	Short: "Show progress for an exercise",
	Long: `Show top sets, estimated one-rep max, weekly volume, and trend for an exercise.

Only completed sessions count. Without an exercise, lists the exercises that
have stats. The estimated one-rep max uses the Epley formula.

RANGES:

  4W   last 28 days
  3M   last 3 months
  6M   last 6 months
  1Y   last year
  All  everything (default)

Examples:
  healthplus stats "back squat"
  healthplus stats "bench press" --range 3M
  healthplus stats deadlift --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		preset, err := stats.ParseRangePreset(statsRange)
		if err != nil {
			return err
		}
		if statsWatch && statsInterval <= 0 {
			return fmt.Errorf("invalid --interval %s: must be positive", statsInterval)
		}

		ctx := cmd.Context()
		sessions, err := repo.ListSessions(ctx, storage.SessionFilter{ClosedOnly: true})
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		if len(args) == 0 {
			options := stats.ExerciseOptions(sessions)
			if len(options) == 0 {
				fmt.Println("No completed exercises yet.")
				return nil
			}
			for _, o := range options {
				fmt.Println(o.Label)
			}
			return nil
		}

		if !statsWatch {
			printSnapshot(stats.Compute(sessions, args[0], preset.Interval(time.Now()), cal), preset)
			return nil
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchStats(ctx, args[0], preset)
	},
}

// watchStats polls storage and recomputes when the history signature changes.
// Newer computations supersede older ones.
func watchStats(ctx context.Context, exercise string, preset stats.RangePreset) error {
	rc := stats.NewRecomputer(func(res stats.Result) {
		if res.Err != nil {
			color.Red("✗ %v", res.Err)
			return
		}
		fmt.Printf("\n%s\n", faint.Sprint(time.Now().Format("15:04:05")))
		printSnapshot(res.Snapshot, preset)
	})
	defer rc.Close()

	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	lastSig := ""
	first := true
	for {
		sessions, err := repo.ListSessions(ctx, storage.SessionFilter{ClosedOnly: true})
		if err != nil && ctx.Err() == nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		if err == nil {
			if sig := stats.Signature(sessions); first || sig != lastSig {
				first, lastSig = false, sig
				rc.Request(ctx, snapshotFunc(sessions, exercise, preset))
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func snapshotFunc(sessions []*models.Session, exercise string, preset stats.RangePreset) stats.ComputeFunc {
	return func(ctx context.Context) (stats.Snapshot, error) {
		if err := ctx.Err(); err != nil {
			return stats.Snapshot{}, err
		}
		return stats.Compute(sessions, exercise, preset.Interval(time.Now()), cal), nil
	}
}

func printSnapshot(snap stats.Snapshot, preset stats.RangePreset) {
	if snap.IsEmpty() {
		color.Yellow("No completed sessions with %q in range %s.", snap.ExerciseKey, preset)
		return
	}

	bold := color.New(color.Bold)
	bold.Printf("%s (%s)\n", snap.ExerciseKey, preset)
	fmt.Printf("  Trend:       %s\n", trendColor(snap.Trend))
	if snap.LastWorkoutDate != nil {
		fmt.Printf("  Last:        %s\n", snap.LastWorkoutDate.In(cal.Location).Format("2006-01-02"))
	}
	fmt.Printf("  Best weight: %s\n", formatWeight(*snap.BestWeight))
	fmt.Printf("  Best e1RM:   %.1f\n", *snap.BestEstimatedOneRepMax)
	if snap.RecentAverageTopSet != nil {
		line := fmt.Sprintf("  Recent avg:  %.1f", *snap.RecentAverageTopSet)
		if snap.PreviousAverageTopSet != nil {
			line += faint.Sprintf(" (previous %.1f)", *snap.PreviousAverageTopSet)
		}
		fmt.Println(line)
	}

	fmt.Println("\nSessions:")
	for _, p := range snap.PerformancePoints {
		fmt.Printf("  %s top %s  e1RM %.1f  %d sets  vol %s\n",
			faint.Sprint(p.Date.In(cal.Location).Format("2006-01-02")),
			padRight(formatWeight(p.TopSetWeight), 6),
			p.EstimatedOneRepMax,
			p.SetCount,
			timeline.FormatVolume(p.TotalVolume))
	}

	fmt.Println("\nWeekly volume:")
	for _, w := range snap.WeeklyVolume {
		fmt.Printf("  %s  %s\n", padRight(timeline.WeekLabel(w.WeekStart), 16), timeline.FormatVolume(w.Volume))
	}
}

func trendColor(t stats.Trend) string {
	switch t {
	case stats.TrendUp:
		return color.GreenString(t.Label())
	case stats.TrendDown:
		return color.RedString(t.Label())
	default:
		return t.Label()
	}
}

func init() {
	statsCmd.Flags().StringVarP(&statsRange, "range", "r", string(stats.RangeAll), "date range (4W, 3M, 6M, 1Y, All)")
	statsCmd.Flags().BoolVarP(&statsWatch, "watch", "w", false, "keep running and refresh when history changes")
	statsCmd.Flags().DurationVar(&statsInterval, "interval", 2*time.Second, "poll interval for --watch")
	rootCmd.AddCommand(statsCmd)
}
