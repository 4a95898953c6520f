// ABOUTME: CLI command for browsing completed sessions.
// ABOUTME: Groups by day or week and filters by category or exercise.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tmccoy01/healthplus/internal/models"
	"github.com/tmccoy01/healthplus/internal/storage"
	"github.com/tmccoy01/healthplus/internal/timeline"
)

var (
	historyCategory string
	historyExercise string
	historyWeek     bool
	historyChoices  bool
	historyLines    int
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "Browse completed sessions",
	Long: `Show completed sessions, most recent first, grouped by day (or week).

Each session shows its category, duration, and one line per exercise with
its set count.

Examples:
  healthplus history
  healthplus history --week --category legs
  healthplus history --exercise "back squat"
  healthplus history --choices        # list values usable as filters`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sessions, err := repo.ListSessions(ctx, storage.SessionFilter{ClosedOnly: true})
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		categories, err := categoryIndex(ctx)
		if err != nil {
			return err
		}

		if historyChoices {
			printChoices("Categories", timeline.CategoryChoices(sessions, categories))
			printChoices("Exercises", timeline.ExerciseChoices(sessions))
			return nil
		}

		filter := timeline.Filter{ExerciseKey: historyExercise}
		if historyCategory != "" {
			c, err := registry.Resolve(ctx, historyCategory)
			if err != nil {
				return err
			}
			filter.CategoryID = &c.ID
		}

		sessions = filter.Apply(sessions)
		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		var sections []timeline.Section
		if historyWeek {
			sections = timeline.GroupByWeek(sessions, cal)
		} else {
			sections = timeline.GroupByDay(sessions, cal)
		}

		for i, sec := range sections {
			if i > 0 {
				fmt.Println()
			}
			if historyWeek {
				color.New(color.Bold).Println(timeline.WeekLabel(sec.Start))
			} else {
				color.New(color.Bold).Println(sec.Start.Format("Mon Jan 2, 2006"))
			}
			for _, s := range sec.Sessions {
				printHistoryEntry(s, categories)
			}
		}
		return nil
	},
}

func printHistoryEntry(s *models.Session, categories models.CategoryIndex) {
	duration, _ := timeline.DurationLabel(s)
	fmt.Printf("  %s %s %s %s\n",
		faint.Sprint(shortID(s.ID)),
		faint.Sprint(s.StartedAt.In(cal.Location).Format("15:04")),
		padRight(categories.NameOf(s.CategoryID, "-"), 10),
		duration)
	for _, line := range timeline.SummaryLines(s, historyLines) {
		fmt.Printf("      %s\n", line)
	}
}

func printChoices(title string, choices []timeline.Choice) {
	color.New(color.Bold).Println(title)
	if len(choices) == 0 {
		fmt.Println("  (none)")
		return
	}
	labels := make([]string, 0, len(choices))
	for _, c := range choices {
		labels = append(labels, c.Label)
	}
	fmt.Printf("  %s\n", strings.Join(labels, ", "))
}

func init() {
	historyCmd.Flags().StringVarP(&historyCategory, "category", "c", "", "only sessions in this category")
	historyCmd.Flags().StringVarP(&historyExercise, "exercise", "e", "", "only sessions containing this exercise")
	historyCmd.Flags().BoolVarP(&historyWeek, "week", "w", false, "group by week instead of day")
	historyCmd.Flags().BoolVar(&historyChoices, "choices", false, "list categories and exercises present in history")
	historyCmd.Flags().IntVar(&historyLines, "lines", timeline.DefaultSummaryLines, "summary lines per session")
	rootCmd.AddCommand(historyCmd)
}
