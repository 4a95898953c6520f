// ABOUTME: CLI commands for the workout session lifecycle.
// ABOUTME: Supports start, finish, show, list, duplicate, again, delete, and notes.
package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tmccoy01/healthplus/internal/models"
	"github.com/tmccoy01/healthplus/internal/storage"
	"github.com/tmccoy01/healthplus/internal/timeline"
	"github.com/tmccoy01/healthplus/internal/workout"
)

var (
	sessionCategory string
	sessionNotes    string
	sessionAt       string
	sessionLimit    int
	sessionOpenOnly bool
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"s"},
	Short:   "Manage workout sessions",
	Long: `Open, close, and inspect workout sessions.

Only one session can be open at a time. Commands that take an optional
session id default to the open session.

COMMANDS:

  start      Open a new session
  finish     Close a session
  show       Show a session with its exercises and sets
  list       List recent sessions
  duplicate  Copy a finished session as a new finished session ending now
  again      Open a new session with the same exercises as an old one
  delete     Delete a session and everything in it
  notes      Replace a session's notes`,
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Open a new session",
	Long: `Open a new workout session.

Examples:
  healthplus session start
  healthplus session start --category legs --notes "heavy day"
  healthplus session start --at "2025-01-31 07:30"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		opts := workout.StartOptions{Notes: sessionNotes}

		startedAt, err := optionalTime(sessionAt)
		if err != nil {
			return err
		}
		opts.StartedAt = startedAt

		label := ""
		if sessionCategory != "" {
			c, err := registry.Resolve(ctx, sessionCategory)
			if err != nil {
				return err
			}
			opts.CategoryID = &c.ID
			label = c.Name
		}

		s, err := manager.StartSession(ctx, opts)
		if errors.Is(err, workout.ErrActiveSessionExists) {
			return fmt.Errorf("%w; finish it first", err)
		}
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		color.Green("✓ Started session")
		fmt.Printf("  ID: %s\n", shortID(s.ID))
		if label != "" {
			fmt.Printf("  Category: %s\n", label)
		}
		return nil
	},
}

var sessionFinishCmd = &cobra.Command{
	Use:   "finish [id]",
	Short: "Close a session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := sessionIDArg(ctx, args)
		if err != nil {
			return err
		}
		endedAt, err := optionalTime(sessionAt)
		if err != nil {
			return err
		}

		s, err := manager.FinishSession(ctx, id, endedAt)
		if err != nil {
			return fmt.Errorf("failed to finish session: %w", err)
		}

		duration, _ := timeline.DurationLabel(s)
		color.Green("✓ Finished session %s", shortID(s.ID))
		fmt.Printf("  Duration: %s\n", duration)
		fmt.Printf("  Sets: %d  Volume: %s\n", timeline.SetCount(s), timeline.FormatVolume(timeline.TotalVolume(s)))
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a session with its exercises and sets",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := sessionIDArg(ctx, args)
		if err != nil {
			return err
		}
		s, err := repo.GetSession(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get session: %w", err)
		}
		categories, err := categoryIndex(ctx)
		if err != nil {
			return err
		}

		printSession(s, categories)
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent sessions",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sessions, err := repo.ListSessions(ctx, storage.SessionFilter{OpenOnly: sessionOpenOnly, Limit: sessionLimit})
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}
		categories, err := categoryIndex(ctx)
		if err != nil {
			return err
		}

		for _, s := range sessions {
			duration, ok := timeline.DurationLabel(s)
			if !ok {
				duration = "open"
			}
			fmt.Printf("%s %s %s %s %d sets\n",
				faint.Sprint(shortID(s.ID)),
				faint.Sprint(s.StartedAt.Local().Format("2006-01-02 15:04")),
				padRight(categories.NameOf(s.CategoryID, "-"), 10),
				padRight(duration, 7),
				timeline.SetCount(s))
		}
		return nil
	},
}

var sessionDuplicateCmd = &cobra.Command{
	Use:   "duplicate <id>",
	Short: "Copy a session as a finished session ending now",
	Long: `Copy a session with all its exercises and sets as a new finished session.

The copy ends now and keeps the source's duration; set times keep their
offsets from the session start.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := repo.ResolveSessionID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve session: %w", err)
		}

		s, err := manager.DuplicateSession(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to duplicate session: %w", err)
		}

		color.Green("✓ Duplicated session")
		fmt.Printf("  ID: %s (%d exercises, %d sets)\n", shortID(s.ID), len(s.Exercises), timeline.SetCount(s))
		return nil
	},
}

var sessionAgainCmd = &cobra.Command{
	Use:   "again <id>",
	Short: "Open a new session with the same exercises as an old one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := repo.ResolveSessionID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve session: %w", err)
		}

		s, err := manager.StartSessionFrom(ctx, id)
		if errors.Is(err, workout.ErrActiveSessionExists) {
			return fmt.Errorf("%w; finish it first", err)
		}
		if err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}

		color.Green("✓ Started session %s", shortID(s.ID))
		for _, e := range s.Exercises {
			fmt.Printf("  %s %s\n", faint.Sprint(shortID(e.ID)), e.ExerciseName)
		}
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a session and everything in it",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := repo.ResolveSessionID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve session: %w", err)
		}
		if err := manager.DeleteSession(ctx, id); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		color.Green("✓ Deleted session %s", shortID(id))
		return nil
	},
}

var sessionNotesCmd = &cobra.Command{
	Use:   "notes <id> <text>",
	Short: "Replace a session's notes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := repo.ResolveSessionID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve session: %w", err)
		}
		s, err := manager.UpdateSessionNotes(ctx, id, args[1])
		if err != nil {
			return fmt.Errorf("failed to update notes: %w", err)
		}

		color.Green("✓ Updated notes for session %s", shortID(s.ID))
		return nil
	},
}

func init() {
	sessionStartCmd.Flags().StringVarP(&sessionCategory, "category", "c", "", "category name or id")
	sessionStartCmd.Flags().StringVarP(&sessionNotes, "notes", "n", "", "session notes")
	sessionStartCmd.Flags().StringVar(&sessionAt, "at", "", "start time (YYYY-MM-DD HH:MM)")
	sessionFinishCmd.Flags().StringVar(&sessionAt, "at", "", "end time (YYYY-MM-DD HH:MM)")

	sessionListCmd.Flags().IntVarP(&sessionLimit, "limit", "n", 20, "max number of results")
	sessionListCmd.Flags().BoolVar(&sessionOpenOnly, "open", false, "only the open session")

	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionFinishCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionDuplicateCmd)
	sessionCmd.AddCommand(sessionAgainCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	sessionCmd.AddCommand(sessionNotesCmd)
	rootCmd.AddCommand(sessionCmd)
}

// sessionIDArg resolves an optional id argument, defaulting to the open session.
func sessionIDArg(ctx context.Context, args []string) (uuid.UUID, error) {
	if len(args) > 0 {
		id, err := repo.ResolveSessionID(ctx, args[0])
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to resolve session: %w", err)
		}
		return id, nil
	}

	active, err := repo.ActiveSession(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to load active session: %w", err)
	}
	if active == nil {
		return uuid.Nil, fmt.Errorf("no open session; start one with 'healthplus session start'")
	}
	return active.ID, nil
}

func categoryIndex(ctx context.Context) (models.CategoryIndex, error) {
	categories, err := repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return models.NewCategoryIndex(categories), nil
}

func printSession(s *models.Session, categories models.CategoryIndex) {
	fmt.Printf("Session: %s\n", shortID(s.ID))
	fmt.Printf("Category: %s\n", categories.NameOf(s.CategoryID, "-"))
	fmt.Printf("Started: %s\n", s.StartedAt.Local().Format("2006-01-02 15:04"))
	if duration, ok := timeline.DurationLabel(s); ok {
		fmt.Printf("Duration: %s\n", duration)
	} else {
		color.Green("Open")
	}
	if s.Notes != "" {
		fmt.Printf("Notes: %s\n", s.Notes)
	}

	if len(s.Exercises) == 0 {
		fmt.Println("\n" + timeline.NoExercisesLine)
		return
	}
	fmt.Println()
	for _, e := range s.Exercises {
		fmt.Printf("%s %s\n", faint.Sprint(shortID(e.ID)), e.ExerciseName)
		for _, set := range e.Sets {
			warmup := ""
			if set.IsWarmup {
				warmup = color.YellowString(" warmup")
			}
			notes := ""
			if set.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(set.Notes, 30))
			}
			fmt.Printf("  %s #%d %d x %s%s%s\n",
				faint.Sprint(shortID(set.ID)), set.SetIndex, set.Reps, formatWeight(set.Weight), warmup, notes)
		}
	}
	fmt.Printf("\nSets: %d  Volume: %s\n", timeline.SetCount(s), timeline.FormatVolume(timeline.TotalVolume(s)))
}
