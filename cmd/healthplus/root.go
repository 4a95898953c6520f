// ABOUTME: Root Cobra command for healthplus CLI.
// ABOUTME: Loads config, sets up logging, opens storage, and runs startup checks for every command.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tmccoy01/healthplus/internal/bootstrap"
	"github.com/tmccoy01/healthplus/internal/calendar"
	"github.com/tmccoy01/healthplus/internal/category"
	"github.com/tmccoy01/healthplus/internal/config"
	"github.com/tmccoy01/healthplus/internal/logging"
	"github.com/tmccoy01/healthplus/internal/storage"
	"github.com/tmccoy01/healthplus/internal/workout"
)

// skipBootstrap marks commands that manage startup checks themselves.
const skipBootstrap = "healthplus/skip-bootstrap"

var (
	repo     storage.Repository
	cal      calendar.Calendar
	manager  *workout.Manager
	registry *category.Registry
	logger   *logrus.Logger

	memoryMode bool
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "healthplus",
	Short: "Strength workout log",
	Long: `Healthplus is a CLI for logging strength workouts.

A session holds exercises, each exercise holds sets of reps at a weight.
Only one session can be open at a time.

QUICK START:

  $ healthplus session start --category legs   # Open a session
  $ healthplus exercise add "Back Squat"        # Shows what you lifted last time
  $ healthplus set add a1b2c3d4 5 100           # Log 5 reps at 100
  $ healthplus set repeat a1b2c3d4              # Log the same set again
  $ healthplus session finish                   # Close the session

HISTORY AND PROGRESS:

  $ healthplus history --week                   # Completed sessions by week
  $ healthplus stats "back squat" --range 3M    # Top sets, e1RM, trend
  $ healthplus last "bench press"               # Most recent set

IDS:

  Every command that takes an id accepts an unambiguous prefix, usually the
  8 characters shown in listings.

MCP INTEGRATION:

  Run 'healthplus mcp' to start the Model Context Protocol server over stdio.

DATA STORAGE:

  Data is stored in SQLite at ~/.local/share/healthplus/healthplus.db.
  Settings live in ~/.config/healthplus/config.yaml.
  Use --memory for a throwaway in-memory store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if memoryMode {
			cfg.InMemory = true
		}

		params := cfg.Logging()
		if logLevel != "" {
			params.Level = logLevel
		}
		if params.Level == "" {
			params.Level = "warn"
		}
		logger = logging.Setup(params)

		cal, err = cfg.BuildCalendar()
		if err != nil {
			return err
		}

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		manager = workout.NewManager(repo)
		registry = category.NewRegistry(repo)

		if cmd.Annotations[skipBootstrap] == "" {
			if _, err := bootstrap.Run(cmd.Context(), repo, logger); err != nil {
				color.Yellow("⚠ Startup checks incomplete: %v", err)
			}
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo != nil {
			err := repo.Close()
			repo = nil
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&memoryMode, "memory", false, "use a throwaway in-memory database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// Output helpers

var faint = color.New(color.Faint)

func shortID(s fmt.Stringer) string {
	return s.String()[:8]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

// optionalTime parses a --at style flag; empty means nil.
func optionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp: %s", s)
	}
	return &t, nil
}

func formatWeight(w float64) string {
	return fmt.Sprintf("%g", w)
}
