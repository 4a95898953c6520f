// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server over the workout log.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tmccoy01/healthplus/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout. Logs go to stderr or the configured
log file.

CLIENT CONFIGURATION:

  {
    "mcpServers": {
      "healthplus": {
        "command": "healthplus",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  start_session       Open a session in a category
  finish_session      Close a session
  add_exercise        Add an exercise, with last time's set
  add_set             Log reps at a weight
  repeat_last_set     Log the most recent set again
  list_sessions       Recent sessions, filterable
  exercise_stats      Progress dashboard for an exercise
  previous_reference  Last logged set for an exercise
  list_categories     Active categories

AVAILABLE RESOURCES:

  healthplus://active     The open session, if any
  healthplus://timeline   Recent completed sessions grouped by day`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo, cal)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("mcp server starting")
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
