// ABOUTME: CLI commands for workout categories.
// ABOUTME: Supports list, add, rename, and archive; categories are never deleted.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var categoryAll bool

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Manage workout categories",
	Long: `List and edit workout categories (Back, Legs, Cardio, ...).

Built-in categories are created on first run. Archiving hides a category
from pickers but keeps it on the sessions that use it. Names are unique
ignoring case, accents, and spacing, archived ones included.`,
}

var categoryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List categories",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		categories, err := registry.List(cmd.Context(), categoryAll)
		if err != nil {
			return err
		}
		if len(categories) == 0 {
			fmt.Println("No categories found.")
			return nil
		}

		for _, c := range categories {
			tags := ""
			if c.IsBuiltIn {
				tags += faint.Sprint(" built-in")
			}
			if c.IsArchived {
				tags += color.YellowString(" archived")
			}
			fmt.Printf("%s %s%s\n", faint.Sprint(shortID(c.ID)), c.Name, tags)
		}
		return nil
	},
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := registry.Create(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}

		color.Green("✓ Added category %s", c.Name)
		fmt.Printf("  ID: %s\n", shortID(c.ID))
		return nil
	},
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename <name-or-id> <new-name>",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := registry.Resolve(ctx, args[0])
		if err != nil {
			return err
		}
		old := c.Name

		c, err = registry.Rename(ctx, c.ID, args[1])
		if err != nil {
			return fmt.Errorf("failed to rename category: %w", err)
		}

		color.Green("✓ Renamed %s to %s", old, c.Name)
		return nil
	},
}

var categoryArchiveCmd = &cobra.Command{
	Use:   "archive <name-or-id>",
	Short: "Archive a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := registry.Resolve(ctx, args[0])
		if err != nil {
			return err
		}

		c, err = registry.Archive(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("failed to archive category: %w", err)
		}

		color.Green("✓ Archived %s", c.Name)
		return nil
	},
}

func init() {
	categoryListCmd.Flags().BoolVarP(&categoryAll, "all", "a", false, "include archived categories")

	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryRenameCmd)
	categoryCmd.AddCommand(categoryArchiveCmd)
	rootCmd.AddCommand(categoryCmd)
}
