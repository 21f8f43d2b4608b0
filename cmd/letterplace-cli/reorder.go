package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var reorderCmd = &cobra.Command{
	Use:   "reorder <entry>...",
	Short: "Set the display order of the whole list",
	Long: `Reorder takes every entry of the current list in the wanted order,
top first. Only entries whose position changes are written.

Example:
  letterplace-cli reorder 3 1 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := refreshed(cmd.Context())
		if err != nil {
			return err
		}

		order := make([]string, 0, len(args))
		for _, ref := range args {
			e, err := resolveRef(v, ref)
			if err != nil {
				return err
			}
			order = append(order, e.ID)
		}

		n, err := env.sync.Reorder(cmd.Context(), order)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %d entries updated\n", n)
		return nil
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <entry> <position>",
	Short: "Move one entry to a 1-based position",
	Long: `Move drags a single entry to a new position in the current list.

Example:
  letterplace-cli move 4 1`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := refreshed(cmd.Context())
		if err != nil {
			return err
		}

		e, err := resolveRef(v, args[0])
		if err != nil {
			return err
		}
		pos, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid position %q", args[1])
		}

		n, err := env.sync.Move(cmd.Context(), e.ID, pos-1)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s moved, %d entries updated\n", short(e.ID), n)
		return nil
	},
}
