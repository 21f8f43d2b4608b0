package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/letterplace/internal/synchronizer"
)

var groupCmd = &cobra.Command{
	Use:   "group <entry> <group>",
	Short: "Move an entry to another group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := refreshed(cmd.Context())
		if err != nil {
			return err
		}
		e, err := resolveRef(v, args[0])
		if err != nil {
			return err
		}
		if err := env.sync.SetGroup(cmd.Context(), e.ID, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ %s → %s\n", short(e.ID), args[1])
		return nil
	},
}

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List the configured groups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := env.prefs.Load()
		if err != nil {
			return err
		}
		active := p.GroupFilter
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"default": env.cfg.DefaultGroup,
				"active":  active,
				"groups":  env.cfg.Groups,
			})
		}

		out := cmd.OutOrStdout()
		for _, g := range env.cfg.Groups {
			marks := []string{}
			if g == env.cfg.DefaultGroup {
				marks = append(marks, "default")
			}
			if g == active {
				marks = append(marks, "active")
			}
			if len(marks) > 0 {
				fmt.Fprintf(out, "%s (%s)\n", g, strings.Join(marks, ", "))
				continue
			}
			fmt.Fprintln(out, g)
		}
		return nil
	},
}

var flagClear bool

var filterCmd = &cobra.Command{
	Use:   "filter [group]",
	Short: "Show or set the active group filter",
	Long: `Filter restricts list, reorder and move to one group. The choice is
kept in the preference file so other sessions pick it up.

Example:
  letterplace-cli filter work
  letterplace-cli filter --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if len(args) == 0 && !flagClear {
			if err := env.sync.Refresh(cmd.Context()); err != nil {
				return err
			}
			if f := env.sync.Filter(); f != "" {
				fmt.Fprintln(out, f)
			} else {
				fmt.Fprintln(out, "(all groups)")
			}
			return nil
		}

		group := ""
		if !flagClear {
			group = args[0]
		}
		if err := env.sync.SetFilter(cmd.Context(), group); err != nil {
			return err
		}
		return printView(out, env.sync.View())
	},
}

func init() {
	filterCmd.Flags().BoolVar(&flagClear, "clear", false, "show every group")
}

// groupOf is used by the watch header.
func groupOf(v synchronizer.View) string {
	if v.Filter == "" {
		return "all groups"
	}
	return v.Filter
}
