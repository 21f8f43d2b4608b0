package main

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show the reading list",
	Long: `List shows the entries of the active group filter, newest first.

Example:
  letterplace-cli list
  letterplace-cli list --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := refreshed(cmd.Context())
		if err != nil {
			return err
		}
		return printView(cmd.OutOrStdout(), v)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <entry>",
	Short: "Show one entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := refreshed(cmd.Context())
		if err != nil {
			return err
		}
		e, err := resolveRef(v, args[0])
		if err != nil {
			return err
		}
		return printEntry(cmd.OutOrStdout(), e)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
