package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <url>...",
	Short: "Add links to the reading list",
	Long: `Add fetches each page's title, description and preview image and
stores it at the top of the list, in the active group (or the default group
when no filter is set).

In server mode the URL is posted to the remote endpoint, which does the
fetch and the write.

Example:
  letterplace-cli add https://example.org
  letterplace-cli add --mode server --endpoint http://localhost:8080/api/crawl https://example.org`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if _, err := refreshed(ctx); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, raw := range args {
			e, err := env.sync.Add(ctx, raw)
			if err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "❌ %v\n", err)
				continue
			}
			if flagJSON {
				if err := printJSON(out, e); err != nil {
					return err
				}
				continue
			}
			fmt.Fprintf(out, "✅ %s  %s  [%s]\n", short(e.ID), label(e), e.Group)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d adds failed", failed, len(args))
		}
		return nil
	},
}
