package main

import (
	"bufio"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/letterplace/internal/logger"
	"github.com/MrSnakeDoc/letterplace/internal/synchronizer"
	"github.com/MrSnakeDoc/letterplace/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the list on screen and follow changes",
	Long: `Watch renders the list and redraws it whenever the collection
changes, whether the write came from this machine, another client or the
server. Changing the preference file from another session switches the
group filter here too. Press Enter to force a refresh, Ctrl-C to quit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		env.sync.OnChange(func(v synchronizer.View) {
			if v.State == synchronizer.StateLoading {
				return
			}
			if !flagJSON {
				fmt.Fprint(out, "\033[H\033[2J")
				fmt.Fprintf(out, "%s · %s\n\n", watchHeader(v, env.sync.Mode(), remoteEndpoint()), v.RefreshedAt.Local().Format(time.TimeOnly))
			}
			if err := printView(out, v); err != nil {
				env.logger.Warn("render failed", logger.Error(err))
			}
		})

		if err := env.sync.Start(ctx); err != nil {
			return err
		}

		w := watcher.New(env.prefs.Path(), env.cfg.WatchDebounce, env.sync.RequestRefresh, env.logger)
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer func() { _ = w.Close() }()

		go func() {
			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				env.sync.RequestRefresh()
			}
		}()

		<-ctx.Done()
		return nil
	},
}

// watchHeader names the group being shown and where adds go.
func watchHeader(v synchronizer.View, mode synchronizer.Mode, endpoint string) string {
	h := "Letterplace · " + groupOf(v) + " · " + string(mode) + " mode"
	if endpoint != "" {
		h += " (" + endpoint + ")"
	}
	return h
}

func remoteEndpoint() string {
	if env.remote == nil {
		return ""
	}
	return env.remote.Endpoint()
}
