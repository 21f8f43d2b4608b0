// Command letterplace-cli is a terminal client for the reading list. It keeps
// a synchronized view of the collection and turns commands into store writes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/letterplace/internal/app"
	"github.com/MrSnakeDoc/letterplace/internal/config"
	"github.com/MrSnakeDoc/letterplace/internal/logger"
	"github.com/MrSnakeDoc/letterplace/internal/prefs"
	"github.com/MrSnakeDoc/letterplace/internal/remote"
	"github.com/MrSnakeDoc/letterplace/internal/synchronizer"
	"github.com/MrSnakeDoc/letterplace/internal/version"
)

// Global flag values.
var (
	flagMode     string
	flagEndpoint string
	flagPrefs    string
	flagJSON     bool
	flagYes      bool
)

// env is built by PersistentPreRunE for every command except version.
var env *cliEnv

type cliEnv struct {
	cfg        *config.Client
	logger     logger.Logger
	sync       *synchronizer.Synchronizer
	prefs      *prefs.FileStore
	remote     *remote.Client // nil in client mode
	closeStore func() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "letterplace-cli",
	Short: "Letterplace keeps an ordered reading list of links",
	Long: `Letterplace keeps an ordered, grouped reading list of links with
their page title, description and preview image.

Entries are shown newest first. Commands that take an entry accept its
position in the current list (1-based), its ID or a unique ID prefix.`,
	Version:           version.String(),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagMode, "mode", "", `add mode: "client" fetches locally, "server" posts to --endpoint (default $LETTERPLACE_ADD_MODE or client)`)
	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", "", "remote add endpoint (default $LETTERPLACE_ENDPOINT)")
	rootCmd.PersistentFlags().StringVar(&flagPrefs, "prefs", "", "preference file (default $LETTERPLACE_PREFS_FILE or the user config dir)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(reorderCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(groupsCmd)
	rootCmd.AddCommand(watchCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "letterplace-cli", version.String())
	},
}

// setup loads config, opens the store and builds the synchronizer.
func setup(cmd *cobra.Command, args []string) error {
	switch cmd.Name() {
	case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return nil
	}
	if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
		return nil
	}

	cfg := config.LoadClient(prefs.DefaultPath())
	if flagMode != "" {
		cfg.AddMode = flagMode
	}
	if flagEndpoint != "" {
		cfg.Endpoint = flagEndpoint
	}
	if flagPrefs != "" {
		cfg.PrefsFile = flagPrefs
	}

	// Keep the terminal quiet unless asked otherwise.
	level := cfg.LogLevel
	if os.Getenv("LETTERPLACE_LOG_LEVEL") == "" {
		level = "warn"
	}
	log := logger.New(level, cfg.PrettyLog)

	mode, err := synchronizer.ParseMode(cfg.AddMode)
	if err != nil {
		return err
	}
	if mode == synchronizer.ModeServer && cfg.Endpoint == "" {
		return fmt.Errorf("server mode needs --endpoint or LETTERPLACE_ENDPOINT")
	}

	st, closeStore, err := app.OpenStore(cmd.Context(), cfg.Common, log)
	if err != nil {
		return err
	}

	prefStore := prefs.NewFileStore(cfg.PrefsFile)

	syncCfg := synchronizer.Config{
		Store:        st,
		Prefs:        prefStore,
		Mode:         mode,
		DefaultGroup: cfg.DefaultGroup,
		Confirmer:    confirmer(cmd),
		Logger:       log,
	}
	var rc *remote.Client
	switch mode {
	case synchronizer.ModeServer:
		rc = remote.NewClient(cfg.Endpoint, nil)
		syncCfg.Submitter = rc
	default:
		syncCfg.Fetcher = app.NewFetcher(cfg.Common)
		syncCfg.Extractor = app.NewExtractor(cfg.Common)
	}

	s, err := synchronizer.New(syncCfg)
	if err != nil {
		_ = closeStore()
		return err
	}

	env = &cliEnv{
		cfg:        cfg,
		logger:     log,
		sync:       s,
		prefs:      prefStore,
		remote:     rc,
		closeStore: closeStore,
	}
	return nil
}

func teardown() error {
	if env == nil {
		return nil
	}
	env.sync.Stop()
	_ = env.logger.Sync() // stderr sync errors are not actionable
	return env.closeStore()
}

// refreshed loads the current view, as every entry-addressing command needs it.
func refreshed(ctx context.Context) (synchronizer.View, error) {
	if err := env.sync.Refresh(ctx); err != nil {
		return synchronizer.View{}, err
	}
	return env.sync.View(), nil
}
