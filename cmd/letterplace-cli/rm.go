package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
	"github.com/MrSnakeDoc/letterplace/internal/synchronizer"
)

var rmCmd = &cobra.Command{
	Use:     "rm <entry>",
	Aliases: []string{"delete"},
	Short:   "Delete an entry",
	Long: `Rm asks for confirmation and deletes the entry. Use --yes to skip the
prompt in scripts.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := refreshed(cmd.Context())
		if err != nil {
			return err
		}
		e, err := resolveRef(v, args[0])
		if err != nil {
			return err
		}

		deleted, err := env.sync.Delete(cmd.Context(), e.ID)
		if err != nil {
			return err
		}
		if !deleted {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  %s deleted\n", short(e.ID))
		return nil
	},
}

func init() {
	rmCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "delete without asking")
}

// confirmer prompts on the command's stdin unless --yes is set.
func confirmer(cmd *cobra.Command) synchronizer.Confirmer {
	return synchronizer.ConfirmFunc(func(ctx context.Context, e domain.Entry) (bool, error) {
		if flagYes {
			return true, nil
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Delete %q? [y/N] ", label(e))
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return false, nil
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	})
}
