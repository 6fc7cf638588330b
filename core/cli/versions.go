package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emenda-labs/factdiff/pkg/apiclient"
)

// VersionsOptions holds the resolved settings for "versions".
type VersionsOptions struct {
	BaseURL string
	Limit   int
	Verbose bool
	NoColor bool
}

// VersionsRunFunc is the function signature for the versions command handler.
type VersionsRunFunc func(ctx context.Context, opts VersionsOptions) error

// NewVersionsCmd creates the "versions" subcommand.
func NewVersionsCmd(runFunc VersionsRunFunc) *cobra.Command {
	var opts VersionsOptions
	v := newViper()

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List published documentation versions",
		Long:  "List the documentation versions published on the documentation host, newest first.",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, v); err != nil {
				return err
			}
			opts = VersionsOptions{
				BaseURL: v.GetString("base-url"),
				Limit:   v.GetInt("limit"),
				Verbose: v.GetBool(flagVerbose),
				NoColor: v.GetBool(flagNoColor),
			}
			if opts.Limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunc(cmd.Context(), opts)
		},
	}

	cmd.Flags().String("base-url", apiclient.DefaultBaseURL, "Documentation host whose index is scraped")
	cmd.Flags().IntP("limit", "n", 0, "Show only the newest N versions (0 for all)")

	return cmd
}
